package service

import (
	"context"
	"testing"
	"time"

	"github.com/corethink/backend/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	secret := []byte("unit-test-secret")
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)

	return &TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewVerifierHS256(secret, "corethink", []string{"corethink-web"}),
		Issuer:     "corethink",
		Audience:   []string{"corethink-web"},
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestIssuePair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestTokenService(t)

	pair, err := svc.IssuePair(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.Verify(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := svc.Verify(pair.RefreshToken)
	require.NoError(t, err)

	// Same subject, access expires strictly before refresh.
	require.Equal(t, "user-1", access.Subject)
	require.Equal(t, "user-1", refresh.Subject)
	require.True(t, access.ExpiresAt.Time.Before(refresh.ExpiresAt.Time))
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestTokenService(t)

	pair, err := svc.IssuePair(ctx, "user-1")
	require.NoError(t, err)

	t.Run("mints a fresh pair for the same subject", func(t *testing.T) {
		renewed, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.Verify(renewed.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
	})

	t.Run("no rotation: same refresh token works twice", func(t *testing.T) {
		first, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		second, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		// Both pairs must verify independently; equality is not required
		// and not asserted.
		_, err = svc.Verify(first.AccessToken)
		require.NoError(t, err)
		_, err = svc.Verify(second.AccessToken)
		require.NoError(t, err)
	})

	t.Run("garbage collapses to ErrInvalidRefresh", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("expired collapses to ErrInvalidRefresh", func(t *testing.T) {
		expired := newTestTokenService(t)
		expired.RefreshTTL = -time.Minute

		stale, err := expired.IssuePair(ctx, "user-1")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, stale.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("access token from another deployment collapses too", func(t *testing.T) {
		otherSecret, err := jwtx.NewSignerHS256([]byte("other-secret"))
		require.NoError(t, err)
		other := &TokenService{
			Signer:   otherSecret,
			Verifier: jwtx.NewVerifierHS256([]byte("other-secret"), "corethink", []string{"corethink-web"}),
			Issuer:   "corethink",
			Audience: []string{"corethink-web"},
		}
		foreign, err := other.IssuePair(ctx, "user-1")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, foreign.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}
