package service

import (
	"context"
	"errors"
	"time"

	"github.com/corethink/backend/internal/domain"
	"github.com/corethink/backend/pkg/jwtx"
	"github.com/corethink/backend/pkg/slogx"
)

var ErrInvalidRefresh = errors.New("invalid_refresh_token")

// TokenService issues and verifies the session token pair. It is
// stateless: refresh tokens are not persisted or rotated, a valid refresh
// token simply mints a fresh pair.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier

	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// The zero value of either TTL means "use the default". Negative values
// are honored as-is and mint already-expired tokens, which tests use.
func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL != 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL != 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// IssuePair mints an access/refresh token pair for the given subject.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (domain.TokenPair, error) {
	now := time.Now()

	access, err := s.Signer.Sign(jwtx.NewSessionClaims(userID, s.accessTTL(), s.Issuer, s.Audience, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Signer.Sign(jwtx.NewSessionClaims(userID, s.refreshTTL(), s.Issuer, s.Audience, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// Verify validates an access token and returns its claims.
func (s *TokenService) Verify(token string) (jwtx.Claims, error) {
	return s.Verifier.Verify(token)
}

// Refresh validates a refresh token and mints a new pair for its subject.
// Every verification failure collapses to ErrInvalidRefresh so callers
// cannot distinguish an expired refresh token from a forged one.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		slogx.FromContext(ctx).Info("refresh token rejected", "error", err)
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	if claims.Subject == "" {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	return s.IssuePair(ctx, claims.Subject)
}
