package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSignerHS256RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewSignerHS256(nil)
	require.Error(t, err)

	_, err = NewSignerHS256([]byte{})
	require.Error(t, err)
}

func TestHS256SignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	signer, err := NewSignerHS256(secret)
	require.NoError(t, err)
	verifier := NewVerifierHS256(secret, "issuer", []string{"aud"})

	claims := NewSessionClaims("user-1", time.Minute, "issuer", []string{"aud"}, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "issuer", got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestHS256VerifyWrongSecretIsMalformed(t *testing.T) {
	t.Parallel()

	signer, err := NewSignerHS256([]byte("secret-a"))
	require.NoError(t, err)
	verifier := NewVerifierHS256([]byte("secret-b"), "", nil)

	// Even an already-expired token signed with the wrong secret must
	// surface as malformed: signature checking runs before claim
	// validation, and silent renewal must never trigger off a forgery.
	claims := NewSessionClaims("user-1", -time.Minute, "", nil, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrMalformed)
	require.NotErrorIs(t, err, ErrExpired)
}

func TestHS256VerifyExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	signer, err := NewSignerHS256(secret)
	require.NoError(t, err)
	verifier := NewVerifierHS256(secret, "", nil)

	claims := NewSessionClaims("user-1", -time.Minute, "", nil, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256VerifyGarbage(t *testing.T) {
	t.Parallel()

	verifier := NewVerifierHS256([]byte("test-secret"), "", nil)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}
}

func TestHS256VerifyIssuerAudience(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	signer, err := NewSignerHS256(secret)
	require.NoError(t, err)

	t.Run("issuer mismatch", func(t *testing.T) {
		verifier := NewVerifierHS256(secret, "expected-issuer", nil)

		token, err := signer.Sign(NewSessionClaims("u", time.Minute, "other-issuer", nil, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrMalformed)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		verifier := NewVerifierHS256(secret, "", []string{"web"})

		token, err := signer.Sign(NewSessionClaims("u", time.Minute, "", []string{"mobile"}, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrMalformed)
		require.ErrorIs(t, err, ErrAudience)
	})

	t.Run("one matching audience suffices", func(t *testing.T) {
		verifier := NewVerifierHS256(secret, "", []string{"web"})

		token, err := signer.Sign(NewSessionClaims("u", time.Minute, "", []string{"mobile", "web"}, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.NoError(t, err)
	})
}

func TestDefaultTTLOrdering(t *testing.T) {
	t.Parallel()

	require.Less(t, DefaultAccessTokenTTL, DefaultRefreshTokenTTL)
}
