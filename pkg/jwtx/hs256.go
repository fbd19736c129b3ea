package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer signs session claims with a process-wide shared secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer. The secret must be non-empty;
// there is deliberately no fallback value here, the caller is expected to
// fail startup when no secret is configured.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty HS256 secret")
	}
	return &HS256Signer{secret: secret}, nil
}

// Sign serializes and signs the claims.
func (s *HS256Signer) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// HS256Verifier verifies HS256 tokens against a shared secret and the
// deployment's expected issuer/audience.
type HS256Verifier struct {
	secret   []byte
	issuer   string
	audience []string
}

// NewVerifierHS256 builds a verifier. Empty issuer or audience disables
// that particular check.
func NewVerifierHS256(secret []byte, issuer string, audience []string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer, audience: audience}
}

// Verify checks the signature, structure and expiry of a token.
//
// The two failure kinds matter to callers: ErrExpired drives the silent
// renewal path, everything else collapses into ErrMalformed and is
// terminal. A token signed with a different secret always yields
// ErrMalformed, never ErrExpired, because the signature is checked before
// any claim validation runs.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(tokenStr, &claims, v.keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := claims.ValidateAudience(v.audience); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return claims, nil
}

func (v *HS256Verifier) keyfunc(_ *jwt.Token) (any, error) {
	return v.secret, nil
}
