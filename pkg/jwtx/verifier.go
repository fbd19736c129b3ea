package jwtx

import "errors"

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Signer is our interface for anything that can sign session claims.
type Signer interface {
	Sign(Claims) (string, error)
}

var (
	// ErrMalformed covers every non-recoverable verification failure:
	// garbage input, a bad signature, or claims signed for another
	// deployment. Callers must not attempt silent renewal for these.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrExpired means the token was structurally valid and correctly
	// signed but its expiry has passed. This is the only failure that
	// may be recovered via a refresh token.
	ErrExpired = errors.New("jwtx: token expired")

	ErrIssuer   = errors.New("jwtx: issuer mismatch")
	ErrAudience = errors.New("jwtx: audience mismatch")
)
