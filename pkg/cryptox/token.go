package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Token sizes in bytes before encoding.
const (
	// TokenSize128 (16 bytes, 22 chars base64url) suits short-lived
	// values like OAuth state and CSRF tokens.
	TokenSize128 = 16
	// TokenSize256 (32 bytes, 43 chars base64url) suits long-lived
	// secrets like API keys.
	TokenSize256 = 32
)

// GenerateToken returns size bytes of cryptographically secure
// randomness as a base64url string without padding, so the value is
// safe to place in URLs and cookies unescaped.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
