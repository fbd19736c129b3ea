package cryptox

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		token, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// The value goes into URLs and cookies unescaped.
		require.Equal(t, token, url.QueryEscape(token))

		again, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, again)
	}
}

func TestGenerateTokenInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	const count = 100
	seen := make(map[string]bool, count)

	for range count {
		token, err := GenerateToken(TokenSize128)
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
