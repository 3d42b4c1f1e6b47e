package tokengenerator

import (
	"regexp"
	"testing"

	"passreset/internal/core/domain/resettoken"

	"github.com/stretchr/testify/require"
)

func TestTokenFormat(t *testing.T) {
	// Setup ---
	generator := NewCryptoRand()
	format := regexp.MustCompile(`^[0-9a-f]{64}$`)

	// Exercise ---
	token, err := generator.GenerateToken()

	// Verify ---
	require.NoError(t, err)
	require.Len(t, string(token), resettoken.TokenLength)
	require.Regexp(t, format, string(token))
}

func TestTokensDoNotCollide(t *testing.T) {
	// Setup ---
	generator := NewCryptoRand()
	seen := make(map[resettoken.Token]struct{}, 100_000)

	// Exercise ---
	for i := 0; i < 100_000; i++ {
		token, err := generator.GenerateToken()
		require.NoError(t, err)
		seen[token] = struct{}{}
	}

	// Verify ---
	require.Len(t, seen, 100_000)
}

func TestTokenValueNeverPrinted(t *testing.T) {
	// Setup ---
	generator := NewCryptoRand()

	// Exercise ---
	token, err := generator.GenerateToken()

	// Verify ---
	require.NoError(t, err)
	require.Equal(t, "***", token.String())
}
