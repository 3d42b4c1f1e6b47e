package passwordhasher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const SECRET = "test-secret"
const PASSWORD = "Test-password-123"

func TestValidPassword(t *testing.T) {
	// Setup ---
	hasher := NewBcrypt(SECRET, 4)

	// Exercise ---
	hash, err := hasher.HashPassword(PASSWORD)

	// Verify ---
	require.NoError(t, err)
	require.True(t, hasher.ValidatePassword(PASSWORD, hash))
}

func TestInvalidPassword(t *testing.T) {
	// Setup ---
	hasher := NewBcrypt(SECRET, 4)

	// Exercise ---
	hash, err := hasher.HashPassword(PASSWORD)

	// Verify ---
	require.NoError(t, err)
	require.False(t, hasher.ValidatePassword("another-password", hash))
}

func TestSecretAffectsValidation(t *testing.T) {
	// Setup ---
	hasher := NewBcrypt(SECRET, 4)
	otherHasher := NewBcrypt("another-secret", 4)

	// Exercise ---
	hash, err := hasher.HashPassword(PASSWORD)

	// Verify ---
	require.NoError(t, err)
	require.False(t, otherHasher.ValidatePassword(PASSWORD, hash))
}

func TestHashIsSalted(t *testing.T) {
	// Setup ---
	hasher := NewBcrypt(SECRET, 4)

	// Exercise ---
	first, err := hasher.HashPassword(PASSWORD)
	require.NoError(t, err)
	second, err := hasher.HashPassword(PASSWORD)

	// Verify ---
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.Equal(t, "***", first.String())
}
