package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-gateway/internal/auth"
)

func TestHashPassword_CompareRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("pw123456", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "pw123456", hash)

	assert.NoError(t, auth.ComparePassword(hash, "pw123456"))
	assert.Error(t, auth.ComparePassword(hash, "pw1234567"))
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	first, err := auth.HashPassword("pw123456", 4)
	require.NoError(t, err)
	second, err := auth.HashPassword("pw123456", 4)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	hash, err := auth.HashPassword("pw123456", -1)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(hash, "pw123456"))
}
