package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("pw1")
	require.NoError(t, err)
	second, err := HashPassword("pw1")
	require.NoError(t, err)

	// Same password, different salts, both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("pw1", first))
	assert.True(t, CheckPassword("pw1", second))
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}
