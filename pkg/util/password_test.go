package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret-password", hash)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "secret-password"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "secret-password"))
}

func TestSetPasswordCost(t *testing.T) {
	t.Cleanup(func() {
		SetPasswordCost(DefaultPasswordCost)
	})

	SetPasswordCost(bcrypt.MinCost)

	hash, err := HashPassword("secret-password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.True(t, VerifyPassword(hash, "secret-password"))
}

func TestSetPasswordCost_OutOfRangeUsesDefault(t *testing.T) {
	t.Cleanup(func() {
		SetPasswordCost(DefaultPasswordCost)
	})

	SetPasswordCost(0)

	hash, err := HashPassword("secret-password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultPasswordCost, cost)
}
