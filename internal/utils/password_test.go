package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"symbols", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "mật khẩu 123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, hasher.Verify(tt.password, hash))
			assert.False(t, hasher.Verify(tt.password+"x", hash))
			assert.False(t, hasher.Verify("", hash))
		})
	}
}

func TestPasswordHasher_SaltedHashes(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("same")
	require.NoError(t, err)
	h2, err := hasher.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, hasher.Verify("same", h1))
	assert.True(t, hasher.Verify("same", h2))
}

func TestPasswordHasher_CorruptHashIsFalse(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-hash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).cost)
}
