package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Success(t *testing.T) {
	password := "mysecretpassword123"

	hash, err := HashPassword(password)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	hash1, err1 := HashPassword("samepassword1")
	hash2, err2 := HashPassword("samepassword1")

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2) // bcrypt использует случайную соль
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-1")
	require.NoError(t, err)

	assert.True(t, CheckPassword("correct-horse-1", hash))
	assert.False(t, CheckPassword("wrong-horse-1", hash))
	assert.False(t, CheckPassword("correct-horse-1", "not-a-hash"))
}

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "abcdefg1", false},
		{"valid unicode letters", "пароль123", false},
		{"too short", "abc1", true},
		{"exactly seven", "abcdef1", true},
		{"no digit", "abcdefgh", true},
		{"no letter", "12345678", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
