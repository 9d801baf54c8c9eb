package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken("user-1", "ann@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_SameSecondTokensDiffer(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, time.Hour)

	first, err := manager.GenerateAccessToken("user-1", "ann@example.com")
	require.NoError(t, err)
	second, err := manager.GenerateAccessToken("user-1", "ann@example.com")
	require.NoError(t, err)

	// blacklist хранит токен целиком: две сессии не должны совпадать
	assert.NotEqual(t, first, second)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute, time.Hour)
	now := time.Now()

	sign := func(method jwt.SigningMethod, claims SessionClaims) string {
		signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return signed
	}
	valid := func() SessionClaims {
		return SessionClaims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    TokenIssuer,
				Subject:   "user-1",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "other algorithm",
			token: func() string { return sign(jwt.SigningMethodHS512, valid()) },
		},
		{
			name: "other issuer",
			token: func() string {
				claims := valid()
				claims.Issuer = "someone-else"
				return sign(jwt.SigningMethodHS256, claims)
			},
		},
		{
			name: "subject differs from user",
			token: func() string {
				claims := valid()
				claims.Subject = "user-2"
				return sign(jwt.SigningMethodHS256, claims)
			},
		},
		{
			name: "no user",
			token: func() string {
				claims := valid()
				claims.UserID = ""
				claims.Subject = ""
				return sign(jwt.SigningMethodHS256, claims)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.ValidateToken(tt.token())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := manager.ValidateToken(sign(jwt.SigningMethodHS256, valid()))
	assert.NoError(t, err)
}

func TestJWTManager_Lifetimes(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 15*time.Minute, manager.AccessTTL())
	assert.Equal(t, issued.Add(7*24*time.Hour), manager.RefreshExpiry(issued))
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken("user-1", "ann@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Minute, time.Hour)
	verifier := NewJWTManager("secret-b", time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken("user-1", "ann@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute, time.Hour)

	_, err := manager.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RefreshTokensAreUnique(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute, time.Hour)

	first, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := manager.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 44) // base64 от 32 байт
}
