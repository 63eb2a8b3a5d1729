package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Generate("64f0c3e2a1b2c3d4e5f60718", "alice@example.com")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c3e2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate("id", "a@b.c")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)

	token, err := m.Generate("id", "a@b.c")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
