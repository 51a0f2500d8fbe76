package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zesto-backend/domain"
)

func TestGetUserIDByToken(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.GenerateTokenUser("user-1", domain.RoleUser, time.Hour)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, domain.RoleUser, role)
}

func TestGetUserIDByToken_Rejects(t *testing.T) {
	svc := NewJWTService("secret")

	expired, err := svc.GenerateTokenUser("user-1", domain.RoleUser, -time.Minute)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	foreign, err := NewJWTService("other").GenerateTokenUser("user-1", domain.RoleUser, time.Hour)
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(foreign)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = svc.GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
