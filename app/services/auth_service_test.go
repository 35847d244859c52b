package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	auth := NewAuthService("secret", "zh-address-parser", time.Hour)

	token, expiresAt, err := auth.IssueToken("ops", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestAuthServiceRejects(t *testing.T) {
	auth := NewAuthService("secret", "zh-address-parser", time.Hour)

	_, err := auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _, err := NewAuthService("other", "zh-address-parser", time.Hour).IssueToken("ops", RoleAdmin)
	require.NoError(t, err)
	_, err = auth.ValidateToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, _, err := NewAuthService("secret", "someone-else", time.Hour).IssueToken("ops", RoleAdmin)
	require.NoError(t, err)
	_, err = auth.ValidateToken(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := NewAuthService("secret", "zh-address-parser", time.Nanosecond).IssueToken("ops", RoleAdmin)
	require.NoError(t, err)
	time.Sleep(2 * time.Second)
	_, err = auth.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
