package auth

import (
	"errors"
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	verifier := NewVerifier("test-secret", time.Hour)

	token, err := verifier.GenerateToken(&models.User{ID: 42, Role: models.RoleAdmin})
	require.NoError(t, err)

	principal, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), principal.UserID)
	assert.Equal(t, models.RoleAdmin, principal.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := NewVerifier("test-secret", -time.Minute)

	token, err := verifier.GenerateToken(&models.User{ID: 42, Role: models.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewVerifier("secret-a", time.Hour).GenerateToken(&models.User{ID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	_, err = NewVerifier("secret-b", time.Hour).Verify(token)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewVerifier("test-secret", time.Hour).Verify("not.a.token")
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestPermissionTable(t *testing.T) {
	tests := []struct {
		role   string
		action string
		want   bool
	}{
		{models.RoleUser, ActionManageOrders, true},
		{models.RoleUser, ActionManageUsers, false},
		{models.RoleUser, ActionManageSessions, false},
		{models.RoleAdmin, ActionManageUsers, true},
		{models.RoleAdmin, ActionManageSessions, false},
		{models.RoleMaster, ActionManageSessions, true},
		{models.RoleMaster, ActionManageUsers, true},
		{"ghost", ActionManageOrders, false},
		{models.RoleUser, "unknown.action", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Can(tt.role, tt.action), "role %q action %q", tt.role, tt.action)
	}
}
