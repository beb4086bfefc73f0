package services

import (
	"testing"

	"insightboard/internal/authz"
	"insightboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoleRoundTrip(t *testing.T) {
	setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	// Duplicate names in the input collapse to a set
	role, err := svc.CreateRole("analyst", "reads content and analytics", []string{
		authz.PermContentRead,
		authz.PermAnalyticsView,
		authz.PermContentRead,
	}, nil)
	require.NoError(t, err)

	fetched, err := svc.GetRole(role.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(fetched.Permissions))
	for _, p := range fetched.Permissions {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{authz.PermContentRead, authz.PermAnalyticsView}, names)
}

func TestCreateRoleUnknownPermission(t *testing.T) {
	setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	_, err := svc.CreateRole("broken", "", []string{"content.updte"}, nil)
	assert.ErrorIs(t, err, ErrUnknownPermission)

	// The rejected role was never created
	var count int64
	models.DB.Model(&models.Role{}).Where("name = ?", "broken").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	_, err := svc.CreateRole("analyst", "", nil, nil)
	require.NoError(t, err)

	_, err = svc.CreateRole("Analyst", "", nil, nil)
	assert.ErrorIs(t, err, ErrRoleExists)
}

func TestDeleteRoleInUse(t *testing.T) {
	cfg := setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	role, err := svc.CreateRole("analyst", "", []string{authz.PermContentRead}, nil)
	require.NoError(t, err)

	auth := NewAuthService(cfg)
	_, err = auth.CreateUser("analyst@example.com", "Analyst", "password123", "analyst")
	require.NoError(t, err)

	err = svc.DeleteRole(role.ID, nil)
	assert.ErrorIs(t, err, ErrRoleInUse)

	// Nothing was removed
	fetched, err := svc.GetRole(role.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Permissions, 1)
}

func TestDeleteRoleCascadesPermissions(t *testing.T) {
	setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	role, err := svc.CreateRole("temp", "", []string{authz.PermContentRead, authz.PermContentCreate}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRole(role.ID, nil))

	var joinCount int64
	models.DB.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Count(&joinCount)
	assert.Equal(t, int64(0), joinCount)

	// Permission catalog untouched
	var permCount int64
	models.DB.Model(&models.Permission{}).Count(&permCount)
	assert.Equal(t, int64(len(authz.Vocabulary)), permCount)
}

func TestDeleteSystemRole(t *testing.T) {
	setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	var admin models.Role
	require.NoError(t, models.DB.Where("name = ?", authz.RoleAdmin).First(&admin).Error)

	err := svc.DeleteRole(admin.ID, nil)
	assert.ErrorIs(t, err, ErrSystemRole)
}

func TestSetPermissionsReplaces(t *testing.T) {
	setupTestDB(t)
	svc := NewRoleService(NewAuditService())

	role, err := svc.CreateRole("analyst", "", []string{authz.PermContentRead}, nil)
	require.NoError(t, err)

	updated, err := svc.SetPermissions(role.ID, []string{authz.PermAnalyticsView, authz.PermAnalyticsView}, nil)
	require.NoError(t, err)

	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, authz.PermAnalyticsView, updated.Permissions[0].Name)
}
