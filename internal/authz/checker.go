package authz

import "insightboard/internal/models"

// Checker evaluates the permission graph for one resolved user snapshot.
// Evaluation is pure; the snapshot is loaded once per request and never
// refreshed mid-request.
type Checker struct {
	userID      uint
	roleName    string
	permissions map[string]struct{}
}

// NewChecker builds a checker from a hydrated user (role and permissions
// preloaded by the session resolver).
func NewChecker(user *models.User) *Checker {
	set := make(map[string]struct{}, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		set[p.Name] = struct{}{}
	}
	return &Checker{
		userID:      user.ID,
		roleName:    user.Role.Name,
		permissions: set,
	}
}

func (c *Checker) UserID() uint {
	return c.userID
}

func (c *Checker) RoleName() string {
	return c.roleName
}

// HasPermission is true for super_admin unconditionally, otherwise only when
// the name appears in the role's permission set. A role with zero permissions
// grants zero capability.
func (c *Checker) HasPermission(name string) bool {
	if c.roleName == RoleSuperAdmin {
		return true
	}
	_, ok := c.permissions[name]
	return ok
}

func (c *Checker) HasAnyPermission(names ...string) bool {
	for _, name := range names {
		if c.HasPermission(name) {
			return true
		}
	}
	return false
}

func (c *Checker) HasAllPermissions(names ...string) bool {
	for _, name := range names {
		if !c.HasPermission(name) {
			return false
		}
	}
	return true
}

func (c *Checker) HasRole(name string) bool {
	return c.roleName == name
}

func (c *Checker) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if c.roleName == name {
			return true
		}
	}
	return false
}

// IsAdmin is a role-name check only. It does NOT imply any explicit
// permission: routes that demand a permission still deny a plain admin
// without the matching role_permissions row.
func (c *Checker) IsAdmin() bool {
	return c.roleName == RoleAdmin || c.roleName == RoleSuperAdmin
}

func (c *Checker) IsSuperAdmin() bool {
	return c.roleName == RoleSuperAdmin
}

func (c *Checker) OwnsResource(ownerUserID uint) bool {
	return c.userID == ownerUserID
}
