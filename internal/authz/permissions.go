package authz

// Permission names form a closed vocabulary. Route guards and role
// configuration only ever reference these constants; a name outside the set
// is rejected at the point of role configuration.
const (
	PermContentRead    = "content.read"
	PermContentCreate  = "content.create"
	PermContentUpdate  = "content.update"
	PermContentDelete  = "content.delete"
	PermContentManage  = "content.manage"
	PermCategoryManage = "category.manage"

	PermUserRead   = "user.read"
	PermUserCreate = "user.create"
	PermUserUpdate = "user.update"
	PermUserDelete = "user.delete"

	PermRoleRead   = "role.read"
	PermRoleCreate = "role.create"
	PermRoleUpdate = "role.update"
	PermRoleDelete = "role.delete"

	PermPermissionRead = "permission.read"

	PermFileUpload         = "file.upload"
	PermAnalyticsView      = "analytics.view"
	PermNotificationManage = "notification.manage"

	PermSecurityView   = "system.security.view"
	PermSecurityManage = "system.security.manage"
	PermSystemAdmin    = "system.admin"
)

// Distinguished role names.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleViewer     = "viewer"
)

// PermissionDef describes one seeded permission row.
type PermissionDef struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// Vocabulary lists every permission the system knows about, in seed order.
var Vocabulary = []PermissionDef{
	{PermContentRead, "content", "read", "View content items"},
	{PermContentCreate, "content", "create", "Create content items"},
	{PermContentUpdate, "content", "update", "Update content items"},
	{PermContentDelete, "content", "delete", "Delete content items"},
	{PermContentManage, "content", "manage", "Manage all content and settings"},
	{PermCategoryManage, "category", "manage", "Manage content categories"},
	{PermUserRead, "user", "read", "View user accounts"},
	{PermUserCreate, "user", "create", "Create user accounts"},
	{PermUserUpdate, "user", "update", "Update user accounts"},
	{PermUserDelete, "user", "delete", "Deactivate user accounts"},
	{PermRoleRead, "role", "read", "View roles"},
	{PermRoleCreate, "role", "create", "Create roles"},
	{PermRoleUpdate, "role", "update", "Update roles and their permissions"},
	{PermRoleDelete, "role", "delete", "Delete roles"},
	{PermPermissionRead, "permission", "read", "View the permission catalog"},
	{PermFileUpload, "file", "upload", "Upload files"},
	{PermAnalyticsView, "analytics", "view", "View dashboard analytics"},
	{PermNotificationManage, "notification", "manage", "Manage notifications"},
	{PermSecurityView, "system.security", "view", "View security events and the IP blacklist"},
	{PermSecurityManage, "system.security", "manage", "Manage the IP blacklist and security events"},
	{PermSystemAdmin, "system", "admin", "Full system administration"},
}

var vocabularySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Vocabulary))
	for _, def := range Vocabulary {
		set[def.Name] = struct{}{}
	}
	return set
}()

// ValidPermission reports whether name belongs to the closed vocabulary.
func ValidPermission(name string) bool {
	_, ok := vocabularySet[name]
	return ok
}
