package services

import (
	"fmt"

	"insightboard/internal/authz"
	"insightboard/internal/config"
	"insightboard/internal/models"

	"gorm.io/gorm"
)

// rolePermissionSets maps each seeded role to its permission names.
// super_admin carries none: the checker grants it everything implicitly.
// admin holds a broad explicit set but NOT the destructive security
// permissions; routes that accept admin-by-role still admit it.
var rolePermissionSets = map[string][]string{
	authz.RoleSuperAdmin: {},
	authz.RoleAdmin: {
		authz.PermContentRead, authz.PermContentCreate, authz.PermContentUpdate,
		authz.PermContentDelete, authz.PermContentManage, authz.PermCategoryManage,
		authz.PermUserRead, authz.PermUserCreate, authz.PermUserUpdate, authz.PermUserDelete,
		authz.PermRoleRead, authz.PermRoleCreate, authz.PermRoleUpdate,
		authz.PermPermissionRead,
		authz.PermFileUpload, authz.PermAnalyticsView, authz.PermNotificationManage,
		authz.PermSecurityView,
	},
	authz.RoleEditor: {
		authz.PermContentRead, authz.PermContentCreate, authz.PermContentUpdate,
		authz.PermFileUpload, authz.PermAnalyticsView,
	},
	authz.RoleViewer: {
		authz.PermContentRead, authz.PermAnalyticsView,
	},
}

var roleDescriptions = map[string]string{
	authz.RoleSuperAdmin: "Unrestricted access to everything",
	authz.RoleAdmin:      "Administrative access",
	authz.RoleEditor:     "Creates and edits content",
	authz.RoleViewer:     "Read-only dashboard access",
}

// Seed installs the permission vocabulary, the system roles, and the default
// super_admin user. Idempotent; safe to run at every boot.
func Seed(cfg *config.Config) error {
	if err := seedPermissions(); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := seedRoles(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := seedDefaultUser(cfg); err != nil {
		return fmt.Errorf("seed default user: %w", err)
	}
	return nil
}

func seedPermissions() error {
	for _, def := range authz.Vocabulary {
		var existing models.Permission
		err := models.DB.Where("name = ?", def.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		perm := models.Permission{
			Name:        def.Name,
			Resource:    def.Resource,
			Action:      def.Action,
			Description: def.Description,
		}
		if err := models.DB.Create(&perm).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRoles() error {
	for _, name := range []string{authz.RoleSuperAdmin, authz.RoleAdmin, authz.RoleEditor, authz.RoleViewer} {
		var role models.Role
		err := models.DB.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		permNames := rolePermissionSets[name]
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			role = models.Role{
				Name:        name,
				Description: roleDescriptions[name],
				Active:      true,
				IsSystem:    true,
			}
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
			if len(permNames) == 0 {
				return nil
			}
			var perms []models.Permission
			if err := tx.Where("name IN ?", permNames).Find(&perms).Error; err != nil {
				return err
			}
			return tx.Model(&role).Association("Permissions").Append(perms)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedDefaultUser(cfg *config.Config) error {
	var count int64
	if err := models.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.DefaultUser.Email == "" || cfg.DefaultUser.Password == "" {
		return nil
	}

	roleName := cfg.DefaultUser.Role
	if roleName == "" {
		roleName = authz.RoleSuperAdmin
	}

	auth := NewAuthService(cfg)
	_, err := auth.CreateUser(cfg.DefaultUser.Email, cfg.DefaultUser.Name, cfg.DefaultUser.Password, roleName)
	return err
}
