package services

import (
	"errors"
	"fmt"
	"strings"

	"insightboard/internal/authz"
	"insightboard/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleExists        = errors.New("role already exists")
	ErrRoleInUse         = errors.New("role is referenced by existing users")
	ErrSystemRole        = errors.New("system roles cannot be deleted")
	ErrUnknownPermission = errors.New("unknown permission name")
)

type RoleService struct {
	audit *AuditService
}

func NewRoleService(audit *AuditService) *RoleService {
	return &RoleService{audit: audit}
}

// GetRoles returns all roles with their permissions.
func (s *RoleService) GetRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := models.DB.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RoleService) GetRole(id uint) (*models.Role, error) {
	var role models.Role
	if err := models.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// resolvePermissions validates names against the closed vocabulary, dedupes
// them, and loads the matching rows.
func resolvePermissions(tx *gorm.DB, names []string) ([]models.Permission, error) {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !authz.ValidPermission(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, name)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	if len(unique) == 0 {
		return []models.Permission{}, nil
	}

	var perms []models.Permission
	if err := tx.Where("name IN ?", unique).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// CreateRole creates a role and its permission assignments atomically: a
// partially configured role is never visible outside the transaction.
// Concurrent creates with the same name are resolved by the unique index.
func (s *RoleService) CreateRole(name, description string, permissionNames []string, actor *uint) (*models.Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}

	role := &models.Role{
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		perms, err := resolvePermissions(tx, permissionNames)
		if err != nil {
			return err
		}
		if err := tx.Create(role).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrRoleExists
			}
			return err
		}
		if len(perms) > 0 {
			if err := tx.Model(role).Association("Permissions").Append(perms); err != nil {
				return err
			}
		}
		role.Permissions = perms
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "create",
		Resource:   "role",
		ResourceID: role.Name,
	})

	return role, nil
}

// UpdateRole updates the role's metadata.
func (s *RoleService) UpdateRole(id uint, description *string, active *bool, actor *uint) (*models.Role, error) {
	role, err := s.GetRole(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if description != nil {
		updates["description"] = strings.TrimSpace(*description)
	}
	if active != nil {
		updates["active"] = *active
	}
	if len(updates) > 0 {
		if err := models.DB.Model(role).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "update",
		Resource:   "role",
		ResourceID: role.Name,
	})

	return s.GetRole(id)
}

// SetPermissions replaces a role's permission set. Duplicates in the input
// collapse; fetching the role afterwards returns exactly the deduped set.
func (s *RoleService) SetPermissions(id uint, permissionNames []string, actor *uint) (*models.Role, error) {
	role, err := s.GetRole(id)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		perms, err := resolvePermissions(tx, permissionNames)
		if err != nil {
			return err
		}
		return tx.Model(role).Association("Permissions").Replace(perms)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "set_permissions",
		Resource:   "role",
		ResourceID: role.Name,
	})

	return s.GetRole(id)
}

// DeleteRole removes a role and cascades its permission assignments. A role
// referenced by any user is protected: the delete is rejected and no rows
// are removed.
func (s *RoleService) DeleteRole(id uint, actor *uint) error {
	role, err := s.GetRole(id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	var userCount int64
	if err := models.DB.Model(&models.User{}).Where("role_id = ?", id).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return ErrRoleInUse
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "delete",
		Resource:   "role",
		ResourceID: role.Name,
	})

	return nil
}

// GetPermissions returns the full seeded permission catalog.
func (s *RoleService) GetPermissions() ([]models.Permission, error) {
	var perms []models.Permission
	if err := models.DB.Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// isUniqueViolation matches the dialect-specific duplicate-key errors for
// the sqlite and mysql drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
