package services

import (
	"errors"
	"strings"

	"insightboard/internal/config"
	"insightboard/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	auth     *AuthService
	audit    *AuditService
	notify   *NotificationService
	security *SecurityService
}

func NewUserService(cfg *config.Config, audit *AuditService, notify *NotificationService, security *SecurityService) *UserService {
	return &UserService{
		auth:     NewAuthService(cfg),
		audit:    audit,
		notify:   notify,
		security: security,
	}
}

// GetUsers returns all users with their roles
func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := models.DB.Preload("Role").Order("email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.Preload("Role.Permissions").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user with the named role.
func (s *UserService) CreateUser(email, name, password, roleName string, actor *uint) (*models.User, error) {
	user, err := s.auth.CreateUser(email, name, password, roleName)
	if err != nil {
		return nil, err
	}

	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "create",
		Resource:   "user",
		ResourceID: user.Email,
	})

	return user, nil
}

// UpdateUser updates profile fields and, when roleName is non-empty, moves
// the user to the named role. The new permission set takes effect on the
// user's next request through read-through session resolution.
func (s *UserService) UpdateUser(id uint, name, roleName string, active *bool, actor *uint) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if active != nil {
		updates["active"] = *active
	}

	roleChanged := false
	if roleName != "" {
		var role models.Role
		if err := models.DB.Where("name = ?", strings.ToLower(roleName)).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
		if role.ID != user.RoleID {
			updates["role_id"] = role.ID
			roleChanged = true
		}
	}

	if len(updates) > 0 {
		if err := models.DB.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	action := "update"
	if roleChanged {
		action = "role_change"
	}
	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     action,
		Resource:   "user",
		ResourceID: user.Email,
	})

	updated, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if roleChanged {
		if s.security != nil {
			s.security.Emit(models.EventRoleChanged, "", &updated.ID, models.SeverityMedium, "moved to role "+updated.Role.Name)
		}
		if s.notify != nil {
			s.notify.Notify(updated.ID, "Role updated",
				"Your role is now "+updated.Role.Name+". The change applies to your next request.")
		}
	}

	return updated, nil
}

// UpdatePassword replaces the user's password hash.
func (s *UserService) UpdatePassword(id uint, password string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}

	return models.DB.Model(user).Updates(map[string]interface{}{
		"password_hash":        hash,
		"must_change_password": false,
	}).Error
}

// DeleteUser soft-deletes the user and revokes their sessions. Rows are
// never hard-deleted so audit references stay resolvable.
func (s *UserService) DeleteUser(id uint, actor *uint) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "delete",
		Resource:   "user",
		ResourceID: user.Email,
	})

	return nil
}
