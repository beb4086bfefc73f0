package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"insightboard/internal/config"
	"insightboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrTransient          = errors.New("backing store unavailable")
)

type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CreateUser creates a new user with the named role. Emails are stored
// lowercased so uniqueness is case-insensitive.
func (s *AuthService) CreateUser(email, name, password, roleName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	var role models.Role
	if err := models.DB.Where("name = ?", strings.ToLower(roleName)).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %q not found", roleName)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Email:           email,
		Name:            name,
		PasswordHash:    hashedPassword,
		Active:          true,
		RoleID:          role.ID,
		TermsAcceptedAt: &now,
	}

	// The email check above races with concurrent registrations and misses
	// soft-deleted rows still held by the unique index.
	if err := models.DB.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	user.Role = role
	return user, nil
}

// Authenticate verifies credentials and returns the user. Deactivated
// accounts fail with ErrUserInactive even when the password matches.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := models.DB.Where("email = ?", email).Preload("Role.Permissions").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// GenerateToken mints a signed session token for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(s.cfg.JWT.ExpiresIn)
	if err != nil {
		expiresIn = 24 * time.Hour
	}

	expiresAt := time.Now().Add(expiresIn)

	secret := s.cfg.JWT.Secret
	if secret == "" {
		secret = "insightboard-default-secret-change-in-production"
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role.Name,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
		"iss":     s.cfg.JWT.Issuer,
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// CreateSession creates a new session record
func (s *AuthService) CreateSession(userID uint, token, ip, userAgent string, expiresAt time.Time) error {
	session := &models.Session{
		UserID:     userID,
		Token:      token,
		IP:         ip,
		UserAgent:  userAgent,
		ExpiresAt:  expiresAt,
		LastSeenAt: time.Now(),
	}
	return models.DB.Create(session).Error
}

// ResolveSession turns credential material into a fully hydrated session
// snapshot. Resolution is read-through: the user's role and permissions are
// fetched fresh on every call so revocation takes effect on the next request.
// The role embedded in the token is identity hint only and never trusted.
func (s *AuthService) ResolveSession(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	secret := s.cfg.JWT.Secret
	if secret == "" {
		secret = "insightboard-default-secret-change-in-production"
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}

	var session models.Session
	if err := models.DB.Where("token = ? AND expires_at > ?", token, time.Now()).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	var user models.User
	if err := models.DB.Preload("Role.Permissions").First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	// Refresh activity; best effort, never blocks resolution.
	models.DB.Model(&session).Update("last_seen_at", time.Now())

	session.User = user
	return &session, nil
}

// DeleteSession deletes a session
func (s *AuthService) DeleteSession(token string) error {
	return models.DB.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteExpiredSessions removes expired sessions
func (s *AuthService) DeleteExpiredSessions() error {
	return models.DB.Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}

// GetSessions lists active sessions for a user.
func (s *AuthService) GetSessions(userID uint) ([]models.Session, error) {
	var sessions []models.Session
	if err := models.DB.Where("user_id = ? AND expires_at > ?", userID, time.Now()).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// RevokeSession deletes one of the user's own sessions by id.
func (s *AuthService) RevokeSession(userID, sessionID uint) error {
	result := models.DB.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// CreateResetToken issues a single-use password reset token for the account.
// Callers must not reveal whether the email exists.
func (s *AuthService) CreateResetToken(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := models.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	reset := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := models.DB.Create(reset).Error; err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword consumes a reset token and replaces the user's password. All
// existing sessions for the user are invalidated.
func (s *AuthService) ResetPassword(token, newPassword string) (*models.User, error) {
	var reset models.PasswordResetToken
	if err := models.DB.Where("token = ? AND used = ? AND expires_at > ?", token, false, time.Now()).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	var user models.User
	if err := models.DB.First(&user, reset.UserID).Error; err != nil {
		return nil, ErrInvalidResetToken
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"password_hash":        hash,
			"must_change_password": false,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&reset).Update("used", true).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
