package handlers

import (
	"errors"
	"strconv"

	"insightboard/internal/api/middleware"
	"insightboard/internal/authz"
	"insightboard/internal/config"
	"insightboard/internal/models"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	audit       *services.AuditService
	security    *services.SecurityService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, audit *services.AuditService, security *services.SecurityService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		audit:       audit,
		security:    security,
		cfg:         cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	ip := middleware.ClientIP(c)

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.security.Emit(models.EventLoginFailed, ip, nil, models.SeverityMedium, req.Email)
		}
		respondServiceError(c, err)
		return
	}

	token, expiresAt, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to generate token")
		return
	}

	if err := h.authService.CreateSession(user.ID, token, ip, c.GetHeader("User-Agent"), expiresAt); err != nil {
		respondError(c, 500, "INTERNAL", "Failed to create session")
		return
	}

	// Page navigation authenticates with the cookie; API clients keep the
	// bearer token from the response body.
	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)

	h.security.Emit(models.EventLoginSuccess, ip, &user.ID, models.SeverityLow, "")
	h.audit.Log(models.AuditLog{
		UserID:    &user.ID,
		Action:    "login",
		IPAddress: ip,
		UserAgent: c.GetHeader("User-Agent"),
	})

	user.PasswordHash = ""
	c.JSON(200, LoginResponse{Token: token, User: user})
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a viewer account. Guarded by RequireGuest: an
// authenticated visitor never reaches this handler.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	user, err := h.authService.CreateUser(req.Email, req.Name, req.Password, authz.RoleViewer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.audit.Log(models.AuditLog{
		UserID:     &user.ID,
		Action:     "register",
		Resource:   "user",
		ResourceID: user.Email,
		IPAddress:  middleware.ClientIP(c),
	})

	user.PasswordHash = ""
	c.JSON(201, user)
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, exists := c.Get("session")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	sess := session.(*models.Session)
	if err := h.authService.DeleteSession(sess.Token); err != nil {
		respondError(c, 500, "INTERNAL", "Failed to logout")
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)

	h.audit.Log(models.AuditLog{
		UserID:    &sess.UserID,
		Action:    "logout",
		IPAddress: middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})

	c.JSON(200, gin.H{"message": "Logged out successfully"})
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	u := user.(*models.User)
	u.PasswordHash = ""
	c.JSON(200, u)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset token. The response never reveals whether
// the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	token, err := h.authService.CreateResetToken(req.Email)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		respondServiceError(c, err)
		return
	}

	// Token delivery (email rendering) is an external collaborator. In debug
	// mode the token is returned directly for development convenience.
	resp := gin.H{"message": "If the account exists, a reset link has been sent"}
	if token != "" && h.cfg.Server.Mode == "debug" {
		resp["token"] = token
	}
	c.JSON(200, resp)
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword consumes a reset token and sets a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	user, err := h.authService.ResetPassword(req.Token, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ip := middleware.ClientIP(c)
	h.security.Emit(models.EventPasswordReset, ip, &user.ID, models.SeverityMedium, "")
	h.audit.Log(models.AuditLog{
		UserID:    &user.ID,
		Action:    "password_reset",
		Resource:  "user",
		IPAddress: ip,
	})

	c.JSON(200, gin.H{"message": "Password updated successfully"})
}

// GetSessions returns active sessions for the current user.
func (h *AuthHandler) GetSessions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	sessions, err := h.authService.GetSessions(userID.(uint))
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get sessions")
		return
	}

	c.JSON(200, gin.H{"sessions": sessions})
}

// RevokeSession deletes one of the caller's own sessions, logging out that
// device. The current session can revoke itself.
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid session id")
		return
	}

	if err := h.authService.RevokeSession(userID.(uint), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	h.audit.Log(models.AuditLog{
		UserID:    actorID(c),
		Action:    "session_revoke",
		Resource:  "session",
		IPAddress: middleware.ClientIP(c),
	})

	c.JSON(200, gin.H{"message": "Session revoked"})
}
