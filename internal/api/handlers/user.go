package handlers

import (
	"strconv"

	"insightboard/internal/config"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(cfg *config.Config, audit *services.AuditService, notify *services.NotificationService, security *services.SecurityService) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(cfg, audit, notify, security),
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// GetUsers returns all users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get users")
		return
	}

	c.JSON(200, gin.H{"users": users})
}

// GetUser returns a specific user
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	user, err := h.userService.GetUser(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, user)
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Name, req.Password, req.Role, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(201, user)
}

// UpdateUser updates a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(uint(id), req.Name, req.Role, req.Active, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, user)
}

// UpdatePassword updates user password
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	if err := h.userService.UpdatePassword(uint(id), req.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Password updated successfully"})
}

// DeleteUser soft-deletes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid user id")
		return
	}

	if err := h.userService.DeleteUser(uint(id), actorID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "User deleted successfully"})
}
