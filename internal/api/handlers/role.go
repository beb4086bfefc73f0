package handlers

import (
	"strconv"

	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(audit *services.AuditService) *RoleHandler {
	return &RoleHandler{
		roleService: services.NewRoleService(audit),
	}
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// GetRoles returns all roles with their permissions
func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.roleService.GetRoles()
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get roles")
		return
	}

	c.JSON(200, gin.H{"roles": roles})
}

// GetRole returns a specific role
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid role id")
		return
	}

	role, err := h.roleService.GetRole(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, role)
}

// CreateRole creates a role together with its initial permission set
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	role, err := h.roleService.CreateRole(req.Name, req.Description, req.Permissions, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(201, role)
}

// UpdateRole updates role metadata
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid role id")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	role, err := h.roleService.UpdateRole(uint(id), req.Description, req.Active, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, role)
}

// SetPermissions replaces the role's permission set
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid role id")
		return
	}

	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	role, err := h.roleService.SetPermissions(uint(id), req.Permissions, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, role)
}

// DeleteRole deletes a role unless it is still referenced
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid role id")
		return
	}

	if err := h.roleService.DeleteRole(uint(id), actorID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Role deleted successfully"})
}

// GetPermissions returns the seeded permission catalog
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	perms, err := h.roleService.GetPermissions()
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get permissions")
		return
	}

	c.JSON(200, gin.H{"permissions": perms})
}
