package handlers

import (
	"strconv"

	"insightboard/internal/api/middleware"
	"insightboard/internal/authz"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(audit *services.AuditService) *ContentHandler {
	return &ContentHandler{
		contentService: services.NewContentService(audit),
	}
}

type CreateContentRequest struct {
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	CategoryID *uint  `json:"category_id"`
}

type UpdateContentRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Published *bool   `json:"published"`
}

// GetContents lists content items
func (h *ContentHandler) GetContents(c *gin.Context) {
	contents, err := h.contentService.GetContents()
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get content")
		return
	}

	c.JSON(200, gin.H{"contents": contents})
}

// GetContent returns one content item
func (h *ContentHandler) GetContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid content id")
		return
	}

	content, err := h.contentService.GetContent(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, content)
}

// CreateContent creates a content item owned by the caller
func (h *ContentHandler) CreateContent(c *gin.Context) {
	var req CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	checker := middleware.Checker(c)
	content, err := h.contentService.CreateContent(req.Title, req.Body, req.CategoryID, checker.UserID())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(201, content)
}

// UpdateContent updates a content item. Admin role, ownership, or the
// content.update permission each suffice; which applies is resolved here
// after the owner is known.
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid content id")
		return
	}

	content, err := h.contentService.GetContent(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	checker := middleware.Checker(c)
	decision := authz.AdminOrOwnerOrPermission(content.OwnerID, authz.PermContentUpdate)(checker)
	if !decision.Allowed {
		respondError(c, 403, decision.Code, decision.Message)
		return
	}

	var req UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	updated, err := h.contentService.UpdateContent(uint(id), req.Title, req.Body, req.Published, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, updated)
}

// DeleteContent deletes a content item under the same composition rule but
// with the content.delete permission.
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid content id")
		return
	}

	content, err := h.contentService.GetContent(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	checker := middleware.Checker(c)
	decision := authz.AdminOrOwnerOrPermission(content.OwnerID, authz.PermContentDelete)(checker)
	if !decision.Allowed {
		respondError(c, 403, decision.Code, decision.Message)
		return
	}

	if err := h.contentService.DeleteContent(uint(id), actorID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Content deleted successfully"})
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// GetCategories lists categories
func (h *ContentHandler) GetCategories(c *gin.Context) {
	categories, err := h.contentService.GetCategories()
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get categories")
		return
	}

	c.JSON(200, gin.H{"categories": categories})
}

// CreateCategory creates a category
func (h *ContentHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	category, err := h.contentService.CreateCategory(req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(201, category)
}

// DeleteCategory deletes a category
func (h *ContentHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid category id")
		return
	}

	if err := h.contentService.DeleteCategory(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Category deleted successfully"})
}
