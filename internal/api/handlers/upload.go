package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"insightboard/internal/models"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHandler struct {
	audit *services.AuditService
	dir   string
}

func NewUploadHandler(audit *services.AuditService) *UploadHandler {
	return &UploadHandler{
		audit: audit,
		dir:   filepath.Join("data", "uploads"),
	}
}

// Upload stores one uploaded file under an opaque name. Image processing is
// an external collaborator; this endpoint only accepts and persists.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondValidation(c, "file field is required")
		return
	}
	if file.Size > maxUploadBytes {
		respondValidation(c, "file exceeds the 10MB limit")
		return
	}

	if err := os.MkdirAll(h.dir, 0755); err != nil {
		respondError(c, 500, "INTERNAL", "Failed to store file")
		return
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dest := filepath.Join(h.dir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		respondError(c, 500, "INTERNAL", "Failed to store file")
		return
	}

	h.audit.Log(models.AuditLog{
		UserID:     actorID(c),
		Action:     "upload",
		Resource:   "file",
		ResourceID: name,
		Details:    fmt.Sprintf("original=%s size=%d", file.Filename, file.Size),
	})

	c.JSON(201, gin.H{"file": name, "size": file.Size})
}
