package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/galleria-go/internal/domain/gallery"
	"github.com/galleria-go/internal/facade/service"
	"github.com/galleria-go/pkg/contracts/files"
	"github.com/galleria-go/pkg/logger"
)

type FileHandlers struct {
	service *service.FacadeService
	logger  logger.Logger
}

func NewFileHandlers(svc *service.FacadeService, log logger.Logger) *FileHandlers {
	return &FileHandlers{
		service: svc,
		logger:  log,
	}
}

func (h *FileHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *FileHandlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// ListFiles handles GET /api/files. Provider failures map to a 500
// with an empty file list so the client contract never sees null.
func (h *FileHandlers) ListFiles(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list files", "error", err)
		c.JSON(http.StatusInternalServerError, files.ListResponse{
			Success: false,
			Error:   "Failed to fetch files",
			Details: err.Error(),
			Files:   []gallery.FileRecord{},
			Total:   0,
		})
		return
	}

	c.JSON(http.StatusOK, files.ListResponse{
		Success: true,
		Files:   records,
		Total:   len(records),
	})
}

// DeleteFile handles DELETE /api/files?key=<key>.
func (h *FileHandlers) DeleteFile(c *gin.Context) {
	key := c.Query("key")

	err := h.service.Delete(c.Request.Context(), key)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, files.DeleteResponse{
			Success:    true,
			Message:    "File deleted",
			DeletedKey: key,
		})
	case errors.Is(err, gallery.ErrMissingKey):
		c.JSON(http.StatusBadRequest, files.DeleteResponse{
			Success: false,
			Error:   "File key is required",
		})
	case errors.Is(err, gallery.ErrProviderRejected):
		// Provider said no; that is a client-visible failure, not a fault.
		c.JSON(http.StatusBadRequest, files.DeleteResponse{
			Success: false,
			Error:   "Failed to delete file",
		})
	default:
		h.logger.Error("Failed to delete file", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, files.DeleteResponse{
			Success: false,
			Error:   "Failed to delete file",
			Details: err.Error(),
		})
	}
}

// UpdateFile handles PATCH /api/files?key=<key>. It is a stub that
// echoes the patch back without persisting anything.
func (h *FileHandlers) UpdateFile(c *gin.Context) {
	key := c.Query("key")

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, files.UpdateResponse{
			Success: false,
			Error:   "Invalid JSON body",
		})
		return
	}

	echoed, err := h.service.Update(c.Request.Context(), key, patch)
	if err != nil {
		if errors.Is(err, gallery.ErrMissingKey) {
			c.JSON(http.StatusBadRequest, files.UpdateResponse{
				Success: false,
				Error:   "File key is required",
			})
			return
		}
		h.logger.Error("Failed to update file", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, files.UpdateResponse{
			Success: false,
			Error:   "Failed to update file",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, files.UpdateResponse{
		Success:    true,
		Message:    "Update acknowledged",
		UpdatedKey: key,
		Patch:      echoed,
	})
}
