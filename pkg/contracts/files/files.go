// Package files defines the JSON contract between the listing/deletion
// facade and its clients.
package files

import (
	"github.com/galleria-go/internal/domain/gallery"
)

// ListResponse is returned by GET /api/files. A provider failure still
// carries empty Files and zero Total so clients never see a null list.
type ListResponse struct {
	Success bool                 `json:"success"`
	Files   []gallery.FileRecord `json:"files"`
	Total   int                  `json:"total"`
	Error   string               `json:"error,omitempty"`
	Details string               `json:"details,omitempty"`
}

// DeleteResponse is returned by DELETE /api/files.
type DeleteResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	DeletedKey string `json:"deletedKey,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    string `json:"details,omitempty"`
}

// UpdateResponse is returned by PATCH /api/files. The endpoint is a
// stub: it echoes the patch without persisting anything.
type UpdateResponse struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	UpdatedKey string                 `json:"updatedKey,omitempty"`
	Patch      map[string]interface{} `json:"patch,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Details    string                 `json:"details,omitempty"`
}
