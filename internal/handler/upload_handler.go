package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spedflow/internal/config"
	"spedflow/internal/domain"
)

// UploadHandler receives SPED text files and stores them for later runs.
type UploadHandler struct {
	cfg config.UploadConfig
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(cfg config.UploadConfig) *UploadHandler {
	return &UploadHandler{cfg: cfg}
}

// Upload handles POST /api/v1/sped/files. The multipart form carries one
// or more "files" parts; each must be a .txt SPED export. The response
// lists the stored paths, which POST /empresas/:id/runs consumes.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		HandleError(c, domain.ErrNoFilesSupplied)
		return
	}

	maxSize := h.cfg.MaxFileSizeMB * 1024 * 1024
	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		HandleError(c, fmt.Errorf("upload: %w", err))
		return
	}

	stored := make([]string, 0, len(files))
	for _, fh := range files {
		if !strings.EqualFold(filepath.Ext(fh.Filename), ".txt") {
			HandleError(c, domain.ErrUnsupportedUpload)
			return
		}
		if fh.Size > maxSize {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("file %s exceeds %dMB", fh.Filename, h.cfg.MaxFileSizeMB))
			return
		}
		// Prefix with a uuid so concurrent uploads of the same export
		// never clobber each other.
		dst := filepath.Join(h.cfg.Dir, uuid.New().String()+"_"+filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			HandleError(c, fmt.Errorf("upload: %w", err))
			return
		}
		stored = append(stored, dst)
	}

	RespondCreated(c, gin.H{"file_paths": stored})
}
