// Package files serves uploaded documents: a content-type-validated PDF
// upload and a download endpoint resolving the response content type from
// the stored file's extension.
package files

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/cityinfo/internal/idgen"
	"github.com/mbd888/cityinfo/internal/logging"
	"github.com/mbd888/cityinfo/internal/validation"
)

// MaxFileSize caps a single upload. The request-size middleware enforces
// the same bound on the whole request body, so an oversized file is cut off
// before it ever reaches the handler.
const MaxFileSize = validation.MaxRequestSize

// Handler serves file upload and download over a flat directory. Stored
// names are always server-generated; a client-supplied filename never
// touches the filesystem.
type Handler struct {
	dir string
}

// NewHandler creates a files handler rooted at dir.
func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

// RegisterRoutes sets up the file routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/files/:fileId", h.Download)
	r.POST("/files", h.Upload)
}

// Download handles GET /files/:fileId.
func (h *Handler) Download(c *gin.Context) {
	fileID := c.Param("fileId")
	if !validFileID(fileID) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "file not found"})
		return
	}

	path := filepath.Join(h.dir, fileID)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "file not found"})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileID))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileID))
	c.File(path)
}

// Upload handles POST /files. Only PDF content is accepted.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "a file form field is required"})
		return
	}
	if fh.Size == 0 || fh.Size > MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_file", "message": "file is empty or too large"})
		return
	}
	if fh.Header.Get("Content-Type") != "application/pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_file", "message": "only PDF uploads are accepted"})
		return
	}

	fileID := idgen.New() + ".pdf"
	if err := c.SaveUploadedFile(fh, filepath.Join(h.dir, fileID)); err != nil {
		logging.L(c.Request.Context()).Error("failed to store uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An unexpected error occurred"})
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, fileID))
	c.JSON(http.StatusCreated, gin.H{"fileId": fileID})
}

// validFileID accepts only the flat names this package generates, so a
// crafted ID can never resolve outside the storage directory.
func validFileID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") || strings.Contains(id, "..") {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
