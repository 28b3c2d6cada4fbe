package files

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	r := gin.New()
	NewHandler(dir).RegisterRoutes(r.Group("/api"))
	return r, dir
}

func uploadRequest(t *testing.T, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="slides.pdf"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadAndDownload(t *testing.T) {
	r, dir := newTestRouter(t)
	content := []byte("%PDF-1.4 demo slides")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "application/pdf", content))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		FileID string `json:"fileId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasSuffix(body.FileID, ".pdf"))
	assert.Equal(t, "/api/files/"+body.FileID, rec.Header().Get("Location"))

	stored, err := os.ReadFile(filepath.Join(dir, body.FileID))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/"+body.FileID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestUploadRejectsNonPDF(t *testing.T) {
	r, dir := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "text/plain", []byte("not a pdf")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "application/pdf", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_file")
}

func TestUploadRequiresFileField(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/files", strings.NewReader("{}")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_request")
}

func TestDownloadMissingFile(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/nope.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadRejectsDotfiles(t *testing.T) {
	r, dir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("secret"), 0o600))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/.hidden", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidFileID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abc-123_v2.pdf", true},
		{"ABCDEF.PDF", true},
		{"", false},
		{"..", false},
		{".hidden", false},
		{"a/../b.pdf", false},
		{"dir/file.pdf", false},
		{"name with space.pdf", false},
		{"name\x00.pdf", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validFileID(tt.id), "id %q", tt.id)
	}
}
