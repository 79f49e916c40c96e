package middleware

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capsule/internal/domain/upload"
)

func newUploadRouter(t *testing.T, limits upload.Limits) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := upload.NewStorage(t.TempDir())
	require.NoError(t, storage.EnsureDirs())
	parser := upload.NewParser(storage, limits)

	router := gin.New()
	router.Use(ErrorHandler(), upload.Middleware(parser, 0))
	router.POST("/media", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postMultipart(t *testing.T, router *gin.Engine, field, filename, mimeType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", mimeType)
	pw, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = pw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/media", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	router.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler_RendersUnsupportedMimeType(t *testing.T) {
	router := newUploadRouter(t, upload.Limits{})

	w := postMultipart(t, router, "doc", "report.pdf", "application/pdf", []byte("%PDF-"))

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_MIME_TYPE")
	assert.Contains(t, w.Body.String(), "application/pdf")
}

func TestErrorHandler_RendersFileTooLarge(t *testing.T) {
	router := newUploadRouter(t, upload.Limits{MaxFileSize: 8})

	w := postMultipart(t, router, "photo", "big.png", "image/png", bytes.Repeat([]byte("a"), 9))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")
}

func TestErrorHandler_AcceptedUploadPassesThrough(t *testing.T) {
	router := newUploadRouter(t, upload.Limits{})

	w := postMultipart(t, router, "photo", "ok.png", "image/png", []byte("png"))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorHandler_RecoversFromPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}
