package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaRouter(t *testing.T, userID int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, storage := setupTestService(t)
	parser := NewParser(storage, Limits{})

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	group.Use(Middleware(parser, 0))
	RegisterRoutes(group, NewHandler(svc))
	return router
}

func TestUploadEndpoint_ReturnsGeneratedNames(t *testing.T) {
	router := newMediaRouter(t, 42)

	body, contentType := buildMultipart(t, nil,
		filePart{"photo", "family.jpg", "image/jpeg", []byte("jpegdata")},
		filePart{"soundtrack", "song.mp3", "audio/mpeg", []byte("mp3data")},
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			ID       string `json:"id"`
			URL      string `json:"url"`
			Name     string `json:"name"`
			MimeType string `json:"mime_type"`
			Size     int64  `json:"size"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)

	photo := resp.Data[0]
	assert.NotEqual(t, "family.jpg", photo.Name, "clients must see the generated name")
	assert.Regexp(t, `^image-\d+-\d+\.jpg$`, photo.Name)
	assert.Equal(t, "/uploads/images/"+photo.Name, photo.URL)
	assert.Equal(t, int64(len("jpegdata")), photo.Size)

	song := resp.Data[1]
	assert.Regexp(t, `^audio-\d+-\d+\.mp3$`, song.Name)
	assert.Equal(t, "/uploads/audio/"+song.Name, song.URL)
}

func TestUploadEndpoint_NoFiles(t *testing.T) {
	router := newMediaRouter(t, 42)

	body, contentType := buildMultipart(t, map[string]string{"note": "just text"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_FILES")
}

func TestGetEndpoint_DistinguishesMissingFromFailure(t *testing.T) {
	router := newMediaRouter(t, 42)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/media/no-such-id", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	// a repository failure is not a missing attachment
	gin.SetMode(gin.TestMode)
	svc := NewService(failingRepository{}, NewStorage(t.TempDir()))
	broken := gin.New()
	group := broken.Group("/api/v1")
	group.Use(func(c *gin.Context) { c.Set("user_id", int64(42)) })
	RegisterRoutes(group, NewHandler(svc))

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/media/any-id", nil)
	broken.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "GET_FAILED")
}

type failingRepository struct{}

func (failingRepository) Create(context.Context, *Attachment) error { return errDBDown }
func (failingRepository) GetByID(context.Context, string) (*Attachment, error) {
	return nil, errDBDown
}
func (failingRepository) Delete(context.Context, string) error { return errDBDown }
func (failingRepository) ListByOwnerID(context.Context, int64) ([]*Attachment, error) {
	return nil, errDBDown
}

var errDBDown = errors.New("database unavailable")

func TestUploadEndpoint_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, storage := setupTestService(t)
	parser := NewParser(storage, Limits{})

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(Middleware(parser, 0)) // no user_id on the context
	RegisterRoutes(group, NewHandler(svc))

	body, contentType := buildMultipart(t, nil,
		filePart{"photo", "a.png", "image/png", []byte("png")},
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
