package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"capsule/internal/pkg/response"
)

// Handler handles HTTP requests for media attachments. Parsing already
// happened in the upload middleware; handlers only see the typed form.
// Any authenticated user can upload. Ownership is tracked by owner_id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload media files
// @Description Upload one or more image/video/audio files under any field names. Returns attachment IDs and public URLs.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,413,415,500 {object} map[string]interface{}
// @Router /media [post]
func (h *Handler) Upload(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	form, ok := FormFromContext(c)
	if !ok || len(form.Stored) == 0 {
		response.Error(c, http.StatusBadRequest, "NO_FILES", "no files provided")
		return
	}

	attachments, err := h.service.Record(c.Request.Context(), ownerID, form.Stored)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "upload failed")
		return
	}

	response.Success(c, http.StatusCreated, attachmentViews(attachments))
}

// GetByID godoc
// @Summary Get attachment metadata by ID
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attachment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /media/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	a, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	switch err {
	case nil:
		response.Success(c, http.StatusOK, attachmentView(a))
	case ErrAttachmentNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "attachment not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "failed to load attachment")
	}
}

// Delete godoc
// @Summary Delete an attachment (file + record)
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attachment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404,500 {object} map[string]interface{}
// @Router /media/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	switch err := h.service.Delete(c.Request.Context(), c.Param("id"), ownerID); err {
	case nil:
		response.Success(c, http.StatusOK, gin.H{"deleted": true})
	case ErrAttachmentNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "attachment not found")
	case ErrNotOwner:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "you do not own this attachment")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "delete failed")
	}
}

// ListMy godoc
// @Summary List my attachments
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /media [get]
func (h *Handler) ListMy(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	attachments, err := h.service.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list attachments")
		return
	}
	response.Success(c, http.StatusOK, attachmentViews(attachments))
}

func attachmentView(a *Attachment) gin.H {
	return gin.H{
		"id":         a.ID,
		"url":        a.FileURL,
		"name":       a.Filename,
		"mime_type":  a.MimeType,
		"size":       a.Size,
		"created_at": a.CreatedAt,
	}
}

func attachmentViews(attachments []*Attachment) []gin.H {
	views := make([]gin.H, 0, len(attachments))
	for _, a := range attachments {
		views = append(views, attachmentView(a))
	}
	return views
}

func mustUserID(c *gin.Context) int64 {
	id, exists := c.Get("user_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return 0
	}
	switch v := id.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user id")
	return 0
}
