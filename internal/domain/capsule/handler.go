package capsule

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"capsule/internal/domain/upload"
	"capsule/internal/pkg/response"
	"capsule/internal/pkg/utils"
)

// Handler handles HTTP requests for capsules. Multipart create requests are
// parsed upstream by the upload middleware; the handler consumes the typed
// form and never touches the raw body.
type Handler struct {
	service *Service
	media   *upload.Service
}

func NewHandler(service *Service, media *upload.Service) *Handler {
	return &Handler{service: service, media: media}
}

// Create godoc
// @Summary Create a capsule
// @Description Create a capsule. multipart/form-data requests may carry a single file in "cover" and any number of files in "media" next to the text fields; application/json requests create a capsule without attachments.
// @Tags Capsules
// @Accept multipart/form-data,application/json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,409,413,415,500 {object} map[string]interface{}
// @Router /capsules [post]
func (h *Handler) Create(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	var req CreateCapsuleRequest
	var coverID string
	var mediaIDs []string

	if form, ok := upload.FormFromContext(c); ok {
		var err error
		req, err = requestFromForm(form)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}

		if cover := form.StoredAt("cover"); len(cover) == 1 {
			recorded, err := h.media.Record(c.Request.Context(), ownerID, cover)
			if err != nil {
				_ = c.Error(err)
				response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "failed to store cover")
				return
			}
			coverID = recorded[0].ID
		}
		if mediaFiles := form.StoredAt("media"); len(mediaFiles) > 0 {
			recorded, err := h.media.Record(c.Request.Context(), ownerID, mediaFiles)
			if err != nil {
				_ = c.Error(err)
				response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "failed to store media")
				return
			}
			for _, a := range recorded {
				mediaIDs = append(mediaIDs, a.ID)
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), ownerID, req, coverID, mediaIDs)
	if err != nil {
		switch err {
		case ErrSlugTaken:
			response.Error(c, http.StatusConflict, "SLUG_TAKEN", err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusBadRequest, "CREATE_FAILED", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, capsuleView(created))
}

// Get godoc
// @Summary Get a capsule by ID
// @Tags Capsules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Capsule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /capsules/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	viewerID := mustUserID(c)
	if viewerID == 0 {
		return
	}

	capsule, err := h.service.Get(c.Request.Context(), c.Param("id"), viewerID)
	switch err {
	case nil:
		response.Success(c, http.StatusOK, capsuleView(capsule))
	case ErrCapsuleNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "capsule not found")
	case ErrCapsuleSealed:
		response.Error(c, http.StatusForbidden, "SEALED", "capsule is sealed until its unlock time")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "failed to load capsule")
	}
}

// ListMy godoc
// @Summary List my capsules
// @Tags Capsules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /capsules [get]
func (h *Handler) ListMy(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	capsules, err := h.service.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "failed to list capsules")
		return
	}

	views := make([]gin.H, 0, len(capsules))
	for _, capsule := range capsules {
		views = append(views, capsuleView(capsule))
	}
	response.Success(c, http.StatusOK, views)
}

// Update godoc
// @Summary Update capsule metadata
// @Tags Capsules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Capsule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404 {object} map[string]interface{}
// @Router /capsules/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	var req UpdateCapsuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), ownerID, req)
	switch err {
	case nil:
		response.Success(c, http.StatusOK, capsuleView(updated))
	case ErrCapsuleNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "capsule not found")
	case ErrNotOwner:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "you do not own this capsule")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "UPDATE_FAILED", err.Error())
	}
}

// Delete godoc
// @Summary Delete a capsule
// @Tags Capsules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Capsule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404,500 {object} map[string]interface{}
// @Router /capsules/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ownerID := mustUserID(c)
	if ownerID == 0 {
		return
	}

	switch err := h.service.Delete(c.Request.Context(), c.Param("id"), ownerID); err {
	case nil:
		response.Success(c, http.StatusOK, gin.H{"deleted": true})
	case ErrCapsuleNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "capsule not found")
	case ErrNotOwner:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "you do not own this capsule")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "delete failed")
	}
}

func requestFromForm(form *upload.Form) (CreateCapsuleRequest, error) {
	var req CreateCapsuleRequest
	req.Title, _ = form.Text("title")
	req.Slug, _ = form.Text("slug")
	req.Description, _ = form.Text("description")
	if v, ok := form.Text("visibility"); ok {
		req.Visibility = Visibility(v)
	}
	if raw, ok := form.Text("unlock_at"); ok && raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return req, err
		}
		req.UnlockAt = &t
	}
	return req, nil
}

func capsuleView(c *Capsule) gin.H {
	return gin.H{
		"id":          c.ID,
		"slug":        c.Slug,
		"title":       c.Title,
		"description": c.Description,
		"visibility":  c.Visibility,
		"unlock_at":   c.UnlockAt,
		"cover_id":    c.CoverID,
		"media_ids":   utils.StringToMediaIDs(c.MediaIDs),
		"created_at":  c.CreatedAt,
		"updated_at":  c.UpdatedAt,
	}
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
