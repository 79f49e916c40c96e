package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes registers media routes under the protected group.
// The upload middleware must already be installed on the group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	media := r.Group("/media")
	{
		media.POST("", h.Upload)
		media.GET("", h.ListMy)
		media.GET("/:id", h.GetByID)
		media.DELETE("/:id", h.Delete)
	}
}
