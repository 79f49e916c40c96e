package capsule

import "github.com/gin-gonic/gin"

// RegisterRoutes registers capsule routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	capsules := r.Group("/capsules")
	{
		capsules.POST("", h.Create)
		capsules.GET("", h.ListMy)
		capsules.GET("/:id", h.Get)
		capsules.PATCH("/:id", h.Update)
		capsules.DELETE("/:id", h.Delete)
	}
}
