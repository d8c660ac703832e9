package leave

import (
	"go-leavemgmt/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the leave routes. The GET approve/reject links are public and authorized by their token.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
	idempotency gin.HandlerFunc,
) {
	leaves := r.Group("/leaves")
	{
		links := middleware.RateLimitByIP(1, 10)
		leaves.GET("/:id/approve", links, handler.ApproveLink)
		leaves.GET("/:id/reject", links, handler.RejectLink)

		secured := leaves.Group("")
		secured.Use(auth)
		secured.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), idempotency, handler.Create)
		secured.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.List)
		secured.GET("/mine", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Mine)
		secured.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		secured.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		secured.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "reject"), handler.Reject)
		secured.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
	}
}
