package inbound

import (
	"go-leavemgmt/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	gmail := r.Group("/gmail")
	gmail.Use(auth)
	{
		gmail.POST("/poll",
			middleware.RBACAuthorize(rbacService, "gmail", "poll"),
			middleware.RateLimitByUser(0.2, 2),
			handler.Poll,
		)
	}
}
