package assistant

import (
	"go-leavemgmt/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
) {
	assistant := r.Group("/ai")
	assistant.Use(auth)
	{
		assistant.POST("/chat",
			middleware.RBACAuthorize(rbacService, "ai", "chat"),
			middleware.RateLimitByUser(0.5, 5),
			handler.Chat,
		)
		assistant.POST("/analyze-patterns",
			middleware.RBACAuthorize(rbacService, "ai", "patterns"),
			middleware.RateLimitByUser(0.2, 3),
			handler.AnalyzePatterns,
		)
		assistant.GET("/insights", middleware.RBACAuthorize(rbacService, "ai", "insights"), handler.Insights)
	}
}
