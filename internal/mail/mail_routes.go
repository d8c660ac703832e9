package mail

import (
	"go-leavemgmt/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the Gmail connection routes. The OAuth callback is public and protected by state.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	gmail := r.Group("/gmail")
	{
		gmail.GET("/oauth2/callback", middleware.RateLimitByIP(0.5, 5), handler.Callback)
		gmail.GET("/auth-url", auth, middleware.RBACAuthorize(rbacService, "gmail", "connect"), handler.AuthURL)
		gmail.POST("/send", auth, middleware.RBACAuthorize(rbacService, "gmail", "send"), handler.Send)
	}
}
