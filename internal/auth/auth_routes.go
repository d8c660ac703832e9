package auth

import (
	"go-leavemgmt/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	group := r.Group("/auth")
	{
		group.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		group.GET("/me", auth, middleware.RateLimitByUser(2, 5), handler.Me)
		group.POST("/logout", auth, handler.Logout)
		group.POST("/register", auth, middleware.RBACAuthorize(rbacService, "user", "register"), handler.Register)
	}
}
