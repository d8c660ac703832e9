package user

import (
	"go-leavemgmt/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("/managers", middleware.RBACAuthorize(rbacService, "user", "read"), handler.ListManagers)
		users.GET("/team", middleware.RBACAuthorize(rbacService, "team", "read"), handler.ListTeam)
		users.GET("/:id", handler.GetByID)
		users.PUT("/:id/manager", middleware.RBACAuthorize(rbacService, "user", "assign_manager"), handler.AssignManager)
	}
}
