package middleware

import (
	"strings"

	autherrors "go-leavemgmt/internal/auth/errors"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/shared/response"
	"go-leavemgmt/internal/token"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID          = "user_id"
	CtxUserIDValidated = "user_id_validated"
	CtxRole            = "role"
)

// AuthMiddleware accepts a session token from the Authorization header or the access_token cookie.
func AuthMiddleware(verifier token.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.AbortWithError(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := verifier.VerifySession(tokenString)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserIDValidated, claims.UserID)
		c.Set(CtxRole, claims.Role)

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextutil.WithRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, autherrors.ErrForbidden)
	}
}

// ActorID returns the authenticated user id set by AuthMiddleware.
func ActorID(c *gin.Context) string {
	if id := c.GetString(CtxUserIDValidated); id != "" {
		return id
	}
	return c.GetString(CtxUserID)
}

func ActorRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}
