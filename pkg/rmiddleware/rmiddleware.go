package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/crickscore/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin  = "admin"
	RoleScorer = "scorer"
)

// RoleMiddleware admits callers whose token role is one of requiredRoles.
// It must run after middleware.AuthMiddleware.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := middleware.GetUserIDFromContext(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		userRole, err := middleware.GetUserRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User role not found"})
			return
		}

		for _, requiredRole := range requiredRoles {
			if strings.EqualFold(userRole, requiredRole) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Forbidden",
			"message":   "You don't have permission to access this resource",
			"required":  requiredRoles,
			"user_role": userRole,
		})
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(RoleAdmin)
}

// ScorerMiddleware admits official scorers and admins
func ScorerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(RoleScorer, RoleAdmin)
}
