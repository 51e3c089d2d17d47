package middleware

import (
	"net/http"
	"strings"

	"github.com/ettle-app/ettle-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards the admin surface with a bearer token issued by
// the auth service.
func AdminAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !authService.Verify(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
