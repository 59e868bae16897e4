package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/epeers/secmaster/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	AdminTokenHeader = "X-Admin-Token"
	AdminKey         = "admin"
)

// RequireAdminToken guards write routes. An empty token disables the check,
// which is how local development runs.
func RequireAdminToken(token string) gin.HandlerFunc {
	if token == "" {
		log.Warn("ADMIN_TOKEN is not set; admin routes are unauthenticated")
	}
	return func(c *gin.Context) {
		if token != "" {
			given := c.GetHeader(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "unauthorized",
					Message: "missing or invalid " + AdminTokenHeader,
				})
				c.Abort()
				return
			}
		}
		c.Set(AdminKey, true)
		c.Next()
	}
}

// IsAdmin reports whether the request passed RequireAdminToken
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(AdminKey)
}
