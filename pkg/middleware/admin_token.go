package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const AdminTokenHeader = "x-admin-token"

// AdminTokenMiddleware compares the x-admin-token header (or the admin_token form
// field) against a bcrypt hash. An empty hash disables the check.
func AdminTokenMiddleware(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			c.Next()
			return
		}

		token := c.GetHeader(AdminTokenHeader)
		if token == "" {
			token = c.PostForm("admin_token")
		}

		if token == "" || !CheckAdminToken(tokenHash, token) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: invalid admin token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func CheckAdminToken(tokenHash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)) == nil
}
