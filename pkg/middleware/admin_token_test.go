package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func adminRouter(t *testing.T, hash string) *gin.Engine {
	t.Helper()
	router := setupTestRouter()
	router.Use(AdminTokenMiddleware(hash))
	router.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func hashToken(t *testing.T, token string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAdminTokenMiddleware_Disabled(t *testing.T) {
	router := adminRouter(t, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminTokenMiddleware_ValidToken(t *testing.T) {
	router := adminRouter(t, hashToken(t, "s3cret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	req.Header.Set(AdminTokenHeader, "s3cret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminTokenMiddleware_NoToken(t *testing.T) {
	router := adminRouter(t, hashToken(t, "s3cret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminTokenMiddleware_WrongToken(t *testing.T) {
	router := adminRouter(t, hashToken(t, "s3cret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", nil)
	req.Header.Set(AdminTokenHeader, "guess")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
