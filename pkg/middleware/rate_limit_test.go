package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{"nil client", 1},
		{"zero limit", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.Use(RateLimitMiddleware(nil, tt.limit, 0))
			router.POST("/test", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				req, _ := http.NewRequest(http.MethodPost, "/test", nil)
				router.ServeHTTP(w, req)
				assert.Equal(t, http.StatusNoContent, w.Code)
				assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
			}
		})
	}
}

func TestRateLimitKey(t *testing.T) {
	assert.Equal(t, "blog:rate:/api/posts:10.0.0.1", rateLimitKey("/api/posts", "10.0.0.1"))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, int64(29), remaining(30, 1))
	assert.Equal(t, int64(0), remaining(30, 30))
	assert.Equal(t, int64(0), remaining(30, 31))
}
