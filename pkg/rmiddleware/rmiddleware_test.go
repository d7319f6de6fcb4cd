package rmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/middleware"
	"github.com/DhavalSuthar-24/crickscore/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/score", middleware.AuthMiddleware("s"), ScorerMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		role string
		want int
	}{
		{"scorer", http.StatusNoContent},
		{"ADMIN", http.StatusNoContent},
		{"viewer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			jwt, err := token.Issue("s", 1, tt.role, 5*time.Minute)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/score", nil)
			req.Header.Set("Authorization", "Bearer "+jwt)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
