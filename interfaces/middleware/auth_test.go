package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"review-enhancer/infrastructure/utils"
	"review-enhancer/interfaces/middleware"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/:mallId", middleware.AdminAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextMallID))
	})
	return r
}

func token(t *testing.T, mallID string, exp time.Time, key string) string {
	t.Helper()
	tok, err := utils.GenerateToken(map[string]interface{}{
		"mall_id": mallID,
		"exp":     exp.Unix(),
	}, key)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	r := newRouter()
	valid := token(t, "demo", time.Now().Add(time.Hour), secret)

	tests := []struct {
		name          string
		path          string
		authorization string
		wantStatus    int
	}{
		{"missing header", "/admin/demo", "", http.StatusUnauthorized},
		{"not bearer", "/admin/demo", "Basic abc", http.StatusUnauthorized},
		{"malformed", "/admin/demo", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong key", "/admin/demo", "Bearer " + token(t, "demo", time.Now().Add(time.Hour), "other"), http.StatusUnauthorized},
		{"expired", "/admin/demo", "Bearer " + token(t, "demo", time.Now().Add(-time.Hour), secret), http.StatusUnauthorized},
		{"other mall", "/admin/another", "Bearer " + valid, http.StatusForbidden},
		{"valid", "/admin/demo", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	w := do(r, "/admin/demo", "Bearer "+valid)
	assert.Equal(t, "demo", w.Body.String())
}
