package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func newAuthRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"employee_id": c.GetString("employee_id"),
			"role":        c.GetString("role"),
			"kiosk":       c.GetBool("kiosk"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := newAuthRouter(middleware.AuthMiddleware())

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     "u-1",
			"employee_id": "E001",
			"role":        "hr",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"employee_id":"E001"`)
		assert.Contains(t, w.Body.String(), `"role":"HR"`)
	})

	t.Run("token from cookie", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1", "employee_id": "E002"})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     "u-1",
			"employee_id": "E001",
			"exp":         time.Now().Add(-time.Minute).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("missing employee claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1"})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := newAuthRouter(middleware.AuthMiddleware(), middleware.RoleMiddleware(middleware.AdminRoles...))

	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", "ADMIN", http.StatusOK},
		{"hr allowed", "hr", http.StatusOK},
		{"employee forbidden", "EMPLOYEE", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := signToken(t, jwt.MapClaims{"user_id": "u-1", "employee_id": "E001", "role": tc.role})
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestKioskAuth(t *testing.T) {
	r := newAuthRouter(middleware.KioskAuth("kiosk-secret"))

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(middleware.KioskKeyHeader, "kiosk-secret")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"kiosk":true`)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(middleware.KioskKeyHeader, "nope")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured key rejects everything", func(t *testing.T) {
		r := newAuthRouter(middleware.KioskAuth(""))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(middleware.KioskKeyHeader, "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestKioskOrAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := newAuthRouter(middleware.KioskOrAuth("kiosk-secret"))

	t.Run("kiosk key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(middleware.KioskKeyHeader, "kiosk-secret")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1", "employee_id": "E001"})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"kiosk":false`)
	})

	t.Run("neither", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
