package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "ADMIN"
	RoleHR    = "HR"

	KioskKeyHeader = "X-Kiosk-Key"
)

// AdminRoles may configure sessions, issue long-lived scan tokens and read all attendance.
var AdminRoles = []string{RoleAdmin, RoleHR}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context) bool {
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
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found", nil)
		return false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		message := "Invalid token"
		if err != nil && strings.Contains(err.Error(), "expired") {
			message = "Token expired"
		}
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", message, nil)
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
		return false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
		return false
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Employee ID not found in token", nil)
		return false
	}

	role, _ := claims["role"].(string)

	c.Set("user_id", userID)
	c.Set("user_id_validated", userID)
	c.Set("employee_id", employeeID)
	c.Set("role", strings.ToUpper(role))
	return true
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" || !slices.Contains(allowedRoles, role) {
			forbidden := apperror.ErrForbidden
			response.Error(c, forbidden.HTTPStatus, forbidden.Code, forbidden.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// KioskAuth admits attendance devices presenting the shared kiosk key.
func KioskAuth(kioskKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validKioskKey(c, kioskKey) {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid kiosk key", nil)
			c.Abort()
			return
		}
		c.Set("kiosk", true)
		c.Next()
	}
}

// KioskOrAuth admits either a kiosk device or a signed-in user.
func KioskOrAuth(kioskKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validKioskKey(c, kioskKey) {
			c.Set("kiosk", true)
			c.Next()
			return
		}
		if !authenticate(c) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func validKioskKey(c *gin.Context, kioskKey string) bool {
	presented := c.GetHeader(KioskKeyHeader)
	if kioskKey == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(kioskKey)) == 1
}
