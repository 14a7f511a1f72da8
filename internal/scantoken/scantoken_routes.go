package scantoken

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	tokens := r.Group("/scan-tokens")
	tokens.Use(middleware.AuthMiddleware())
	{
		tokens.POST("", h.Issue)
		tokens.POST("/admin", middleware.RoleMiddleware(middleware.AdminRoles...), h.IssueAdmin)
		tokens.GET("/:token", middleware.RoleMiddleware(middleware.AdminRoles...), h.Validate)
	}

	// 5 scans per second per IP with bursts of 10.
	r.POST("/attendances/scan",
		middleware.RateLimitByIP(rate.Limit(5), 10),
		middleware.Idempotency(rdb),
		h.Scan,
	)
}
