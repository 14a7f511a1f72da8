package attendance

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, kioskKey string, rdb *redis.Client) {
	attendances := r.Group("/attendances")

	kiosk := attendances.Group("")
	kiosk.Use(middleware.KioskAuth(kioskKey), middleware.Idempotency(rdb))
	{
		kiosk.POST("/fingerprint", h.Fingerprint)
		kiosk.POST("/manual", h.Manual)
	}

	admin := attendances.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(middleware.AdminRoles...))
	{
		admin.GET("", h.GetAll)
		admin.GET("/summary", h.Summary)
	}
}
