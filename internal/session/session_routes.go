package session

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, kioskKey string) {
	sessions := r.Group("/sessions")
	sessions.GET("/active", middleware.KioskOrAuth(kioskKey), h.Active)

	admin := sessions.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(middleware.AdminRoles...))
	{
		admin.GET("", h.GetAll)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
