package app

import (
	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine, cfg Config) error {
	logger := zap.L().Named("app.api")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := Migrate(gormDB); err != nil {
			return err
		}
		logger.Info("database schema migrated")
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}

	if cfg.KioskAPIKey == "" {
		logger.Warn("KIOSK_API_KEY is empty, kiosk endpoints will reject every request")
	}

	router.Use(middleware.ContextLogger(zap.L()))
	registerModules(router, cfg, sqlDB, gormDB, redisClient, zap.L())

	return nil
}
