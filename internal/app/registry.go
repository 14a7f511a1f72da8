package app

import (
	"database/sql"

	"go-attendance/internal/attendance"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/ratelimit"
	"go-attendance/internal/scantoken"
	"go-attendance/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	// --- Repositories ---
	sessionRepo := session.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	scanTokenRepo := scantoken.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Session catalog ---
	var catalogSource session.ConfigSource = sessionRepo
	if cfg.SessionsFile != "" {
		catalogSource = session.NewFileSource(cfg.SessionsFile)
		logger.Info("session catalog read from file", zap.String("path", cfg.SessionsFile))
	}
	resolver := session.NewResolver(catalogSource, logger)

	// --- Services ---
	sessionService := session.NewService(sessionRepo, resolver, cfg.Location, logger)
	attendanceService := attendance.NewService(attendanceRepo, resolver, attendance.Options{
		Location:  cfg.Location,
		Timeout:   cfg.Timeout,
		Publisher: attendance.NewOutboxPublisher(outboxRepo),
		Summary:   attendance.NewSummaryStore(rdb),
	}, logger)
	scanTokenService := scantoken.NewService(scanTokenRepo, ratelimit.NewRedisLimiter(rdb), attendanceService, cfg.Timeout, logger)

	// --- Handlers ---
	sessionHandler := session.NewHandler(sessionService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	scanTokenHandler := scantoken.NewHandler(scanTokenService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		session.RegisterRoutes(api, sessionHandler, cfg.KioskAPIKey)
		attendance.RegisterRoutes(api, attendanceHandler, cfg.KioskAPIKey, rdb)
		scantoken.RegisterRoutes(api, scanTokenHandler, rdb)
	}
}
