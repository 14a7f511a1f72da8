package main

import (
	"go-attendance/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := app.LoadKioskConfig()
	if err != nil {
		logger.Fatal("load kiosk config failed", zap.Error(err))
	}

	if err := app.RunKiosk(cfg); err != nil {
		logger.Fatal("run kiosk failed", zap.Error(err))
	}
}
