package app

import (
	"context"
	"os/signal"
	"syscall"

	"go-attendance/internal/kiosk"
	"go-attendance/internal/shared/connection"

	"go.uber.org/zap"
)

func RunKiosk(cfg KioskConfig) error {
	logger := zap.L().Named("app.kiosk")

	pool, err := connection.ConnectPGXPoolWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	defer pool.Close()

	runner := kiosk.NewRunner(
		kiosk.NewClient(cfg.APIURL, cfg.APIKey, 0),
		kiosk.NewCaptureRepository(pool),
		kiosk.RunnerConfig{
			DeviceID:     cfg.DeviceID,
			RefreshEvery: cfg.RefreshEvery,
			PollEvery:    cfg.PollEvery,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner.Run(ctx)
	logger.Info("kiosk shutting down")
	return nil
}
