package kiosk

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const captureBatchSize = 20

type RunnerConfig struct {
	DeviceID     string
	RefreshEvery time.Duration
	PollEvery    time.Duration
}

// Runner drives one kiosk: a periodic session refresh and a capture task
// triggered by new rows from the device bridge. Both end in the same API
// call path; the only shared state is the last known session.
type Runner struct {
	api      API
	captures CaptureRepository
	cfg      RunnerConfig
	logger   *zap.Logger

	status   atomic.Pointer[ActiveSession]
	inFlight atomic.Bool
}

func NewRunner(api API, captures CaptureRepository, cfg RunnerConfig, logger ...*zap.Logger) *Runner {
	l := zap.L().Named("kiosk.runner")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kiosk.runner")
	}
	if cfg.RefreshEvery <= 0 {
		cfg.RefreshEvery = 3 * time.Second
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = time.Second
	}
	return &Runner{api: api, captures: captures, cfg: cfg, logger: l.With(zap.String("device_id", cfg.DeviceID))}
}

// Status returns the last session answer, or nil before the first refresh.
func (r *Runner) Status() *ActiveSession {
	return r.status.Load()
}

func (r *Runner) Run(ctx context.Context) {
	refresh := time.NewTicker(r.cfg.RefreshEvery)
	defer refresh.Stop()
	poll := time.NewTicker(r.cfg.PollEvery)
	defer poll.Stop()

	r.logger.Info("kiosk runner started",
		zap.Duration("refresh_every", r.cfg.RefreshEvery),
		zap.Duration("poll_every", r.cfg.PollEvery),
	)
	r.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("kiosk runner stopped")
			return
		case <-refresh.C:
			r.Refresh(ctx)
		case <-poll.C:
			if !r.inFlight.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer r.inFlight.Store(false)
				r.ProcessPending(ctx)
			}()
		}
	}
}

func (r *Runner) Refresh(ctx context.Context) {
	active, err := r.api.ActiveSession(ctx)
	if err != nil {
		r.logger.Warn("refresh active session failed", zap.Error(err))
		return
	}

	prev := r.status.Swap(&active)
	if prev == nil || prev.Session != active.Session || prev.WindowKind != active.WindowKind || prev.Allowed != active.Allowed {
		r.logger.Info("session status changed",
			zap.Bool("allowed", active.Allowed),
			zap.String("session", active.Session),
			zap.String("window_kind", active.WindowKind),
			zap.Bool("degraded", active.Degraded),
			zap.String("message", active.Message),
		)
	}
}

// ProcessPending submits queued captures oldest first. It stops at the
// first unavailable answer so ordering per employee is kept.
func (r *Runner) ProcessPending(ctx context.Context) int {
	pending, err := r.captures.ListPending(ctx, r.cfg.DeviceID, captureBatchSize)
	if err != nil {
		r.logger.Error("list pending captures failed", zap.Error(err))
		return 0
	}

	done := 0
	for _, c := range pending {
		decision, err := r.api.SubmitFingerprint(ctx, c)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				r.logger.Warn("attendance api unavailable, will retry",
					zap.Int64("capture_id", c.ID),
					zap.Error(err),
				)
			} else {
				r.logger.Error("submit capture failed", zap.Int64("capture_id", c.ID), zap.Error(err))
			}
			return done
		}

		outcome := decision.Outcome
		if decision.Code != "" {
			outcome = decision.Code
		}
		if err := r.captures.MarkProcessed(ctx, c.ID, outcome, decision.Message); err != nil {
			r.logger.Error("mark capture processed failed", zap.Int64("capture_id", c.ID), zap.Error(err))
			return done
		}

		r.logger.Info("capture processed",
			zap.Int64("capture_id", c.ID),
			zap.String("employee_id", c.EmployeeID),
			zap.String("outcome", outcome),
			zap.String("message", decision.Message),
		)
		done++
	}
	return done
}
