package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-attendance/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	applyRetryBackoff    = 500 * time.Millisecond
	maxApplyRetryBackoff = 30 * time.Second
	fetchRetryBackoff    = time.Second
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type SummaryApplier interface {
	Apply(ctx context.Context, event events.AttendanceRecordedEvent) (bool, error)
}

// ConsumeAttendanceRecorded keeps the daily attendance counters in step
// with recorded time-ins and time-outs. Offsets are committed cumulatively,
// so a message that fails to apply is retried in place until it succeeds or
// ctx ends; the reader never moves past it.
func ConsumeAttendanceRecorded(
	ctx context.Context,
	reader MessageReader,
	summary SummaryApplier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_summary")
	log.Info("attendance summary consumer started")
	defer log.Info("attendance summary consumer stopped")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("fetch attendance message failed", zap.Error(err))
			if !wait(ctx, fetchRetryBackoff) {
				return
			}
			continue
		}

		if !applyUntilDone(ctx, summary, msg, log) {
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			// The event id dedup absorbs the redelivery.
			log.Error("commit attendance message failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// applyUntilDone returns false only when ctx ended before msg was applied.
func applyUntilDone(ctx context.Context, summary SummaryApplier, msg kafkago.Message, log *zap.Logger) bool {
	backoff := applyRetryBackoff
	for attempt := 1; ; attempt++ {
		err := applyAttendanceEvent(ctx, summary, msg, log)
		if err == nil {
			return true
		}
		log.Error("apply attendance event failed, retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if !wait(ctx, backoff) {
			return false
		}
		backoff = min(backoff*2, maxApplyRetryBackoff)
	}
}

// applyAttendanceEvent returns an error only when the message should be
// retried. Undecodable messages are logged and skipped.
func applyAttendanceEvent(ctx context.Context, summary SummaryApplier, msg kafkago.Message, log *zap.Logger) error {
	var event events.AttendanceRecordedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode attendance event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	if event.AttendanceDate == "" {
		log.Warn("attendance event without date, skipping", zap.String("event_id", event.EventID))
		return nil
	}

	applied, err := summary.Apply(ctx, event)
	if err != nil {
		return err
	}
	if !applied {
		log.Debug("attendance event already counted", zap.String("event_id", event.EventID))
		return nil
	}

	log.Info("attendance summary updated",
		zap.String("event_id", event.EventID),
		zap.String("date", event.AttendanceDate),
		zap.String("outcome", event.Outcome),
	)
	return nil
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
