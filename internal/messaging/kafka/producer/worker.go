package producer

import (
	"context"
	"time"

	"go-attendance/internal/messaging/kafka"

	"go.uber.org/zap"
)

const relayBatchSize = 50

// ProcessOutboxEvents relays pending outbox rows to Kafka until ctx ends.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := processPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	events, err := repo.ClaimPending(ctx, relayBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("relaying outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		relayLog := logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.Int("attempt", event.RetryCount+1),
		)

		if err := publishEvent(ctx, writer, event); err != nil {
			if event.RetryCount+1 >= kafka.OutboxMaxAttempts {
				relayLog.Error("outbox event dead-lettered", zap.Error(err))
			} else {
				relayLog.Warn("publish outbox event failed", zap.Error(err))
			}
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				relayLog.Error("mark outbox failed failed", zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// The lease expires and the row is relayed again; consumers dedup by event id.
			relayLog.Error("mark outbox sent failed", zap.Error(err))
			continue
		}
		relayLog.Debug("outbox event sent")
	}

	return nil
}
