package attendance

import (
	"context"
	"database/sql"
	"encoding/json"

	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/shared/contextutil"

	"github.com/google/uuid"
)

type EventPublisher interface {
	// WithTx binds the publisher to the transaction that writes the
	// attendance row.
	WithTx(tx *sql.Tx) EventPublisher
	PublishAttendanceRecorded(ctx context.Context, event events.AttendanceRecordedEvent) error
}

type noopPublisher struct{}

func (p noopPublisher) WithTx(*sql.Tx) EventPublisher { return p }

func (noopPublisher) PublishAttendanceRecorded(context.Context, events.AttendanceRecordedEvent) error {
	return nil
}

type outboxPublisher struct {
	outbox kafka.OutboxRepository
}

// NewOutboxPublisher writes events to the outbox table; cmd/worker relays them to Kafka.
func NewOutboxPublisher(outbox kafka.OutboxRepository) EventPublisher {
	return &outboxPublisher{outbox: outbox}
}

func (p *outboxPublisher) WithTx(tx *sql.Tx) EventPublisher {
	return &outboxPublisher{outbox: p.outbox.WithTx(tx)}
}

func (p *outboxPublisher) PublishAttendanceRecorded(ctx context.Context, event events.AttendanceRecordedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = events.AttendanceRecordedEventType

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	requestID := contextutil.GetRequestID(ctx)
	outboxEvent := kafka.OutboxEvent{
		ID:            event.EventID,
		RequestID:     requestID,
		AggregateType: "attendance",
		AggregateID:   event.AttendanceID,
		EventType:     events.AttendanceRecordedEventType,
		Topic:         events.AttendanceRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	return p.outbox.Create(ctx, outboxEvent)
}
