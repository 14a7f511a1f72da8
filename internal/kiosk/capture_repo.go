package kiosk

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Capture is a matched fingerprint written by the device bridge.
type Capture struct {
	ID         int64
	DeviceID   string
	EmployeeID string
	CapturedAt time.Time
}

type CaptureRepository interface {
	ListPending(ctx context.Context, deviceID string, limit int) ([]Capture, error)
	MarkProcessed(ctx context.Context, id int64, outcome, message string) error
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type captureRepository struct {
	db querier
}

// NewCaptureRepository accepts a *pgxpool.Pool.
func NewCaptureRepository(db querier) CaptureRepository {
	return &captureRepository{db: db}
}

func (r *captureRepository) ListPending(ctx context.Context, deviceID string, limit int) ([]Capture, error) {
	query := `
SELECT id, device_id, employee_id, captured_at
FROM fingerprint_captures
WHERE device_id = $1 AND processed_at IS NULL
ORDER BY captured_at ASC
LIMIT $2
`
	rows, err := r.db.Query(ctx, query, deviceID, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Capture, error) {
		var c Capture
		err := row.Scan(&c.ID, &c.DeviceID, &c.EmployeeID, &c.CapturedAt)
		return c, err
	})
}

func (r *captureRepository) MarkProcessed(ctx context.Context, id int64, outcome, message string) error {
	query := `
UPDATE fingerprint_captures
SET processed_at = NOW(), outcome = $2, message = LEFT($3, 500)
WHERE id = $1
`
	_, err := r.db.Exec(ctx, query, id, outcome, message)
	return err
}
