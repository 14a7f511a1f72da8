package app

import (
	"go-attendance/internal/attendance"
	"go-attendance/internal/scantoken"
	"go-attendance/internal/session"

	"gorm.io/gorm"
)

// Tables written with raw SQL are created here; gorm models are migrated
// from their struct tags.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id varchar(64) PRIMARY KEY,
		request_id varchar(64),
		aggregate_type varchar(50) NOT NULL,
		aggregate_id varchar(64) NOT NULL,
		event_type varchar(100) NOT NULL,
		topic varchar(200) NOT NULL,
		payload jsonb NOT NULL,
		status varchar(20) NOT NULL DEFAULT 'pending',
		retry_count int NOT NULL DEFAULT 0,
		error_message text,
		next_retry_at timestamptz,
		processed_at timestamptz,
		created_at timestamptz NOT NULL DEFAULT NOW(),
		updated_at timestamptz NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS fingerprint_captures (
		id bigserial PRIMARY KEY,
		device_id varchar(100) NOT NULL,
		employee_id varchar(64) NOT NULL,
		captured_at timestamptz NOT NULL,
		processed_at timestamptz,
		outcome varchar(50),
		message varchar(500)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fingerprint_captures_pending ON fingerprint_captures (device_id, captured_at) WHERE processed_at IS NULL`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&session.SessionConfig{},
		&attendance.Attendance{},
		&scantoken.ScanToken{},
	); err != nil {
		return err
	}

	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
