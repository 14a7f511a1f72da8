package session

import (
	"time"

	"github.com/google/uuid"
)

// SessionConfig is the administrator-maintained row a Session is built from.
// Clock times are kept as text so that a malformed row can still be loaded
// and reported without breaking the rest of the catalog.
type SessionConfig struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uq_attendance_session_name"`
	Position     int       `gorm:"column:position;not null;default:0"`
	TimeInStart  string    `gorm:"column:time_in_start;type:varchar(8);not null"`
	TimeInEnd    string    `gorm:"column:time_in_end;type:varchar(8);not null"`
	TimeOutStart *string   `gorm:"column:time_out_start;type:varchar(8)"`
	TimeOutEnd   *string   `gorm:"column:time_out_end;type:varchar(8)"`
	LateCutoff   *string   `gorm:"column:late_cutoff;type:varchar(8)"`
	BreakMinutes *int      `gorm:"column:break_minutes"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SessionConfig) TableName() string {
	return "attendance_sessions"
}
