package scantoken

import (
	"time"

	"github.com/google/uuid"
)

// ScanToken is a short-lived, single-use credential shown as a QR code.
type ScanToken struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Token             string     `gorm:"column:token;type:varchar(64);not null;uniqueIndex:uq_scan_token"`
	EmployeeID        string     `gorm:"column:employee_id;type:varchar(64);not null;index"`
	ExpiresAt         time.Time  `gorm:"column:expires_at;type:timestamptz;not null"`
	UsedAt            *time.Time `gorm:"column:used_at;type:timestamptz"`
	DeviceFingerprint *string    `gorm:"column:device_fingerprint;type:varchar(255)"`
	IPAddress         *string    `gorm:"column:ip_address;type:varchar(64)"`
	IssuedBy          *string    `gorm:"column:issued_by;type:varchar(64)"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (ScanToken) TableName() string {
	return "scan_tokens"
}

func (t *ScanToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *ScanToken) Used() bool {
	return t.UsedAt != nil
}
