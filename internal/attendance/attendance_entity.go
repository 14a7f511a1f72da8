package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent            = "PRESENT"
	StatusLate               = "LATE"
	StatusAttendanceComplete = "ATTENDANCE_COMPLETE"
)

type Source string

const (
	SourceFingerprint Source = "FINGERPRINT"
	SourceQR          Source = "QR"
	SourceManual      Source = "MANUAL"
)

// Attendance is the single row per employee and local calendar day.
// uq_attendance_employee_date makes concurrent time-ins from different
// processes collide in the database instead of producing two rows.
type Attendance struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     string     `gorm:"column:employee_id;type:varchar(64);not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	AttendanceDate time.Time  `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date,priority:2"`
	TimeIn         time.Time  `gorm:"column:time_in;type:timestamptz;not null"`
	TimeOut        *time.Time `gorm:"column:time_out;type:timestamptz"`
	Session        string     `gorm:"column:session;type:varchar(100);not null"`
	TimeOutSession *string    `gorm:"column:time_out_session;type:varchar(100)"`
	BreakMinutes   *int       `gorm:"column:break_minutes"`
	Status         string     `gorm:"column:status;type:varchar(30);not null;default:PRESENT"`
	IsLate         bool       `gorm:"column:is_late;not null;default:false"`
	Source         string     `gorm:"column:source;type:varchar(30);not null"`
	TimeOutSource  *string    `gorm:"column:time_out_source;type:varchar(30)"`
	DeviceID       *string    `gorm:"column:device_id;type:varchar(100)"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

func (a *Attendance) Completed() bool {
	return a.TimeOut != nil
}
