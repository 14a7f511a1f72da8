package events

import "time"

const (
	AttendanceRecordedTopic     = "hr.attendance.recorded.v1"
	AttendanceRecordedEventType = "attendance.recorded"
)

type AttendanceRecordedEvent struct {
	EventType      string    `json:"event_type"`
	EventID        string    `json:"event_id"`
	AttendanceID   string    `json:"attendance_id"`
	EmployeeID     string    `json:"employee_id"`
	AttendanceDate string    `json:"attendance_date"`
	Outcome        string    `json:"outcome"`
	Session        string    `json:"session"`
	Status         string    `json:"status"`
	Late           bool      `json:"late"`
	Source         string    `json:"source"`
	Degraded       bool      `json:"degraded"`
	OccurredAt     time.Time `json:"occurred_at"`
}
