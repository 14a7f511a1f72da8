package attendance

import "time"

type FingerprintRequest struct {
	EmployeeID string     `json:"employee_id" binding:"required,max=64"`
	DeviceID   string     `json:"device_id" binding:"required,max=100"`
	CapturedAt *time.Time `json:"captured_at"`
}

type ManualRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,max=64"`
	DeviceID   string `json:"device_id" binding:"omitempty,max=100"`
}

type ListFilter struct {
	Date       string `form:"date"`
	EmployeeID string `form:"employee_id"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	TimeIn         string  `json:"time_in"`
	TimeOut        *string `json:"time_out,omitempty"`
	Session        string  `json:"session"`
	TimeOutSession *string `json:"time_out_session,omitempty"`
	BreakMinutes   *int    `json:"break_minutes,omitempty"`
	Status         string  `json:"status"`
	Late           bool    `json:"late"`
	Source         string  `json:"source"`
	DeviceID       *string `json:"device_id,omitempty"`
}

type SummaryResponse struct {
	Date    string `json:"date"`
	TimeIn  int64  `json:"time_in"`
	TimeOut int64  `json:"time_out"`
	Late    int64  `json:"late"`
}
