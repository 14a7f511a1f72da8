package session

type SessionRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Position     int     `json:"position" binding:"gte=0"`
	TimeInStart  string  `json:"time_in_start" binding:"required"`
	TimeInEnd    string  `json:"time_in_end" binding:"required"`
	TimeOutStart *string `json:"time_out_start"`
	TimeOutEnd   *string `json:"time_out_end"`
	LateCutoff   *string `json:"late_cutoff"`
	BreakMinutes *int    `json:"break_minutes" binding:"omitempty,gte=0"`
}

type SessionResponse struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Position     int     `json:"position"`
	TimeIn       string  `json:"time_in"`
	TimeOut      *string `json:"time_out,omitempty"`
	LateCutoff   *string `json:"late_cutoff,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	Valid        bool    `json:"valid"`
	Error        string  `json:"error,omitempty"`
}

type ActiveSessionResponse struct {
	Allowed    bool   `json:"allowed"`
	Session    string `json:"session,omitempty"`
	WindowKind string `json:"window_kind,omitempty"`
	Degraded   bool   `json:"degraded"`
	At         string `json:"at"`
	ClockTime  string `json:"clock_time"`
	Message    string `json:"message"`
}
