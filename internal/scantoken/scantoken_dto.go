package scantoken

type AdminIssueRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,max=64"`
	TTLSeconds int    `json:"ttl_seconds" binding:"omitempty,gte=1,lte=300"`
}

type ScanRequest struct {
	Token             string `json:"token" binding:"required,max=64"`
	DeviceFingerprint string `json:"device_fingerprint" binding:"omitempty,max=255"`
}

type TokenResponse struct {
	Token      string `json:"token"`
	EmployeeID string `json:"employee_id"`
	ExpiresAt  string `json:"expires_at"`
	TTLSeconds int    `json:"ttl_seconds"`
}
