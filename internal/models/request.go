package models

// RunReportRequest represents the request to trigger a report run.
// Both dates must be supplied together to override the default rolling
// window; otherwise the configured window ending now is used.
type RunReportRequest struct {
	StartDate *string `json:"startDate,omitempty"` // ISO 8601 datetime (e.g., "2025-12-01T06:00:00Z")
	EndDate   *string `json:"endDate,omitempty"`   // ISO 8601 datetime
}

// TaskResponse represents the response when creating a task
type TaskResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"` // "pending", "processing", "completed", "failed"
}

// StatusResponse represents the response when checking task status
type StatusResponse struct {
	TaskID  string      `json:"taskId"`
	Status  string      `json:"status"`
	Summary interface{} `json:"summary,omitempty"`
	Error   string      `json:"error,omitempty"`
}
