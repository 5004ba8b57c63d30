package models

import "time"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents an async report run triggered over the API
type Task struct {
	ID        string           `json:"id"`
	Status    TaskStatus       `json:"status"`
	Request   RunReportRequest `json:"request"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Error     string           `json:"error,omitempty"`
	Summary   *RunSummary      `json:"summary,omitempty"`
}
