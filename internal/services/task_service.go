package services

import (
	"fmt"
	"sync"
	"time"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/utils"
)

// TaskService manages async report run tasks
type TaskService struct {
	tasks map[string]*models.Task
	mutex sync.RWMutex
}

// NewTaskService creates a new task service
func NewTaskService() *TaskService {
	return &TaskService{
		tasks: make(map[string]*models.Task),
	}
}

// CreateTask creates a new task and returns it
func (s *TaskService) CreateTask(request models.RunReportRequest) (*models.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	taskID := utils.GenerateUUID()
	now := time.Now()

	task := &models.Task{
		ID:        taskID,
		Status:    models.TaskStatusPending,
		Request:   request,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.tasks[taskID] = task
	return task, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}

	return task, nil
}

// UpdateTaskStatus updates the status of a task
func (s *TaskService) UpdateTaskStatus(taskID string, status models.TaskStatus) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = status
	task.UpdatedAt = time.Now()
	return nil
}

// CompleteTask marks a task as completed with its run summary
func (s *TaskService) CompleteTask(taskID string, summary *models.RunSummary) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = models.TaskStatusCompleted
	task.Summary = summary
	task.UpdatedAt = time.Now()
	return nil
}

// FailTask marks a task as failed with an error message
func (s *TaskService) FailTask(taskID string, errMsg string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = models.TaskStatusFailed
	task.Error = errMsg
	task.UpdatedAt = time.Now()
	return nil
}
