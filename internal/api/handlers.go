package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"pstn-call-report/internal/models"
	"pstn-call-report/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers holds all HTTP handlers and their dependencies
type Handlers struct {
	runService  *services.RunService
	taskService *services.TaskService
}

// NewHandlers creates a new handlers instance
func NewHandlers(runService *services.RunService, taskService *services.TaskService) *Handlers {
	return &Handlers{
		runService:  runService,
		taskService: taskService,
	}
}

// RunReportHandler triggers a report run asynchronously and returns a
// task ID for polling.
func (h *Handlers) RunReportHandler(c *gin.Context) {
	var request models.RunReportRequest
	// The body is optional; an empty body means the default window.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	window, err := parseWindow(request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create task: %v", err)})
		return
	}

	go h.executeRun(task.ID, window)

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	})
}

// RunReportSyncHandler triggers a report run and waits for the result.
func (h *Handlers) RunReportSyncHandler(c *gin.Context) {
	var request models.RunReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	window, err := parseWindow(request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.run(c.Request.Context(), window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTaskStatusHandler returns the status of an async report run.
func (h *Handlers) GetTaskStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	response := models.StatusResponse{
		TaskID: task.ID,
		Status: string(task.Status),
		Error:  task.Error,
	}
	if task.Summary != nil {
		response.Summary = task.Summary
	}

	c.JSON(http.StatusOK, response)
}

// executeRun runs the pipeline for an async task and records the outcome.
func (h *Handlers) executeRun(taskID string, window *models.Period) {
	if err := h.taskService.UpdateTaskStatus(taskID, models.TaskStatusProcessing); err != nil {
		log.Printf("ERROR: Failed to update task %s: %v", taskID, err)
		return
	}

	summary, err := h.run(context.Background(), window)
	if err != nil {
		log.Printf("ERROR: Report run failed for task %s: %v", taskID, err)
		if failErr := h.taskService.FailTask(taskID, err.Error()); failErr != nil {
			log.Printf("ERROR: Failed to mark task %s failed: %v", taskID, failErr)
		}
		return
	}

	if err := h.taskService.CompleteTask(taskID, summary); err != nil {
		log.Printf("ERROR: Failed to complete task %s: %v", taskID, err)
	}
}

// run dispatches to the explicit-window or rolling-window entry point.
func (h *Handlers) run(ctx context.Context, window *models.Period) (*models.RunSummary, error) {
	if window != nil {
		return h.runService.RunWindow(ctx, *window)
	}
	return h.runService.Run(ctx)
}

// parseWindow validates an optional explicit window on the request.
func parseWindow(request models.RunReportRequest) (*models.Period, error) {
	if request.StartDate == nil && request.EndDate == nil {
		return nil, nil
	}
	if request.StartDate == nil || request.EndDate == nil {
		return nil, fmt.Errorf("startDate and endDate must be provided together")
	}

	start, err := time.Parse(time.RFC3339, *request.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %v", err)
	}
	end, err := time.Parse(time.RFC3339, *request.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %v", err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("endDate must be after startDate")
	}

	return &models.Period{Start: start.UTC(), End: end.UTC()}, nil
}
