package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "studytracker/internal/errors"
	"studytracker/internal/middleware"
	"studytracker/internal/services"
)

// PersonalTaskHandler coordinates private task HTTP handlers.
type PersonalTaskHandler struct {
	taskService *services.PersonalTaskService
}

// NewPersonalTaskHandler creates a new PersonalTaskHandler.
func NewPersonalTaskHandler(taskService *services.PersonalTaskService) *PersonalTaskHandler {
	return &PersonalTaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all of the caller's personal tasks.
func (h *PersonalTaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.List(userID)
	if err != nil {
		respondPersonalTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask creates a personal task for the caller.
func (h *PersonalTaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreatePersonalTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	var req CreatePersonalTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(services.CreatePersonalTaskInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	})
	if err != nil {
		respondPersonalTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask returns one of the caller's personal tasks.
func (h *PersonalTaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.Get(taskID, userID)
	if err != nil {
		respondPersonalTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask applies partial changes to one of the caller's personal tasks.
func (h *PersonalTaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	type UpdatePersonalTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}

	var req UpdatePersonalTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(taskID, userID, services.UpdatePersonalTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondPersonalTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// SetDone sets the done flag on one of the caller's personal tasks.
func (h *PersonalTaskHandler) SetDone(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	type SetDoneRequest struct {
		IsDone *bool `json:"isDone" binding:"required"`
	}

	var req SetDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "isDone is required")
		return
	}

	task, err := h.taskService.SetDone(taskID, userID, *req.IsDone)
	if err != nil {
		respondPersonalTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes one of the caller's personal tasks.
func (h *PersonalTaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID, userID); err != nil {
		respondPersonalTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func respondPersonalTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPersonalTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
