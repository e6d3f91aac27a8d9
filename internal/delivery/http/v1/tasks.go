package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/services"
	"github.com/taskdeck/taskdeck/internal/validation"
)

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// mutationResponse wraps a mutated task together with a message the
// client can surface as a notification.
type mutationResponse struct {
	Message string        `json:"message"`
	Task    *taskResponse `json:"task,omitempty"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	filters := models.TaskFilters{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if filters.Status != "" && filters.Status != "all" && !models.IsValidStatus(filters.Status) {
		h.logger.Error().
			Str("status", filters.Status).
			Msg("invalid status filter")
		abort(c, newBadRequestError("invalid status filter"))
		return
	}
	if filters.Priority != "" && filters.Priority != "all" && !models.IsValidPriority(filters.Priority) {
		h.logger.Error().
			Str("priority", filters.Priority).
			Msg("invalid priority filter")
		abort(c, newBadRequestError("invalid priority filter"))
		return
	}

	tasks, err := h.tasks.ListTasks(c, userID, filters)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

type taskStatsResponse struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"`
}

func (h *handlerImpl) HandleGetTaskStats(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	stats, err := h.tasks.GetTaskStats(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task stats")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, taskStatsResponse{
		Total:          stats.Total,
		Pending:        stats.Pending,
		InProgress:     stats.InProgress,
		Completed:      stats.Completed,
		CompletionRate: stats.CompletionRate,
	})
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	// Missing status/priority take the documented defaults before
	// validation.
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	write, fieldErrs := validation.ValidateTaskWrite(validation.TaskWrite{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if fieldErrs != nil {
		h.logger.Error().
			Err(fieldErrs).
			Msg("invalid task write")
		abortWithFieldErrors(c, fieldErrs)
		return
	}

	task, err := h.tasks.CreateTask(c, userID, services.CreateTaskParams{
		Title:       write.Title,
		Description: write.Description,
		Status:      write.Status,
		Priority:    write.Priority,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		if errors.Is(err, services.ErrNotAuthenticated) {
			abort(c, newUnauthorizedError(services.ErrNotAuthenticated.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	resp := newTaskResponse(task)
	c.JSON(http.StatusCreated, mutationResponse{
		Message: "Task created successfully",
		Task:    &resp,
	})
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params, fieldErrs := validateUpdateTaskRequest(req)
	if fieldErrs != nil {
		h.logger.Error().
			Err(fieldErrs).
			Msg("invalid task update")
		abortWithFieldErrors(c, fieldErrs)
		return
	}

	task, err := h.tasks.UpdateTask(c, userID, taskID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	resp := newTaskResponse(task)
	c.JSON(http.StatusOK, mutationResponse{
		Message: "Task updated successfully",
		Task:    &resp,
	})
}

// validateUpdateTaskRequest checks only the supplied fields; absent
// fields stay nil and leave the stored value unchanged.
func validateUpdateTaskRequest(req updateTaskRequest) (services.UpdateTaskParams, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	params := services.UpdateTaskParams{}

	if req.Title != nil {
		title, msg := validation.ValidateTaskTitle(*req.Title)
		if msg != "" {
			errs["title"] = msg
		} else {
			params.Title = &title
		}
	}
	if req.Description != nil {
		desc, msg := validation.ValidateTaskDescription(*req.Description)
		if msg != "" {
			errs["description"] = msg
		} else {
			params.Description = &desc
		}
	}
	if req.Status != nil {
		if msg := validation.ValidateTaskStatus(*req.Status); msg != "" {
			errs["status"] = msg
		} else {
			params.Status = req.Status
		}
	}
	if req.Priority != nil {
		if msg := validation.ValidateTaskPriority(*req.Priority); msg != "" {
			errs["priority"] = msg
		} else {
			params.Priority = req.Priority
		}
	}

	if len(errs) > 0 {
		return services.UpdateTaskParams{}, errs
	}
	return params, nil
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	status := c.Query("status")
	if status == "" {
		h.logger.Error().Msg("no status provided")
		abort(c, newBadRequestError("no status provided"))
		return
	}

	task, err := h.tasks.SetTaskStatus(c, userID, taskID, status)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to set task status")
		switch {
		case errors.Is(err, services.ErrInvalidTaskStatus):
			abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	resp := newTaskResponse(task)
	c.JSON(http.StatusOK, mutationResponse{
		Message: "Task updated successfully",
		Task:    &resp,
	})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, mutationResponse{
		Message: "Task deleted successfully",
	})
}
