package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/api/middleware"
	"github.com/mwidjaja/taskchat/internal/api/response"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/service"
)

// TaskHandler handles direct task CRUD endpoints
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func taskIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "taskID"))
}

// Create handles task creation
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if fields, ok := validationFields(err); ok {
			response.ValidationError(w, "invalid task data", fields)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrDueDateInPast) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "failed to create task")
		return
	}

	response.Created(w, task)
}

// List handles task listing with status filter and pagination
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	filter := domain.TaskStatusFilter(r.URL.Query().Get("status"))
	switch filter {
	case "", domain.TaskStatusAll, domain.TaskStatusComplete, domain.TaskStatusIncomplete:
	default:
		response.BadRequest(w, "status must be one of all, complete, incomplete")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tasks, total, err := h.taskService.List(r.Context(), userID, filter, limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list tasks")
		return
	}

	response.OK(w, map[string]any{
		"tasks": tasks,
		"total": total,
	})
}

// Get handles fetching a single task
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "task not found")
			return
		}
		response.InternalError(w, "failed to load task")
		return
	}

	response.OK(w, task)
}

// Update handles partial task updates
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	var update domain.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(update); err != nil {
		if fields, ok := validationFields(err); ok {
			response.ValidationError(w, "invalid task update", fields)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpdate):
			response.BadRequest(w, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "task not found")
		default:
			response.InternalError(w, "failed to update task")
		}
		return
	}

	response.OK(w, task)
}

// Toggle handles flipping a task's completed flag
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	task, err := h.taskService.Toggle(r.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "task not found")
			return
		}
		response.InternalError(w, "failed to toggle task")
		return
	}

	response.OK(w, task)
}

// Delete handles task deletion
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	taskID, err := taskIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid task ID")
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "task not found")
			return
		}
		response.InternalError(w, "failed to delete task")
		return
	}

	response.NoContent(w)
}
