package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/domain"
)

const (
	defaultTaskPageSize = 50
	maxTaskPageSize     = 100
)

// ErrEmptyUpdate is returned when a task update carries no fields
var ErrEmptyUpdate = errors.New("at least one field must be provided")

// ErrDueDateInPast is returned when a new task's due date is not in the future
var ErrDueDateInPast = errors.New("due_date must be in the future")

// TaskService handles task CRUD outside of the chat flow. The same ownership
// rules apply as in the chat tools: every read and write is scoped to the
// authenticated user.
type TaskService struct {
	taskRepo domain.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo domain.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// Create creates a task owned by the user
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input domain.TaskCreate) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}

	if input.DueDate != nil && !input.DueDate.After(time.Now()) {
		return nil, ErrDueDateInPast
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get retrieves a task owned by the user
func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.taskRepo.Get(ctx, taskID, userID)
}

// List returns a page of the user's tasks, newest first
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filter domain.TaskStatusFilter, limit, offset int) ([]domain.Task, int, error) {
	if filter == "" {
		filter = domain.TaskStatusAll
	}
	if limit <= 0 {
		limit = defaultTaskPageSize
	}
	if limit > maxTaskPageSize {
		limit = maxTaskPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.taskRepo.List(ctx, userID, filter, limit, offset)
}

// Update applies a partial update to a task owned by the user
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error) {
	if update.Empty() {
		return nil, ErrEmptyUpdate
	}

	task, err := s.taskRepo.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, errors.New("title must not be empty")
		}
		task.Title = title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Toggle flips a task's completed flag
func (s *TaskService) Toggle(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// Delete removes a task owned by the user
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.taskRepo.Delete(ctx, taskID, userID)
}
