package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatusFilter narrows list queries by completion state
type TaskStatusFilter string

const (
	TaskStatusAll        TaskStatusFilter = "all"
	TaskStatusComplete   TaskStatusFilter = "complete"
	TaskStatusIncomplete TaskStatusFilter = "incomplete"
)

// Task represents a todo item owned by a single user
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskCreate represents task creation data
type TaskCreate struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskUpdate represents a partial task update; nil fields are left untouched
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil && u.DueDate == nil
}

// TaskRepository defines the interface for task storage.
// Get and Delete scope by owner so a miss and a foreign-owned task are
// indistinguishable to callers.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, id, userID uuid.UUID) (*Task, error)
	List(ctx context.Context, userID uuid.UUID, filter TaskStatusFilter, limit, offset int) ([]Task, int, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
