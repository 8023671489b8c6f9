// Package tasks provides the task-management tools exposed to the chat
// agent: add, list, complete (toggle), delete and update. Every handler
// takes the authenticated user from the call context and scopes all storage
// access to that user.
package tasks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/tool"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	defaultListLimit  = 50
	maxListLimit      = 100
)

// errNotFoundOrDenied is returned for both a missing task and one owned by
// another user, so tool results never leak task existence.
const errNotFoundOrDenied = "not found or access denied"

// Tools bundles the five task tool handlers around a task repository
type Tools struct {
	repo domain.TaskRepository
}

// New creates the task tool set
func New(repo domain.TaskRepository) *Tools {
	return &Tools{repo: repo}
}

// RegisterAll registers the five task tools on the registry
func (t *Tools) RegisterAll(reg *tool.Registry) error {
	specs := []tool.Spec{
		t.addTaskSpec(),
		t.listTasksSpec(),
		t.completeTaskSpec(),
		t.deleteTaskSpec(),
		t.updateTaskSpec(),
	}
	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("failed to register %s: %w", spec.Name, err)
		}
	}
	return nil
}

// taskSnapshot renders a task as the structured map handed back to the model
func taskSnapshot(t *domain.Task) map[string]any {
	snap := map[string]any{
		"id":         t.ID.String(),
		"title":      t.Title,
		"completed":  t.Completed,
		"created_at": t.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.Description != "" {
		snap["description"] = t.Description
	}
	if t.DueDate != nil {
		snap["due_date"] = t.DueDate.UTC().Format(time.RFC3339)
	}
	return snap
}

// stringArg returns a string argument, or "" if absent
func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// intArg returns an integer argument, accepting the float64 that JSON
// decoding produces. ok is false when the argument is absent.
func intArg(args map[string]any, name string) (int, bool) {
	switch n := args[name].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// taskIDArg parses the task_id argument as a UUID
func taskIDArg(args map[string]any) (uuid.UUID, error) {
	id, err := uuid.Parse(stringArg(args, "task_id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("task_id must be a valid task ID")
	}
	return id, nil
}

// dueDateArg parses the due_date argument as RFC3339. Returns nil when the
// argument is absent.
func dueDateArg(args map[string]any) (*time.Time, error) {
	raw := stringArg(args, "due_date")
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("due_date must be an ISO8601 timestamp, e.g. 2026-01-02T15:00:00Z")
	}
	utc := parsed.UTC()
	return &utc, nil
}
