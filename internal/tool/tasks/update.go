package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/tool"
)

func (t *Tools) updateTaskSpec() tool.Spec {
	return tool.Spec{
		Name:        "update_task",
		Description: "Update a task's title, description or due date. Requires the task ID and at least one field to change. Fields not provided are left unchanged.",
		InputSchema: tool.Object(map[string]tool.Property{
			"task_id":     {Type: "string", Description: "ID of the task to update"},
			"title":       {Type: "string", Description: "New title, 1-200 characters"},
			"description": {Type: "string", Description: "New description, up to 1000 characters"},
			"due_date":    {Type: "string", Description: "New due date in ISO8601 format"},
		}, "task_id"),
		Handler: t.UpdateTask,
	}
}

// UpdateTask applies a partial update to a task. At least one of title,
// description or due_date must be present; the check runs before any storage
// access.
func (t *Tools) UpdateTask(ctx context.Context, args map[string]any, call tool.Context) (map[string]any, error) {
	_, hasTitle := args["title"]
	_, hasDescription := args["description"]
	_, hasDueDate := args["due_date"]
	if !hasTitle && !hasDescription && !hasDueDate {
		return nil, fmt.Errorf("at least one of title, description or due_date must be provided")
	}

	id, err := taskIDArg(args)
	if err != nil {
		return nil, err
	}

	var title string
	if hasTitle {
		title = strings.TrimSpace(stringArg(args, "title"))
		if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
			return nil, fmt.Errorf("title must be between 1 and %d characters", maxTitleLen)
		}
	}

	var description string
	if hasDescription {
		description = stringArg(args, "description")
		if utf8.RuneCountInString(description) > maxDescriptionLen {
			return nil, fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
		}
	}

	var dueDate *time.Time
	if hasDueDate {
		dueDate, err = dueDateArg(args)
		if err != nil {
			return nil, err
		}
	}

	task, err := t.repo.Get(ctx, id, call.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tool.Failure(errors.New(errNotFoundOrDenied)), nil
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	if hasTitle {
		task.Title = title
	}
	if hasDescription {
		task.Description = description
	}
	if hasDueDate {
		task.DueDate = dueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := t.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return map[string]any{"task": taskSnapshot(task)}, nil
}
