package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/tool"
)

func (t *Tools) completeTaskSpec() tool.Spec {
	return tool.Spec{
		Name:        "complete_task",
		Description: "Toggle a task's completion status: an incomplete task becomes complete and vice versa. Requires the task ID.",
		InputSchema: tool.Object(map[string]tool.Property{
			"task_id": {Type: "string", Description: "ID of the task to toggle"},
		}, "task_id"),
		Handler: t.CompleteTask,
	}
}

// CompleteTask toggles a task's completed flag. Toggling twice restores the
// original value.
func (t *Tools) CompleteTask(ctx context.Context, args map[string]any, call tool.Context) (map[string]any, error) {
	id, err := taskIDArg(args)
	if err != nil {
		return nil, err
	}

	task, err := t.repo.Get(ctx, id, call.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tool.Failure(errors.New(errNotFoundOrDenied)), nil
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()

	if err := t.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return map[string]any{"task": taskSnapshot(task)}, nil
}
