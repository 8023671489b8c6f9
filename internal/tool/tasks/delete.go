package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/tool"
)

func (t *Tools) deleteTaskSpec() tool.Spec {
	return tool.Spec{
		Name:        "delete_task",
		Description: "Permanently delete a task. Requires the task ID. This cannot be undone.",
		InputSchema: tool.Object(map[string]tool.Property{
			"task_id": {Type: "string", Description: "ID of the task to delete"},
		}, "task_id"),
		Handler: t.DeleteTask,
	}
}

// DeleteTask removes a task owned by the calling user
func (t *Tools) DeleteTask(ctx context.Context, args map[string]any, call tool.Context) (map[string]any, error) {
	id, err := taskIDArg(args)
	if err != nil {
		return nil, err
	}

	if err := t.repo.Delete(ctx, id, call.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tool.Failure(errors.New(errNotFoundOrDenied)), nil
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return map[string]any{
		"deleted": true,
		"task_id": id.String(),
	}, nil
}
