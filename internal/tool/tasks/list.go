package tasks

import (
	"context"
	"fmt"

	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/tool"
)

func (t *Tools) listTasksSpec() tool.Spec {
	return tool.Spec{
		Name:        "list_tasks",
		Description: "Retrieve the user's tasks, optionally filtered by completion status, with pagination. Returns tasks ordered by creation date (newest first) together with the total count.",
		InputSchema: tool.Object(map[string]tool.Property{
			"status": {Type: "string", Description: "Filter by completion status", Enum: []string{"all", "complete", "incomplete"}},
			"limit":  {Type: "integer", Description: "Maximum tasks to return, up to 100 (default 50)"},
			"offset": {Type: "integer", Description: "Pagination offset (default 0)"},
		}),
		Handler: t.ListTasks,
	}
}

// ListTasks retrieves the calling user's tasks with filtering and pagination.
// Out-of-range limit and offset values are clamped rather than rejected.
func (t *Tools) ListTasks(ctx context.Context, args map[string]any, call tool.Context) (map[string]any, error) {
	filter := domain.TaskStatusFilter(stringArg(args, "status"))
	if filter == "" {
		filter = domain.TaskStatusAll
	}

	limit := defaultListLimit
	if n, ok := intArg(args, "limit"); ok {
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if limit < 1 {
		limit = 1
	}

	offset := 0
	if n, ok := intArg(args, "offset"); ok && n > 0 {
		offset = n
	}

	items, total, err := t.repo.List(ctx, call.UserID, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	snapshots := make([]map[string]any, 0, len(items))
	for i := range items {
		snapshots = append(snapshots, taskSnapshot(&items[i]))
	}

	return map[string]any{
		"tasks":  snapshots,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	}, nil
}
