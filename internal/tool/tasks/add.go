package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/tool"
)

func (t *Tools) addTaskSpec() tool.Spec {
	return tool.Spec{
		Name:        "add_task",
		Description: "Create a new task for the user. Accepts a title (required), optional description and optional due date in ISO8601 format. Returns the created task with its ID and timestamps.",
		InputSchema: tool.Object(map[string]tool.Property{
			"title":       {Type: "string", Description: "Task title, 1-200 characters"},
			"description": {Type: "string", Description: "Optional task description, up to 1000 characters"},
			"due_date":    {Type: "string", Description: "Optional due date in ISO8601 format; must be in the future"},
		}, "title"),
		Handler: t.AddTask,
	}
}

// AddTask creates a task owned by the calling user
func (t *Tools) AddTask(ctx context.Context, args map[string]any, call tool.Context) (map[string]any, error) {
	title := strings.TrimSpace(stringArg(args, "title"))
	if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
		return nil, fmt.Errorf("title must be between 1 and %d characters", maxTitleLen)
	}

	description := stringArg(args, "description")
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
	}

	dueDate, err := dueDateArg(args)
	if err != nil {
		return nil, err
	}
	if dueDate != nil && !dueDate.After(time.Now().UTC()) {
		return nil, fmt.Errorf("due_date must be in the future")
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.New(),
		UserID:      call.UserID,
		Title:       title,
		Description: description,
		Completed:   false,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return map[string]any{"task": taskSnapshot(task)}, nil
}
