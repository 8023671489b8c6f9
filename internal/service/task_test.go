package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		var created *domain.Task
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Task")).Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Task)
		}).Return(nil)

		svc := NewTaskService(mockRepo)
		task, err := svc.Create(ctx, userID, domain.TaskCreate{Title: "  Buy milk  "})

		assert.NoError(t, err)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, userID, task.UserID)
		assert.False(t, task.Completed)
		assert.Equal(t, created, task)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		svc := NewTaskService(mockRepo)

		_, err := svc.Create(ctx, userID, domain.TaskCreate{Title: "   "})
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("past due date rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		svc := NewTaskService(mockRepo)

		past := time.Now().Add(-time.Hour)
		_, err := svc.Create(ctx, userID, domain.TaskCreate{Title: "Call dentist", DueDate: &past})
		assert.ErrorIs(t, err, ErrDueDateInPast)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("defaults applied", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", ctx, userID, domain.TaskStatusAll, 50, 0).Return([]domain.Task{}, 0, nil)

		svc := NewTaskService(mockRepo)
		_, _, err := svc.List(ctx, userID, "", 0, -1)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("limit clamped to maximum", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", ctx, userID, domain.TaskStatusIncomplete, 100, 0).Return([]domain.Task{}, 0, nil)

		svc := NewTaskService(mockRepo)
		_, _, err := svc.List(ctx, userID, domain.TaskStatusIncomplete, 200, 0)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("empty update rejected before storage access", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		svc := NewTaskService(mockRepo)

		_, err := svc.Update(ctx, userID, taskID, domain.TaskUpdate{})
		assert.ErrorIs(t, err, ErrEmptyUpdate)
		mockRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		existing := &domain.Task{
			ID:          taskID,
			UserID:      userID,
			Title:       "Buy milk",
			Description: "2 liters",
			Completed:   true,
		}
		mockRepo.On("Get", ctx, taskID, userID).Return(existing, nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)

		newTitle := "Buy oat milk"
		svc := NewTaskService(mockRepo)
		task, err := svc.Update(ctx, userID, taskID, domain.TaskUpdate{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, "Buy oat milk", task.Title)
		assert.Equal(t, "2 liters", task.Description)
		assert.True(t, task.Completed)
	})

	t.Run("missing task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", ctx, taskID, userID).Return(nil, domain.ErrNotFound)

		newTitle := "anything"
		svc := NewTaskService(mockRepo)
		_, err := svc.Update(ctx, userID, taskID, domain.TaskUpdate{Title: &newTitle})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskService_Toggle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("flips completed flag", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		existing := &domain.Task{ID: taskID, UserID: userID, Title: "Buy milk", Completed: false}
		mockRepo.On("Get", ctx, taskID, userID).Return(existing, nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)

		svc := NewTaskService(mockRepo)
		task, err := svc.Toggle(ctx, userID, taskID)

		assert.NoError(t, err)
		assert.True(t, task.Completed)
	})

	t.Run("missing task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Get", ctx, taskID, userID).Return(nil, domain.ErrNotFound)

		svc := NewTaskService(mockRepo)
		_, err := svc.Toggle(ctx, userID, taskID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	taskID := uuid.New()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("Delete", ctx, taskID, userID).Return(domain.ErrNotFound)

	svc := NewTaskService(mockRepo)
	err := svc.Delete(ctx, userID, taskID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
