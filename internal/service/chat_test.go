package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/agent"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	conversationID := uuid.New()

	t.Run("persists both messages and touches conversation", func(t *testing.T) {
		mockOrch := new(MockOrchestrator)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)

		records := []domain.ToolCallRecord{
			{ToolName: "add_task", Arguments: map[string]any{"title": "Buy milk"}, Result: map[string]any{"success": true}, Success: true},
		}
		mockOrch.On("Handle", ctx, userID, (*uuid.UUID)(nil), "add buy milk").Return(&agent.Result{
			Reply:          "Added \"Buy milk\" to your list.",
			ConversationID: conversationID,
			Created:        true,
			ToolCalls:      records,
		}, nil)

		var saved []*domain.Message
		mockMsgRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*domain.Message))
		}).Return(nil).Twice()
		mockConvRepo.On("Touch", ctx, conversationID, mock.AnythingOfType("time.Time")).Return(nil)

		svc := NewChatService(mockOrch, mockConvRepo, mockMsgRepo)
		resp, err := svc.Send(ctx, userID, nil, "add buy milk")

		assert.NoError(t, err)
		assert.Equal(t, conversationID, resp.ConversationID)
		assert.Equal(t, "Added \"Buy milk\" to your list.", resp.Reply)
		assert.Equal(t, records, resp.ToolCalls)

		if assert.Len(t, saved, 2) {
			assert.Equal(t, domain.RoleUser, saved[0].Role)
			assert.Equal(t, "add buy milk", saved[0].Content)
			assert.Empty(t, saved[0].ToolCalls)
			assert.Equal(t, domain.RoleAssistant, saved[1].Role)
			assert.Equal(t, records, saved[1].ToolCalls)
			assert.True(t, saved[0].CreatedAt.Before(saved[1].CreatedAt))
		}

		mockOrch.AssertExpectations(t)
		mockMsgRepo.AssertExpectations(t)
		mockConvRepo.AssertExpectations(t)
	})

	t.Run("orchestrator error is returned and nothing persisted", func(t *testing.T) {
		mockOrch := new(MockOrchestrator)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)

		mockOrch.On("Handle", ctx, userID, &conversationID, "hello").Return(nil, agent.ErrUnauthorized)

		svc := NewChatService(mockOrch, mockConvRepo, mockMsgRepo)
		resp, err := svc.Send(ctx, userID, &conversationID, "hello")

		assert.ErrorIs(t, err, agent.ErrUnauthorized)
		assert.Nil(t, resp)
		mockMsgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("persistence failure does not fail the turn", func(t *testing.T) {
		mockOrch := new(MockOrchestrator)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)

		mockOrch.On("Handle", ctx, userID, &conversationID, "hi").Return(&agent.Result{
			Reply:          "Hello!",
			ConversationID: conversationID,
		}, nil)
		mockMsgRepo.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Return(assert.AnError).Twice()
		mockConvRepo.On("Touch", ctx, conversationID, mock.AnythingOfType("time.Time")).Return(nil)

		svc := NewChatService(mockOrch, mockConvRepo, mockMsgRepo)
		resp, err := svc.Send(ctx, userID, &conversationID, "hi")

		assert.NoError(t, err)
		assert.Equal(t, "Hello!", resp.Reply)
	})
}

func TestChatService_GetConversation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	conversationID := uuid.New()

	t.Run("owned conversation", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockConvRepo.On("Get", ctx, conversationID).Return(&domain.Conversation{
			ID:     conversationID,
			UserID: userID,
			Title:  "groceries",
		}, nil)

		svc := NewChatService(nil, mockConvRepo, nil)
		conv, err := svc.GetConversation(ctx, userID, conversationID)
		assert.NoError(t, err)
		assert.Equal(t, "groceries", conv.Title)
	})

	t.Run("foreign conversation reads as not found", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockConvRepo.On("Get", ctx, conversationID).Return(&domain.Conversation{
			ID:     conversationID,
			UserID: uuid.New(),
		}, nil)

		svc := NewChatService(nil, mockConvRepo, nil)
		conv, err := svc.GetConversation(ctx, userID, conversationID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, conv)
	})

	t.Run("missing conversation", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockConvRepo.On("Get", ctx, conversationID).Return(nil, domain.ErrNotFound)

		svc := NewChatService(nil, mockConvRepo, nil)
		_, err := svc.GetConversation(ctx, userID, conversationID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestChatService_GetMessages(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	conversationID := uuid.New()

	t.Run("returns messages of owned conversation", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)

		mockConvRepo.On("Get", ctx, conversationID).Return(&domain.Conversation{
			ID:     conversationID,
			UserID: userID,
		}, nil)
		expected := []domain.Message{
			{Role: domain.RoleUser, Content: "add milk", CreatedAt: time.Now()},
			{Role: domain.RoleAssistant, Content: "Done.", CreatedAt: time.Now()},
		}
		mockMsgRepo.On("ListRecent", ctx, conversationID, conversationHistoryLimit).Return(expected, nil)

		svc := NewChatService(nil, mockConvRepo, mockMsgRepo)
		got, err := svc.GetMessages(ctx, userID, conversationID)
		assert.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("foreign conversation is blocked before any message read", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)

		mockConvRepo.On("Get", ctx, conversationID).Return(&domain.Conversation{
			ID:     conversationID,
			UserID: uuid.New(),
		}, nil)

		svc := NewChatService(nil, mockConvRepo, mockMsgRepo)
		_, err := svc.GetMessages(ctx, userID, conversationID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		mockMsgRepo.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChatService_DeleteConversation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	conversationID := uuid.New()

	t.Run("deletes owned conversation", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockConvRepo.On("Get", ctx, conversationID).Return(&domain.Conversation{
			ID:     conversationID,
			UserID: userID,
		}, nil)
		mockConvRepo.On("Delete", ctx, conversationID).Return(nil)

		svc := NewChatService(nil, mockConvRepo, nil)
		assert.NoError(t, svc.DeleteConversation(ctx, userID, conversationID))
		mockConvRepo.AssertExpectations(t)
	})

	t.Run("foreign conversation is not deleted", func(t *testing.T) {
		mockConvRepo := new(MockConversationRepository)
		mockConvRepo.On("Get", ctx, conversationID).Return(&domain.Conversation{
			ID:     conversationID,
			UserID: uuid.New(),
		}, nil)

		svc := NewChatService(nil, mockConvRepo, nil)
		err := svc.DeleteConversation(ctx, userID, conversationID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		mockConvRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestChatService_ListConversations(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockConvRepo := new(MockConversationRepository)
	expected := []domain.Conversation{{ID: uuid.New(), UserID: userID}}
	mockConvRepo.On("ListByUser", ctx, userID, 50, 0).Return(expected, 1, nil)

	svc := NewChatService(nil, mockConvRepo, nil)
	got, total, err := svc.ListConversations(ctx, userID, 0, -5)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, expected, got)
}
