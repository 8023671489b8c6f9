package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/agent"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/rs/zerolog/log"
)

const conversationHistoryLimit = 50

// Orchestrator runs one chat turn against the model and the tool registry
type Orchestrator interface {
	Handle(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*agent.Result, error)
}

// ChatResponse is the outcome of a chat turn as returned to the API layer
type ChatResponse struct {
	Reply          string                  `json:"response"`
	ConversationID uuid.UUID               `json:"conversation_id"`
	ToolCalls      []domain.ToolCallRecord `json:"tool_calls,omitempty"`
}

// ChatService runs chat turns and persists the resulting messages.
// The orchestrator owns the model protocol; this service owns persistence
// and conversation-level authorization for reads and deletes.
type ChatService struct {
	orchestrator     Orchestrator
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
}

// NewChatService creates a new chat service
func NewChatService(
	orchestrator Orchestrator,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
) *ChatService {
	return &ChatService{
		orchestrator:     orchestrator,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

// Send runs one chat turn for the user and persists both sides of it.
// Persistence failures after a completed turn are logged, not returned;
// the tool side effects and the reply are already committed.
func (s *ChatService) Send(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*ChatResponse, error) {
	result, err := s.orchestrator.Handle(ctx, userID, conversationID, message)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	userMsg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: result.ConversationID,
		Role:           domain.RoleUser,
		Content:        message,
		CreatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		log.Error().Err(err).Str("conversation_id", result.ConversationID.String()).Msg("failed to save user message")
	}

	assistantMsg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: result.ConversationID,
		Role:           domain.RoleAssistant,
		Content:        result.Reply,
		ToolCalls:      result.ToolCalls,
		CreatedAt:      now.Add(time.Millisecond),
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		log.Error().Err(err).Str("conversation_id", result.ConversationID.String()).Msg("failed to save assistant message")
	}

	if err := s.conversationRepo.Touch(ctx, result.ConversationID, time.Now().UTC()); err != nil {
		log.Error().Err(err).Str("conversation_id", result.ConversationID.String()).Msg("failed to touch conversation")
	}

	return &ChatResponse{
		Reply:          result.Reply,
		ConversationID: result.ConversationID,
		ToolCalls:      result.ToolCalls,
	}, nil
}

// ListConversations returns a page of the user's conversations, most
// recently active first
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Conversation, int, error) {
	if limit <= 0 {
		limit = defaultTaskPageSize
	}
	if limit > maxTaskPageSize {
		limit = maxTaskPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.conversationRepo.ListByUser(ctx, userID, limit, offset)
}

// GetConversation retrieves a conversation owned by the user
func (s *ChatService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conversation, err := s.conversationRepo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return conversation, nil
}

// GetMessages retrieves recent messages of a conversation owned by the user,
// oldest first
func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListRecent(ctx, conversationID, conversationHistoryLimit)
}

// DeleteConversation deletes a conversation owned by the user along with
// its messages
func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.conversationRepo.Delete(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
