package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ToolCallRecord is the audit record of one model-requested tool invocation.
// It is produced during a single chat turn and persisted embedded in the
// assistant message; never mutated afterwards.
type ToolCallRecord struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    map[string]any `json:"result"`
	Success   bool           `json:"success"`
}

// Message represents one entry in a conversation. Messages are append-only;
// only assistant messages carry tool call records.
type Message struct {
	ID             uuid.UUID        `json:"id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Role           MessageRole      `json:"role"`
	Content        string           `json:"content"`
	ToolCalls      []ToolCallRecord `json:"tool_calls,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListRecent returns up to limit most recent messages of a conversation
	// in chronological order (oldest first).
	ListRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error)
}
