// Package agent orchestrates one chat turn: it assembles the prompt from the
// conversation history, calls the language model with the tool catalog
// attached, executes any requested tools through the registry in order, and
// obtains the final natural-language reply with a second model call.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/llm"
	"github.com/mwidjaja/taskchat/internal/tool"
	"github.com/rs/zerolog/log"
)

// ErrUnauthorized is returned when the conversation does not exist or belongs
// to another user; the two cases are deliberately indistinguishable.
var ErrUnauthorized = errors.New("conversation not found or access denied")

// ErrModelUnavailable wraps upstream model failures that exhausted retries
var ErrModelUnavailable = errors.New("model service unavailable")

const maxTitleLen = 200

// Config bounds one orchestrator turn
type Config struct {
	// HistoryWindow caps how many recent messages are fed to the model
	HistoryWindow int
	// ModelTimeout bounds each individual model call
	ModelTimeout time.Duration
	// MaxRetries bounds retry attempts on transient model failures.
	// Nil selects the default; an explicit zero disables retries.
	MaxRetries *uint64
	// Temperature for model calls. Nil selects the default; an explicit
	// zero is a valid setting.
	Temperature *float32
	MaxTokens   int
}

func (c Config) withDefaults() Config {
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = 20
	}
	if c.ModelTimeout <= 0 {
		c.ModelTimeout = 30 * time.Second
	}
	if c.MaxRetries == nil {
		retries := uint64(3)
		c.MaxRetries = &retries
	}
	if c.Temperature == nil {
		temperature := float32(0.7)
		c.Temperature = &temperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1000
	}
	return c
}

// Result is the outcome of one chat turn. The caller persists the user and
// assistant messages; the orchestrator itself only creates the conversation.
type Result struct {
	Reply          string
	ConversationID uuid.UUID
	// Created reports whether this turn created the conversation
	Created   bool
	ToolCalls []domain.ToolCallRecord
}

// Orchestrator runs chat turns. It holds no per-turn state; concurrent turns
// share only the read-only registry and router.
type Orchestrator struct {
	llmRouter     *llm.Router
	registry      *tool.Registry
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	cfg           Config
}

// New creates an orchestrator
func New(
	llmRouter *llm.Router,
	registry *tool.Registry,
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		llmRouter:     llmRouter,
		registry:      registry,
		conversations: conversations,
		messages:      messages,
		cfg:           cfg.withDefaults(),
	}
}

// Handle runs one chat turn for the authenticated user. A nil conversationID
// creates a new conversation owned by the user; otherwise ownership is
// verified before any history is read.
func (o *Orchestrator) Handle(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*Result, error) {
	conversation, created, err := o.resolveConversation(ctx, userID, conversationID, message)
	if err != nil {
		return nil, err
	}

	var history []domain.Message
	if !created {
		history, err = o.messages.ListRecent(ctx, conversation.ID, o.cfg.HistoryWindow)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation history: %w", err)
		}
	}

	messages := o.buildPrompt(history, message)
	catalog := o.catalog()

	requestID := uuid.New().String()
	call := tool.Context{
		UserID:    userID,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}

	log.Info().
		Str("request_id", requestID).
		Str("conversation_id", conversation.ID.String()).
		Str("user_id", userID.String()).
		Int("history", len(history)).
		Int("tools", len(catalog)).
		Msg("starting chat turn")

	first, err := o.callModel(ctx, llm.Request{
		Messages:    messages,
		Tools:       catalog,
		Temperature: *o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	// No tool requests: the first response is the final reply.
	if len(first.ToolCalls) == 0 {
		reply := first.Content
		if strings.TrimSpace(reply) == "" {
			reply = emptyReply
		}
		return &Result{
			Reply:          reply,
			ConversationID: conversation.ID,
			Created:        created,
		}, nil
	}

	// Execute requested tools sequentially, in request order. Later calls may
	// depend on earlier side effects, and result order must match the order
	// fed back to the model.
	records := make([]domain.ToolCallRecord, 0, len(first.ToolCalls))
	messages = append(messages, llm.Message{
		Role:      llm.RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	for _, tc := range first.ToolCalls {
		result, execErr := o.registry.Execute(ctx, tc.Name, tc.Arguments, call)
		if execErr != nil {
			// Unknown tool or invalid arguments: degrade to a failure result
			// the model can explain, never abort the turn.
			result = tool.Failure(execErr)
		}

		success, _ := result["success"].(bool)
		records = append(records, domain.ToolCallRecord{
			ToolName:  tc.Name,
			Arguments: tc.Arguments,
			Result:    result,
			Success:   success,
		})

		content, err := json.Marshal(result)
		if err != nil {
			content = []byte(`{"success":false,"error":"unserializable tool result"}`)
		}
		messages = append(messages, llm.Message{
			Role:       llm.RoleTool,
			Content:    string(content),
			ToolCallID: tc.ID,
			ToolName:   tc.Name,
		})
	}

	// Second call: a natural-language summary of the tool outcomes. The tool
	// side effects are already committed, so a failure here degrades to a
	// deterministic fallback instead of discarding them.
	reply := fallbackReply
	second, err := o.callModel(ctx, llm.Request{
		Messages:    messages,
		Temperature: *o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens / 2,
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID).
			Str("conversation_id", conversation.ID.String()).
			Msg("follow-up model call failed, using fallback reply")
	} else if strings.TrimSpace(second.Content) != "" {
		reply = second.Content
	}

	log.Info().
		Str("request_id", requestID).
		Str("conversation_id", conversation.ID.String()).
		Int("tool_calls", len(records)).
		Msg("chat turn completed")

	return &Result{
		Reply:          reply,
		ConversationID: conversation.ID,
		Created:        created,
		ToolCalls:      records,
	}, nil
}

// resolveConversation loads and authorizes an existing conversation, or
// creates a new one titled from the first message.
func (o *Orchestrator) resolveConversation(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*domain.Conversation, bool, error) {
	if conversationID != nil {
		conversation, err := o.conversations.Get(ctx, *conversationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, false, ErrUnauthorized
			}
			return nil, false, fmt.Errorf("failed to load conversation: %w", err)
		}
		if conversation.UserID != userID {
			return nil, false, ErrUnauthorized
		}
		return conversation, false, nil
	}

	now := time.Now().UTC()
	conversation := &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     deriveTitle(message),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.conversations.Create(ctx, conversation); err != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, true, nil
}

// buildPrompt composes system instruction + bounded history + new message
func (o *Orchestrator) buildPrompt(history []domain.Message, message string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	for _, m := range history {
		messages = append(messages, llm.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})
	return messages
}

// catalog collects the registry's tool specs in model-facing form
func (o *Orchestrator) catalog() []llm.Tool {
	var tools []llm.Tool
	for spec := range o.registry.Specs() {
		tools = append(tools, llm.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.InputSchema,
		})
	}
	return tools
}

// callModel calls the default provider, retrying transient failures with
// bounded exponential backoff. Validation-class failures are not retried.
func (o *Orchestrator) callModel(ctx context.Context, req llm.Request) (*llm.Response, error) {
	provider, err := o.llmRouter.GetProvider("")
	if err != nil {
		return nil, err
	}

	operation := func() (*llm.Response, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.ModelTimeout)
		defer cancel()

		resp, err := provider.Chat(callCtx, req, "")
		if err != nil {
			if llm.IsTransient(err) {
				log.Warn().Err(err).Str("provider", provider.Name()).Msg("transient model error, retrying")
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return resp, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), *o.cfg.MaxRetries),
		ctx,
	)
	return backoff.RetryWithData(operation, policy)
}

func deriveTitle(message string) string {
	message = strings.TrimSpace(message)
	runes := []rune(message)
	if len(runes) <= maxTitleLen {
		return message
	}
	return string(runes[:maxTitleLen-3]) + "..."
}
