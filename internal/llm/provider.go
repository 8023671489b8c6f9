package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwidjaja/taskchat/internal/tool"
)

// Message roles on the model wire
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in the prompt sent to the model
type Message struct {
	Role    string
	Content string
	// ToolCalls carries the function calls an assistant message requested
	ToolCalls []ToolCallRequest
	// ToolCallID and ToolName identify which request a tool-role message answers
	ToolCallID string
	ToolName   string
}

// ToolCallRequest is one function call the model asked for
type ToolCallRequest struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Tool advertises one callable tool to the model
type Tool struct {
	Name        string
	Description string
	Parameters  tool.Schema
}

// Request contains one chat completion call
type Request struct {
	Messages    []Message
	Tools       []Tool
	Temperature float32
	MaxTokens   int
}

// Response contains the model's reply: free text, requested tool calls, or both
type Response struct {
	Content    string
	ToolCalls  []ToolCallRequest
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat sends messages plus the tool catalog and returns the model's reply
	Chat(ctx context.Context, req Request, model string) (*Response, error)
}

// APIError wraps an upstream model API failure with its HTTP status
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// Transient reports whether the failure class is worth retrying
func (e *APIError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsTransient reports whether err is a retryable upstream failure.
// Validation-class failures (4xx other than 429) are never retried.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return false
}
