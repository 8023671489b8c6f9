// Package tool implements the registry of operations the chat agent may
// invoke on the model's behalf: named, schema-validated handlers dispatched
// with a per-request execution context.
package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Context carries per-request metadata into every tool handler. UserID is the
// authenticated caller; handlers must never trust a user id embedded in
// model-supplied arguments.
type Context struct {
	UserID    uuid.UUID
	RequestID string
	Timestamp time.Time
}

// Handler executes one tool invocation. Arguments have already been validated
// against the tool's input schema. The returned map is the structured result
// handed back to the model; a non-nil error is downgraded by the registry to
// a {success:false, error} result rather than propagated.
type Handler func(ctx context.Context, args map[string]any, call Context) (map[string]any, error)

// Spec describes one registered tool
type Spec struct {
	Name        string
	Description string
	InputSchema Schema
	Handler     Handler
}

// DuplicateToolError is returned when registering a name already present
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// NotFoundError is returned when executing a name with no registered tool
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// ValidationError reports arguments that failed schema validation, capturing
// the offending field so the model can self-correct.
type ValidationError struct {
	Tool    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: field %q: %s", e.Tool, e.Field, e.Message)
}

// Failure builds the structured failure result used whenever a tool cannot
// produce a real one.
func Failure(err error) map[string]any {
	return map[string]any{
		"success": false,
		"error":   err.Error(),
	}
}
