package tool

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Registry is the process-wide catalog of callable tools. Tools are
// registered once at start-up; after that the registry is read-only and safe
// for unlimited concurrent readers.
type Registry struct {
	mu          sync.RWMutex
	tools       map[string]Spec
	order       []string
	toolTimeout time.Duration
}

// NewRegistry creates an empty registry. toolTimeout bounds each handler
// invocation; zero disables the bound.
func NewRegistry(toolTimeout time.Duration) *Registry {
	return &Registry{
		tools:       make(map[string]Spec),
		toolTimeout: toolTimeout,
	}
}

// Register adds a tool to the catalog. The name must be non-empty and unique;
// a duplicate leaves the registry unchanged and returns DuplicateToolError.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if spec.Handler == nil {
		return fmt.Errorf("tool %q has no handler", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[spec.Name]; exists {
		return &DuplicateToolError{Name: spec.Name}
	}

	r.tools[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	log.Info().Str("tool", spec.Name).Msg("registered tool")
	return nil
}

// Specs yields the registered tools in registration order. The sequence is
// restartable and is how the catalog is presented to the model on every call.
func (r *Registry) Specs() iter.Seq[Spec] {
	return func(yield func(Spec) bool) {
		r.mu.RLock()
		names := append([]string(nil), r.order...)
		r.mu.RUnlock()

		for _, name := range names {
			r.mu.RLock()
			spec, ok := r.tools[name]
			r.mu.RUnlock()
			if ok && !yield(spec) {
				return
			}
		}
	}
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute looks up a tool by name, validates args against its input schema
// and runs the handler. Lookup misses and validation failures are returned as
// typed errors; anything the handler itself does wrong (error return, panic,
// timeout) is downgraded to a {success:false, error} result so one bad tool
// call never aborts a conversation turn.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, call Context) (map[string]any, error) {
	r.mu.RLock()
	spec, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		log.Warn().Str("tool", name).Str("user_id", call.UserID.String()).Msg("tool not found")
		return nil, &NotFoundError{Name: name}
	}

	if err := spec.InputSchema.Validate(name, args); err != nil {
		log.Warn().Err(err).Str("tool", name).Str("user_id", call.UserID.String()).Msg("tool arguments failed validation")
		return nil, err
	}

	if r.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.toolTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := r.run(ctx, spec, args, call)
	duration := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("tool", name).
			Str("user_id", call.UserID.String()).
			Dur("duration", duration).
			Msg("tool execution failed")
		return Failure(err), nil
	}

	if result == nil {
		result = map[string]any{}
	}
	// The handler owns "success" if it set one; default to true otherwise.
	if _, ok := result["success"]; !ok {
		result["success"] = true
	}

	log.Info().
		Str("tool", name).
		Str("user_id", call.UserID.String()).
		Str("request_id", call.RequestID).
		Dur("duration", duration).
		Msg("tool executed")

	return result, nil
}

// run invokes the handler, converting panics into errors.
func (r *Registry) run(ctx context.Context, spec Spec, args map[string]any, call Context) (result map[string]any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tool %q panicked: %v", spec.Name, p)
		}
	}()
	return spec.Handler(ctx, args, call)
}
