package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCall() Context {
	return Context{
		UserID:    uuid.New(),
		RequestID: uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}
}

func echoSpec(name string) Spec {
	return Spec{
		Name:        name,
		Description: "echoes its arguments",
		InputSchema: Object(map[string]Property{
			"value": {Type: "string"},
		}),
		Handler: func(ctx context.Context, args map[string]any, call Context) (map[string]any, error) {
			return map[string]any{"value": args["value"]}, nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("duplicate name rejected", func(t *testing.T) {
		reg := NewRegistry(0)
		require.NoError(t, reg.Register(echoSpec("echo")))

		err := reg.Register(echoSpec("echo"))
		var dup *DuplicateToolError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "echo", dup.Name)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		reg := NewRegistry(0)
		assert.Error(t, reg.Register(echoSpec("")))
	})

	t.Run("nil handler rejected", func(t *testing.T) {
		reg := NewRegistry(0)
		assert.Error(t, reg.Register(Spec{Name: "broken"}))
	})
}

func TestRegistry_Specs(t *testing.T) {
	reg := NewRegistry(0)
	names := []string{"delta", "alpha", "charlie", "bravo"}
	for _, name := range names {
		require.NoError(t, reg.Register(echoSpec(name)))
	}

	var got []string
	for spec := range reg.Specs() {
		got = append(got, spec.Name)
	}
	assert.Equal(t, names, got, "specs must come back in registration order")
}

func TestRegistry_Execute(t *testing.T) {
	call := testCall()

	t.Run("unknown tool", func(t *testing.T) {
		reg := NewRegistry(0)
		_, err := reg.Execute(context.Background(), "nope", nil, call)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "nope", notFound.Name)
	})

	t.Run("validation failure returns typed error", func(t *testing.T) {
		reg := NewRegistry(0)
		require.NoError(t, reg.Register(Spec{
			Name: "strict",
			InputSchema: Object(map[string]Property{
				"title": {Type: "string"},
			}, "title"),
			Handler: func(ctx context.Context, args map[string]any, call Context) (map[string]any, error) {
				t.Fatal("handler must not run on invalid arguments")
				return nil, nil
			},
		}))

		_, err := reg.Execute(context.Background(), "strict", map[string]any{}, call)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "strict", verr.Tool)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("success defaulted when handler omits it", func(t *testing.T) {
		reg := NewRegistry(0)
		require.NoError(t, reg.Register(echoSpec("echo")))

		result, err := reg.Execute(context.Background(), "echo", map[string]any{"value": "hi"}, call)
		require.NoError(t, err)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, "hi", result["value"])
	})

	t.Run("handler-set success preserved", func(t *testing.T) {
		reg := NewRegistry(0)
		require.NoError(t, reg.Register(Spec{
			Name: "refuses",
			Handler: func(ctx context.Context, args map[string]any, call Context) (map[string]any, error) {
				return map[string]any{"success": false, "error": "not found or access denied"}, nil
			},
		}))

		result, err := reg.Execute(context.Background(), "refuses", nil, call)
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
	})

	t.Run("handler error downgraded to failure result", func(t *testing.T) {
		reg := NewRegistry(0)
		require.NoError(t, reg.Register(Spec{
			Name: "failing",
			Handler: func(ctx context.Context, args map[string]any, call Context) (map[string]any, error) {
				return nil, errors.New("storage unavailable")
			},
		}))

		result, err := reg.Execute(context.Background(), "failing", nil, call)
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Equal(t, "storage unavailable", result["error"])
	})

	t.Run("handler panic recovered", func(t *testing.T) {
		reg := NewRegistry(0)
		require.NoError(t, reg.Register(Spec{
			Name: "panics",
			Handler: func(ctx context.Context, args map[string]any, call Context) (map[string]any, error) {
				panic("boom")
			},
		}))

		result, err := reg.Execute(context.Background(), "panics", nil, call)
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Contains(t, result["error"], "boom")
	})

	t.Run("timeout surfaces as failure result", func(t *testing.T) {
		reg := NewRegistry(10 * time.Millisecond)
		require.NoError(t, reg.Register(Spec{
			Name: "slow",
			Handler: func(ctx context.Context, args map[string]any, call Context) (map[string]any, error) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Second):
					return map[string]any{}, nil
				}
			},
		}))

		result, err := reg.Execute(context.Background(), "slow", nil, call)
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
	})
}
