package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	schema := Object(map[string]Property{
		"title":  {Type: "string"},
		"status": {Type: "string", Enum: []string{"all", "complete", "incomplete"}},
		"limit":  {Type: "integer"},
		"done":   {Type: "boolean"},
	}, "title")

	t.Run("valid arguments", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{
			"title":  "Buy milk",
			"status": "all",
			"limit":  float64(10),
			"done":   true,
		})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"status": "all"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("nil required field", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"title": nil})
		assert.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"title": 42})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("fractional value rejected for integer", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"title": "x", "limit": 1.5})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "limit", verr.Field)
	})

	t.Run("whole float accepted for integer", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"title": "x", "limit": float64(25)})
		assert.NoError(t, err)
	})

	t.Run("enum violation", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"title": "x", "status": "pending"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})

	t.Run("undeclared fields ignored", func(t *testing.T) {
		err := schema.Validate("list_tasks", map[string]any{"title": "x", "user_id": "sneaky"})
		assert.NoError(t, err)
	})
}
