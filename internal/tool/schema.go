package tool

import (
	"fmt"
	"math"
)

// Schema is the JSON-schema subset used to describe tool inputs. It is what
// gets advertised to the model as the tool's parameter schema and what the
// registry validates arguments against before dispatch.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single schema field
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Object builds an object schema from properties and required field names
func Object(props map[string]Property, required ...string) Schema {
	return Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// Validate checks args against the schema: required fields present, values of
// the declared type, enum membership. Fields not declared in the schema are
// ignored; the model occasionally invents extras and they are harmless.
func (s Schema) Validate(tool string, args map[string]any) error {
	for _, name := range s.Required {
		if v, ok := args[name]; !ok || v == nil {
			return &ValidationError{Tool: tool, Field: name, Message: "required field is missing"}
		}
	}

	for name, prop := range s.Properties {
		v, ok := args[name]
		if !ok || v == nil {
			continue
		}
		if err := prop.check(v); err != nil {
			return &ValidationError{Tool: tool, Field: name, Message: err.Error()}
		}
	}

	return nil
}

func (p Property) check(v any) error {
	switch p.Type {
	case "string":
		sv, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if len(p.Enum) > 0 {
			for _, allowed := range p.Enum {
				if sv == allowed {
					return nil
				}
			}
			return fmt.Errorf("value %q is not one of %v", sv, p.Enum)
		}
	case "integer":
		// JSON numbers decode as float64; accept whole floats and native ints.
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) {
				return fmt.Errorf("expected integer, got %v", n)
			}
		case int, int32, int64:
		default:
			return fmt.Errorf("expected integer, got %T", v)
		}
	case "number":
		switch v.(type) {
		case float64, int, int32, int64:
		default:
			return fmt.Errorf("expected number, got %T", v)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", v)
		}
	}
	return nil
}
