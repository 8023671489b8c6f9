package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/llm"
	"github.com/mwidjaja/taskchat/internal/tool"
	"google.golang.org/api/option"
)

// Provider implements llm.Provider using Google's Gemini function calling
type Provider struct {
	apiKey string
	model  string
}

// NewProvider creates a new Gemini provider
func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  model,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "gemini"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Chat sends messages plus the tool catalog and returns the model's reply
func (p *Provider) Chat(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}
	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	temperature := req.Temperature
	generativeModel.Temperature = &temperature
	if req.MaxTokens > 0 {
		maxTokens := int32(req.MaxTokens)
		generativeModel.MaxOutputTokens = &maxTokens
	}

	if len(req.Tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			declarations = append(declarations, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  toGenaiSchema(t.Parameters),
			})
		}
		generativeModel.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	history, last, err := toGenaiContents(req.Messages, generativeModel)
	if err != nil {
		return nil, err
	}

	chat := generativeModel.StartChat()
	chat.History = history

	start := time.Now()
	resp, err := chat.SendMessage(ctx, last...)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var content string
	var toolCalls []llm.ToolCallRequest
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			content += string(v)
		case genai.FunctionCall:
			toolCalls = append(toolCalls, llm.ToolCallRequest{
				ID:        "call-" + uuid.New().String(),
				Name:      v.Name,
				Arguments: v.Args,
			})
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Content:    content,
		ToolCalls:  toolCalls,
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

// toGenaiContents converts messages to Gemini chat history plus the parts of
// the final message to send. System messages become the model's system
// instruction.
func toGenaiContents(messages []llm.Message, model *genai.GenerativeModel) ([]*genai.Content, []genai.Part, error) {
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(m.Content)},
			}
		case llm.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		case llm.RoleAssistant:
			var parts []genai.Part
			if m.Content != "" {
				parts = append(parts, genai.Text(m.Content))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, genai.FunctionCall{
					Name: tc.Name,
					Args: tc.Arguments,
				})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}
		case llm.RoleTool:
			var result map[string]any
			if err := jsonToMap(m.Content, &result); err != nil {
				result = map[string]any{"result": m.Content}
			}
			contents = append(contents, &genai.Content{
				Role:  "function",
				Parts: []genai.Part{genai.FunctionResponse{Name: m.ToolName, Response: result}},
			})
		default:
			return nil, nil, fmt.Errorf("unsupported message role: %s", m.Role)
		}
	}

	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("no sendable messages")
	}

	last := contents[len(contents)-1]
	return contents[:len(contents)-1], last.Parts, nil
}

func jsonToMap(s string, out *map[string]any) error {
	if s == "" {
		return fmt.Errorf("empty content")
	}
	return json.Unmarshal([]byte(s), out)
}

func toGenaiSchema(s tool.Schema) *genai.Schema {
	out := &genai.Schema{
		Type:     genaiType(s.Type),
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = &genai.Schema{
				Type:        genaiType(prop.Type),
				Description: prop.Description,
				Enum:        prop.Enum,
			}
		}
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	}
	return genai.TypeUnspecified
}
