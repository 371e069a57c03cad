// Package gemini provides a model gateway for the Google Gemini API via the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/model"
	"google.golang.org/genai"
)

// Options configures the Gemini adapter.
type Options struct {
	Model       string
	Temperature float32
}

// Model wraps the Gemini generate-content API behind the generic
// model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a Gemini gateway. Credentials resolve through the SDK's
// standard environment handling (GEMINI_API_KEY or application default
// credentials).
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return NewModelFromClient(client, optFns...), nil
}

// NewModelFromClient creates a Gemini gateway from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{Model: "gemini-2.5-flash", Temperature: 0.7}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Invoke implements model.Model.
func (m *Model) Invoke(ctx context.Context, req model.Request) (*model.Response, error) {
	contents, config := m.buildRequest(req)
	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		return nil, classify(err)
	}

	var toolCalls []core.ToolCall
	for _, fc := range resp.FunctionCalls() {
		args := ""
		if fc.Args != nil {
			if encoded, err := json.Marshal(fc.Args); err == nil {
				args = string(encoded)
			}
		}
		id := fc.ID
		if id == "" {
			id = core.NewID() // Gemini may omit call ids
		}
		toolCalls = append(toolCalls, core.ToolCall{ID: id, Name: fc.Name, Arguments: args})
	}

	finishReason := "stop"
	if len(toolCalls) > 0 {
		finishReason = "tool_calls"
	}
	return &model.Response{
		Content:      resp.Text(),
		ToolCalls:    toolCalls,
		FinishReason: finishReason,
	}, nil
}

// Stream implements model.Model via the blocking path; the engine chunks
// final answers itself for wire delivery.
func (m *Model) Stream(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	return model.InvokeStream(ctx, m, req)
}

// Info returns metadata describing this Gemini gateway.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "gemini", SupportsTools: true}
}

func (m *Model) buildRequest(req model.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	temperature := m.opts.Temperature
	config := &genai.GenerateContentConfig{Temperature: &temperature}

	var system strings.Builder
	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch v := msg.(type) {
		case core.SystemMessage:
			if system.Len() > 0 {
				system.WriteString("\n\n")
			}
			system.WriteString(v.Content)
		case core.HumanMessage:
			contents = append(contents, genai.NewContentFromText(v.Content, genai.RoleUser))
		case core.AIMessage:
			var parts []*genai.Part
			if v.Content != "" {
				parts = append(parts, genai.NewPartFromText(v.Content))
			}
			for _, call := range v.ToolCalls {
				args := map[string]any{}
				if call.Arguments != "" {
					_ = json.Unmarshal([]byte(call.Arguments), &args)
				}
				parts = append(parts, genai.NewPartFromFunctionCall(call.Name, args))
			}
			if len(parts) > 0 {
				contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
			}
		case core.ToolMessage:
			response := map[string]any{"result": v.Content}
			if v.IsError {
				response = map[string]any{"error": v.Content}
			}
			part := genai.NewPartFromFunctionResponse(v.ToolName, response)
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		}
	}
	if system.Len() > 0 {
		config.SystemInstruction = genai.NewContentFromText(system.String(), genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, len(req.Tools))
		for i, tool := range req.Tools {
			declarations[i] = &genai.FunctionDeclaration{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  buildSchema(tool.Function.Parameters),
			}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}
	return contents, config
}

// buildSchema converts a minimal JSON-schema map into the SDK schema type.
// Only the subset the tool registry produces is handled.
func buildSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}
	out := &genai.Schema{Type: schemaType(schema["type"])}
	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}
	if properties, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(properties))
		for name, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				out.Properties[name] = buildSchema(propMap)
			}
		}
	}
	switch req := schema["required"].(type) {
	case []string:
		out.Required = req
	case []any:
		for _, v := range req {
			if s, ok := v.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = buildSchema(items)
	}
	return out
}

func schemaType(t any) genai.Type {
	s, _ := t.(string)
	switch s {
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
	default:
		return genai.TypeObject
	}
}

// classify maps Gemini API failures onto the core taxonomy.
func classify(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		switch {
		case apierr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("gemini: %w: %v", core.ErrRateLimited, err)
		case apierr.Code == http.StatusBadRequest &&
			strings.Contains(strings.ToLower(apierr.Message), "token"):
			return fmt.Errorf("gemini: %w: %v", core.ErrContextOverflow, err)
		}
	}
	return fmt.Errorf("gemini: %w: %v", core.ErrModelInvocation, err)
}
