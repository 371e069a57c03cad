package model

import (
	"context"

	"github.com/lexroom/contractagent/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the engine:
// the transcript so far (persisted history plus the in-flight pending
// buffer) and the tool declarations of the agent's registry.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) model output. A final response with a
// non-empty ToolCalls slice asks the engine to dispatch tools and call back.
type Response struct {
	Content      string          `json:"content"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	Partial      bool            `json:"partial"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the gateway interface the engine drives. Implementations must
// classify provider failures: rate limits as core.ErrRateLimited, context
// window signals as core.ErrContextOverflow, everything else as
// core.ErrModelInvocation. No retries happen below this interface.
type Model interface {
	// Invoke performs one blocking generation returning the final response.
	Invoke(ctx context.Context, req Request) (*Response, error)

	// Stream emits partial responses followed by exactly one final
	// response, then closes both channels.
	Stream(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// InvokeStream adapts a blocking Invoke into the Stream contract. Providers
// without native streaming use it so the engine sees one uniform shape.
func InvokeStream(ctx context.Context, m Model, req Request) (<-chan Response, <-chan error) {
	out := make(chan Response, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		resp, err := m.Invoke(ctx, req)
		if err != nil {
			errCh <- err
			return
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case out <- *resp:
		}
	}()
	return out, errCh
}
