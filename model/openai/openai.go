// Package openai provides a model gateway using the OpenAI Chat Completions
// API (including function/tool calling). It adapts the engine's normalized
// message variants into the SDK's message format and back.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI adapter. Fields mirror a deliberately small
// subset of Chat Completion parameters.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic
// model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI gateway using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI gateway from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Invoke implements model.Model.
func (m *Model) Invoke(ctx context.Context, req model.Request) (*model.Response, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(req))
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: %w: no choices returned", core.ErrModelInvocation)
	}

	choice := resp.Choices[0]
	var toolCalls []core.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return &model.Response{
		Content:      choice.Message.Content,
		ToolCalls:    toolCalls,
		FinishReason: string(choice.FinishReason),
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// Stream implements model.Model via the blocking path; the engine chunks
// final answers itself for wire delivery.
func (m *Model) Stream(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	return model.InvokeStream(ctx, m, req)
}

// Info returns metadata describing this OpenAI gateway.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai", SupportsTools: true}
}

func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req.Messages),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Function.Name,
				Description: openai.String(tdef.Function.Description),
				Parameters:  tdef.Function.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// buildMessages converts message variants into OpenAI chat messages. The
// variant switch is exhaustive; tool results ride as tool-role messages
// answering their call ids.
func buildMessages(msgs []core.Message) []openai.ChatCompletionMessageParamUnion {
	var out []openai.ChatCompletionMessageParamUnion
	for _, msg := range msgs {
		switch v := msg.(type) {
		case core.SystemMessage:
			out = append(out, openai.SystemMessage(v.Content))
		case core.HumanMessage:
			out = append(out, openai.UserMessage(v.Content))
		case core.AIMessage:
			if len(v.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(v.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(v.ToolCalls))
			for i, call := range v.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   call.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				}
			}
			assistant := &openai.ChatCompletionAssistantMessageParam{
				Role:      "assistant",
				ToolCalls: toolCalls,
			}
			// Preserve any text the model produced alongside its tool calls.
			if v.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(v.Content),
				}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		case core.ToolMessage:
			out = append(out, openai.ToolMessage(v.Content, v.ToolCallID))
		}
	}
	return out
}

// classify maps OpenAI API failures onto the core taxonomy.
func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("openai: %w: %v", core.ErrRateLimited, err)
		case apierr.StatusCode == http.StatusBadRequest &&
			strings.Contains(strings.ToLower(err.Error()), "context length"):
			return fmt.Errorf("openai: %w: %v", core.ErrContextOverflow, err)
		}
	}
	return fmt.Errorf("openai: %w: %v", core.ErrModelInvocation, err)
}
