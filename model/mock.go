package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexroom/contractagent/core"
)

// MockModel is an in-memory Model driven by a scripted queue of responses
// and errors, in the order they were queued. When the script runs out it
// either repeats its final step (ExhaustRepeat) or echoes the last human
// message. Useful for tests and examples.
type MockModel struct {
	mu     sync.Mutex
	script []scriptStep
	repeat bool
	calls  int
}

type scriptStep struct {
	resp *Response
	err  error
}

// NewMockModel constructs an empty mock with tool support enabled.
func NewMockModel() *MockModel { return &MockModel{} }

// QueueResponse appends a canned response to the script.
func (m *MockModel) QueueResponse(resp Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptStep{resp: &resp})
	return m
}

// QueueFinal appends a final text answer.
func (m *MockModel) QueueFinal(content string) *MockModel {
	return m.QueueResponse(Response{Content: content, FinishReason: "stop"})
}

// QueueToolCall appends a response requesting one tool invocation. The call
// id is generated and returned through the response when replayed.
func (m *MockModel) QueueToolCall(name, arguments string) *MockModel {
	return m.QueueResponse(Response{
		ToolCalls:    []core.ToolCall{{ID: core.NewID(), Name: name, Arguments: arguments}},
		FinishReason: "tool_calls",
	})
}

// QueueError appends a failure step (typically one of the core sentinels,
// wrapped the way a real adapter would wrap it).
func (m *MockModel) QueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scriptStep{err: err})
	return m
}

// ExhaustRepeat makes the mock replay its last scripted step forever once
// the queue is drained, instead of falling back to echoing.
func (m *MockModel) ExhaustRepeat() *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repeat = true
	return m
}

// Calls reports how many times Invoke or Stream ran.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Invoke implements Model by replaying the next scripted step.
func (m *MockModel) Invoke(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if len(m.script) == 0 {
		return m.echo(req), nil
	}
	step := m.script[0]
	if len(m.script) > 1 || !m.repeat {
		m.script = m.script[1:]
	}
	if step.err != nil {
		return nil, step.err
	}
	resp := *step.resp
	return &resp, nil
}

// Stream implements Model by replaying the next step as rune-sized partial
// chunks followed by the final response.
func (m *MockModel) Stream(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	out := make(chan Response, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		resp, err := m.Invoke(ctx, req)
		if err != nil {
			errCh <- err
			return
		}
		for _, r := range resp.Content {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- Response{Partial: true, Content: string(r)}:
			}
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case out <- *resp:
		}
	}()
	return out, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info {
	return Info{Name: "mock", Provider: "mock", SupportsTools: true}
}

// echo answers with the last human message, the no-script fallback.
func (m *MockModel) echo(req Request) *Response {
	var last string
	for _, msg := range req.Messages {
		if h, ok := msg.(core.HumanMessage); ok {
			last = h.Content
		}
	}
	return &Response{Content: fmt.Sprintf("Mock response to: %s", last), FinishReason: "stop"}
}
