package model

import (
	"context"
	"errors"
	"testing"

	"github.com/lexroom/contractagent/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModelScript(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockModel().
		QueueToolCall("get_contract_data", "{}").
		QueueError(boom).
		QueueFinal("done")

	resp, err := m.Invoke(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "get_contract_data", resp.ToolCalls[0].Name)

	_, err = m.Invoke(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)

	resp, err = m.Invoke(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
	assert.Empty(t, resp.ToolCalls)

	// Drained queue falls back to echoing the last human message.
	resp, err = m.Invoke(context.Background(), Request{
		Messages: []core.Message{core.NewHumanMessage("ping")},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "ping")
	assert.Equal(t, 4, m.Calls())
}

func TestMockModelExhaustRepeat(t *testing.T) {
	m := NewMockModel().QueueFinal("same").ExhaustRepeat()
	for i := 0; i < 3; i++ {
		resp, err := m.Invoke(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, "same", resp.Content)
	}
}

func TestInvokeStreamDeliversFinal(t *testing.T) {
	m := NewMockModel().QueueFinal("answer")
	out, errCh := InvokeStream(context.Background(), m, Request{})

	var got []Response
	for resp := range out {
		got = append(got, resp)
	}
	require.NoError(t, <-errCh)
	require.Len(t, got, 1)
	assert.Equal(t, "answer", got[0].Content)
	assert.False(t, got[0].Partial)
}

func TestInvokeStreamPropagatesError(t *testing.T) {
	sentinel := errors.New("gateway down")
	m := NewMockModel().QueueError(sentinel)
	out, errCh := InvokeStream(context.Background(), m, Request{})

	for range out {
	}
	assert.ErrorIs(t, <-errCh, sentinel)
}
