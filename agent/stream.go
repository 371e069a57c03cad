package agent

import (
	"context"
	"fmt"
)

// EventKind identifies a streaming protocol frame.
type EventKind string

const (
	EventToolCall     EventKind = "tool_call"
	EventAIResponse   EventKind = "ai_response"
	EventToolResponse EventKind = "tool_response"
	EventDone         EventKind = "done"
)

// Event is one frame of the live turn protocol. Tool frames carry the tool
// name; ai_response frames carry an answer fragment; done carries nothing
// and is only emitted after the turn has been committed.
type Event struct {
	Kind    EventKind
	Name    string
	Content string
}

// Encode renders the event in wire form for line-oriented transports.
func (ev Event) Encode() string {
	switch ev.Kind {
	case EventToolCall:
		return fmt.Sprintf("tool_call:%s", ev.Name)
	case EventAIResponse:
		return fmt.Sprintf("ai_response:%s", ev.Content)
	case EventToolResponse:
		return fmt.Sprintf("tool_response:%s", ev.Content)
	default:
		return string(ev.Kind)
	}
}

// chunkRunes splits s into fragments of at most size runes. Splitting on
// runes keeps multi-byte characters intact.
func chunkRunes(s string, size int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var out []string
	for len(runes) > size {
		out = append(out, string(runes[:size]))
		runes = runes[size:]
	}
	return append(out, string(runes))
}

// channelEmitter forwards turn events to a consumer channel, honoring ctx so
// a disconnected consumer aborts the turn before the commit point.
type channelEmitter struct {
	ch chan<- Event
}

func (c channelEmitter) emit(ctx context.Context, ev Event) error {
	select {
	case c.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stream runs one turn like Send but delivers it as a live event sequence:
// tool_call / tool_response frames as the loop executes, the final answer as
// ai_response fragments, then done once the transcript append has succeeded.
// Exactly one value is sent on the error channel when the turn fails; the
// event channel is closed either way.
func (e *Engine) Stream(ctx context.Context, ownerID, agentID, text string) (<-chan Event, <-chan error) {
	events := make(chan Event)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)

		emitter := channelEmitter{ch: events}
		if _, err := e.runTurn(ctx, ownerID, agentID, text, emitter); err != nil {
			errs <- err
			return
		}
		if err := emitter.emit(ctx, Event{Kind: EventDone}); err != nil {
			errs <- err
		}
	}()

	return events, errs
}
