package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/model"
	"github.com/lexroom/contractagent/tool"
)

// turnEmitter receives live events while a turn runs. The blocking Send path
// uses a no-op; the streaming path forwards to its channel.
type turnEmitter interface {
	emit(ctx context.Context, ev Event) error
}

type discardEmitter struct{}

func (discardEmitter) emit(context.Context, Event) error { return nil }

// Send runs one complete turn: bootstrap if needed, the tool-calling loop,
// then a single atomic append of the human message, any tool traffic and the
// final answer. A failed turn leaves the transcript exactly as loaded
// (bootstrap excepted).
func (e *Engine) Send(ctx context.Context, ownerID, agentID, text string) (*core.AIMessage, error) {
	return e.runTurn(ctx, ownerID, agentID, text, discardEmitter{})
}

func (e *Engine) runTurn(ctx context.Context, ownerID, agentID, text string, emitter turnEmitter) (*core.AIMessage, error) {
	release, err := e.locks.acquire(ctx, agentID)
	if err != nil {
		return nil, err
	}
	defer release()

	ag, err := e.GetAgent(ctx, ownerID, agentID)
	if err != nil {
		return nil, err
	}
	llm, err := e.resolveModel(ag.Model)
	if err != nil {
		return nil, err
	}

	history, err := e.store.LoadMessages(ctx, agentID)
	if err != nil {
		return nil, err
	}
	history, err = e.bootstrap(ctx, ag, history)
	if err != nil {
		return nil, err
	}

	registry := e.registryFor(ag)
	pending := []core.Message{core.NewHumanMessage(text)}

	var final *core.AIMessage
	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if round >= e.maxRounds {
			return nil, fmt.Errorf("agent %s: %d rounds: %w", agentID, round, core.ErrToolLoopExceeded)
		}

		resp, err := llm.Invoke(ctx, model.Request{
			Messages: append(append([]core.Message{}, history...), pending...),
			Tools:    registry.Definitions(),
		})
		if err != nil {
			return nil, wrapModelErr(err)
		}

		ai := core.NewAIMessage(resp.Content, resp.ToolCalls)
		pending = append(pending, ai)
		if ai.IsFinal() {
			final = &ai
			break
		}

		for _, call := range ai.ToolCalls {
			if err := emitter.emit(ctx, Event{Kind: EventToolCall, Name: call.Name}); err != nil {
				return nil, err
			}
			result, err := e.dispatch(ctx, registry, call)
			if err != nil {
				return nil, err
			}
			pending = append(pending, result)
			if err := emitter.emit(ctx, Event{Kind: EventToolResponse, Name: result.ToolName, Content: result.Content}); err != nil {
				return nil, err
			}
		}
	}

	for _, fragment := range chunkRunes(final.Content, e.chunkSize) {
		if err := emitter.emit(ctx, Event{Kind: EventAIResponse, Content: fragment}); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	committed, err := e.store.AppendMessages(ctx, agentID, pending)
	if err != nil {
		return nil, fmt.Errorf("commit turn: %w", err)
	}
	e.logger.Info("agent.turn.committed", "agent_id", agentID, "messages", len(committed))

	last, ok := committed[len(committed)-1].(core.AIMessage)
	if !ok {
		return nil, fmt.Errorf("commit turn: unexpected trailing message: %w", core.ErrPersistence)
	}
	return &last, nil
}

// dispatch resolves and executes one tool call. Unknown tools are fatal;
// execution failures become error-flagged tool messages so the model can
// recover within the same turn.
func (e *Engine) dispatch(ctx context.Context, registry *tool.Registry, call core.ToolCall) (core.ToolMessage, error) {
	t, err := registry.Lookup(call.Name)
	if err != nil {
		return core.ToolMessage{}, err
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			e.logger.Warn("agent.tool.bad_args", "tool", call.Name, "error", err.Error())
			return core.NewToolMessage(call.ID, call.Name, fmt.Sprintf("invalid arguments: %v", err), true), nil
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		e.logger.Warn("agent.tool.failed", "tool", call.Name, "error", err.Error())
		return core.NewToolMessage(call.ID, call.Name, err.Error(), true), nil
	}
	e.logger.Debug("agent.tool.ok", "tool", call.Name)
	return core.NewToolMessage(call.ID, call.Name, stringifyResult(result), false), nil
}

func stringifyResult(result any) string {
	switch v := result.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// wrapModelErr passes already classified gateway errors through and folds
// everything else into the invocation failure sentinel.
func wrapModelErr(err error) error {
	switch {
	case errors.Is(err, core.ErrRateLimited),
		errors.Is(err, core.ErrContextOverflow),
		errors.Is(err, core.ErrModelInvocation),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", core.ErrModelInvocation, err)
	}
}
