package core

import "fmt"

// Turn failure taxonomy. Every error surfaced by the engine wraps exactly one
// of these sentinels so callers can classify with errors.Is. ErrRateLimited
// is retryable by the caller; all others are terminal for the turn. No
// failure leaves a partially persisted turn behind.
var (
	// ErrNotFound signals an absent agent, contract or validation report.
	ErrNotFound = fmt.Errorf("not found")

	// ErrUnauthorized signals an owner id mismatch on an agent operation.
	ErrUnauthorized = fmt.Errorf("owner not authorized for agent")

	// ErrUninitializedAgent signals a non-empty transcript missing its
	// bootstrap segment.
	ErrUninitializedAgent = fmt.Errorf("agent transcript missing bootstrap messages")

	// ErrUnknownTool signals a model tool call naming an unregistered tool.
	ErrUnknownTool = fmt.Errorf("unknown tool")

	// ErrToolLoopExceeded signals that a turn hit the tool round cap.
	ErrToolLoopExceeded = fmt.Errorf("tool call round limit exceeded")

	// ErrRateLimited signals a model provider rate limit. Retryable.
	ErrRateLimited = fmt.Errorf("model rate limited")

	// ErrContextOverflow signals that history plus document exceed the model
	// context window.
	ErrContextOverflow = fmt.Errorf("model context window exceeded")

	// ErrModelInvocation covers every other model gateway failure.
	ErrModelInvocation = fmt.Errorf("model invocation failed")

	// ErrPersistence signals a failed message log append.
	ErrPersistence = fmt.Errorf("message log append failed")
)
