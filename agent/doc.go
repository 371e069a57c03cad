// Package agent contains the conversation engine that drives contract-scoped
// agents. The package covers four concerns:
//
//  1. Agent lifecycle (create / list / rename / delete with ownership checks)
//  2. Context assembly (persona + document bootstrap, ordinal-ordered history)
//  3. The tool-calling turn loop with atomic transcript commits
//  4. The streaming event protocol consumed by transports
//
// Design principles:
//   - No hidden global state; every dependency is wired via Options
//   - One store append per turn so the transcript never records a failed turn
//   - Per-agent serialization so concurrent sends cannot interleave
//
// The package intentionally keeps persistence, model specifics and tool
// registry abstractions in their respective packages to avoid cyclic deps.
package agent
