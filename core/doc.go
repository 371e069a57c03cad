// Package core defines the shared vocabulary of the conversation engine:
// the four message role variants, the agent record, the persistence
// interfaces and the failure taxonomy. Higher layers (store, model, tool,
// agent) depend on core; core depends on nothing but the standard library
// and uuid generation.
package core
