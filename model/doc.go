// Package model defines the gateway abstraction between the conversation
// engine and a backing LLM. Provider adapters (anthropic, openai, gemini)
// convert the engine's message variants into vendor requests and classify
// vendor failures onto the core error taxonomy, so the orchestrator never
// needs per-provider branching.
package model
