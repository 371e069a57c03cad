// Package contractagent provides a high-level façade over the agent engine
// for building contract-scoped conversational assistants. Most applications
// interact with this package by:
//  1. Creating a ContractAgent via New() (optionally overriding the default
//     in-memory stores with durable implementations)
//  2. Registering contracts and creating agents bound to them
//  3. Conversing via Send (blocking) or Stream (live event protocol)
//
// The façade delegates orchestration to agent.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply the sqlite store, real
// model gateways and a structured logger.
package contractagent

import (
	"context"

	"github.com/lexroom/contractagent/agent"
	"github.com/lexroom/contractagent/contract"
	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/logging"
	"github.com/lexroom/contractagent/model"
)

// Options configures the ContractAgent instance.
type Options struct {
	// Store persists agents and transcripts (defaults to in-memory).
	Store core.Store

	// Contracts serves contract data and validation reports (defaults to
	// in-memory).
	Contracts contract.Store

	// Validator backs the validate_contract tool. Defaults to a
	// model-backed validator using DefaultModel.
	Validator contract.Validator

	// Models maps agent model identifiers to gateways.
	Models map[string]model.Model

	// DefaultModel serves agents with an unmapped identifier.
	DefaultModel model.Model

	// Persona overrides the bootstrap system prompt.
	Persona string

	// MaxToolRounds caps model round-trips per turn (default 10).
	MaxToolRounds int

	// ChunkSize caps streamed answer fragments in runes (default 100).
	ChunkSize int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// ContractAgent is the high-level façade aggregating the engine and stores.
type ContractAgent struct {
	engine *agent.Engine
}

// New creates a new ContractAgent instance with optional overrides. Any
// unset store is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *ContractAgent {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	e := agent.New(func(o *agent.Options) {
		o.Store = opts.Store
		o.Contracts = opts.Contracts
		o.Validator = opts.Validator
		o.Models = opts.Models
		o.DefaultModel = opts.DefaultModel
		o.Persona = opts.Persona
		o.MaxToolRounds = opts.MaxToolRounds
		o.ChunkSize = opts.ChunkSize
		o.Logger = opts.Logger
	})
	return &ContractAgent{engine: e}
}

// Engine exposes the underlying engine for advanced use.
func (c *ContractAgent) Engine() *agent.Engine { return c.engine }

// CreateAgent registers a new agent bound to an existing contract.
func (c *ContractAgent) CreateAgent(ctx context.Context, ownerID, name, modelID, contractID string) (*core.Agent, error) {
	return c.engine.CreateAgent(ctx, ownerID, name, modelID, contractID)
}

// GetAgent returns an owned agent.
func (c *ContractAgent) GetAgent(ctx context.Context, ownerID, agentID string) (*core.Agent, error) {
	return c.engine.GetAgent(ctx, ownerID, agentID)
}

// ListAgents returns every agent owned by ownerID.
func (c *ContractAgent) ListAgents(ctx context.Context, ownerID string) ([]*core.Agent, error) {
	return c.engine.ListAgents(ctx, ownerID)
}

// RenameAgent changes an owned agent's display name.
func (c *ContractAgent) RenameAgent(ctx context.Context, ownerID, agentID, name string) error {
	return c.engine.RenameAgent(ctx, ownerID, agentID, name)
}

// DeleteAgent removes an owned agent and its transcript.
func (c *ContractAgent) DeleteAgent(ctx context.Context, ownerID, agentID string) error {
	return c.engine.DeleteAgent(ctx, ownerID, agentID)
}

// Transcript returns an agent's persisted messages in order.
func (c *ContractAgent) Transcript(ctx context.Context, ownerID, agentID string) ([]core.Message, error) {
	return c.engine.Transcript(ctx, ownerID, agentID)
}

// Send runs one blocking turn and returns the final answer.
func (c *ContractAgent) Send(ctx context.Context, ownerID, agentID, text string) (*core.AIMessage, error) {
	return c.engine.Send(ctx, ownerID, agentID, text)
}

// Stream runs one turn as a live event sequence.
func (c *ContractAgent) Stream(ctx context.Context, ownerID, agentID, text string) (<-chan agent.Event, <-chan error) {
	return c.engine.Stream(ctx, ownerID, agentID, text)
}
