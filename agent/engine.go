package agent

import (
	"context"
	"fmt"

	"github.com/lexroom/contractagent/contract"
	"github.com/lexroom/contractagent/core"
	"github.com/lexroom/contractagent/logging"
	"github.com/lexroom/contractagent/model"
	"github.com/lexroom/contractagent/store"
	"github.com/lexroom/contractagent/tool"
)

// Options configures an Engine using the functional options pattern.
type Options struct {
	// Store persists agents and their transcripts. Defaults to an in-memory
	// store suitable for development and tests.
	Store core.Store

	// Contracts serves contract data, text and validation reports.
	Contracts contract.Store

	// Validator produces validation reports for the validate_contract tool.
	// Defaults to a ModelValidator backed by DefaultModel.
	Validator contract.Validator

	// Models maps the model identifiers stored on agents to gateways.
	Models map[string]model.Model

	// DefaultModel serves agents whose identifier has no Models entry.
	DefaultModel model.Model

	// Persona overrides the system prompt installed on bootstrap.
	Persona string

	// MaxToolRounds caps model round-trips within one turn.
	MaxToolRounds int

	// ChunkSize caps streamed answer fragments, in runes.
	ChunkSize int

	// Logger receives structured engine events. Defaults to a no-op logger.
	Logger logging.Logger
}

// Engine orchestrates contract-scoped agent conversations: lifecycle,
// context assembly, the tool-calling loop and transcript persistence.
//
// An Engine is safe for concurrent use; turns for the same agent are
// serialized internally.
type Engine struct {
	store     core.Store
	contracts contract.Store
	validator contract.Validator
	models    map[string]model.Model
	fallback  model.Model
	persona   string
	maxRounds int
	chunkSize int
	logger    logging.Logger
	locks     *agentLocks
}

// New creates an Engine. All dependencies are optional except Contracts,
// which has no sensible zero value and defaults to an empty in-memory
// contract store.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		MaxToolRounds: 10,
		ChunkSize:     100,
		Persona:       DefaultPersona,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = store.NewInMemoryStore()
	}
	if opts.Contracts == nil {
		opts.Contracts = contract.NewInMemoryStore()
	}
	if opts.Validator == nil && opts.DefaultModel != nil {
		opts.Validator = contract.NewModelValidator(opts.DefaultModel, opts.Contracts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = 10
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 100
	}
	if opts.Persona == "" {
		opts.Persona = DefaultPersona
	}

	return &Engine{
		store:     opts.Store,
		contracts: opts.Contracts,
		validator: opts.Validator,
		models:    opts.Models,
		fallback:  opts.DefaultModel,
		persona:   opts.Persona,
		maxRounds: opts.MaxToolRounds,
		chunkSize: opts.ChunkSize,
		logger:    opts.Logger,
		locks:     newAgentLocks(),
	}
}

// CreateAgent registers a new agent bound to an existing contract. The
// transcript stays empty until the first turn bootstraps it.
func (e *Engine) CreateAgent(ctx context.Context, ownerID, name, modelID, contractID string) (*core.Agent, error) {
	if _, err := e.contracts.Get(ctx, contractID); err != nil {
		return nil, fmt.Errorf("create agent: contract %s: %w", contractID, err)
	}
	ag := core.NewAgent(ownerID, name, modelID, contractID)
	if err := e.store.CreateAgent(ctx, ag); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	e.logger.Info("agent.created", "agent_id", ag.ID, "owner_id", ownerID, "contract_id", contractID)
	return ag, nil
}

// GetAgent returns the agent if it exists and belongs to ownerID.
func (e *Engine) GetAgent(ctx context.Context, ownerID, agentID string) (*core.Agent, error) {
	ag, err := e.store.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if ag.OwnerID != ownerID {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrUnauthorized)
	}
	return ag, nil
}

// ListAgents returns every agent owned by ownerID.
func (e *Engine) ListAgents(ctx context.Context, ownerID string) ([]*core.Agent, error) {
	return e.store.ListAgents(ctx, ownerID)
}

// RenameAgent changes the display name of an owned agent.
func (e *Engine) RenameAgent(ctx context.Context, ownerID, agentID, name string) error {
	if _, err := e.GetAgent(ctx, ownerID, agentID); err != nil {
		return err
	}
	return e.store.RenameAgent(ctx, agentID, name)
}

// DeleteAgent removes an owned agent and its whole transcript.
func (e *Engine) DeleteAgent(ctx context.Context, ownerID, agentID string) error {
	if _, err := e.GetAgent(ctx, ownerID, agentID); err != nil {
		return err
	}
	if err := e.store.DeleteAgent(ctx, agentID); err != nil {
		return err
	}
	e.locks.forget(agentID)
	e.logger.Info("agent.deleted", "agent_id", agentID, "owner_id", ownerID)
	return nil
}

// Transcript returns the agent's persisted messages in ordinal order.
func (e *Engine) Transcript(ctx context.Context, ownerID, agentID string) ([]core.Message, error) {
	if _, err := e.GetAgent(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	return e.store.LoadMessages(ctx, agentID)
}

// resolveModel maps an agent's stored model identifier to a gateway.
func (e *Engine) resolveModel(modelID string) (model.Model, error) {
	if m, ok := e.models[modelID]; ok {
		return m, nil
	}
	if e.fallback != nil {
		return e.fallback, nil
	}
	return nil, fmt.Errorf("%w: no gateway for model %q", core.ErrModelInvocation, modelID)
}

// registryFor builds the tool set granted to one agent's conversation.
func (e *Engine) registryFor(ag *core.Agent) *tool.Registry {
	return tool.NewContractRegistry(ag.ContractID, tool.ContractCapabilities{
		Contracts: e.contracts,
		Validator: e.validator,
	})
}
