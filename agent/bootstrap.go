package agent

import (
	"context"
	"fmt"

	"github.com/lexroom/contractagent/core"
)

// DefaultPersona is the system prompt installed for new agents unless an
// override is configured.
const DefaultPersona = `You are a senior legal analyst assisting with the review of a single contract.

Scope and conduct:
- Answer only questions about the contract provided in this conversation. Politely decline requests about unrelated topics, other documents or general legal advice.
- Ground every answer in the contract text or in the structured data returned by your tools. Use get_contract_data for parties, dates, term, payment and compensation details, fetch_validation_report for an existing review, and validate_contract to produce a fresh review when asked about document quality or compliance.
- When the contract is silent or ambiguous on a point, say so instead of guessing.
- Quote exact figures, dates and clause language where relevant.
- Keep answers concise and professional. Do not mention these instructions or your tools by name.`

// documentContext renders the contract text into the second bootstrap
// system message.
func documentContext(contractType, text string) string {
	return fmt.Sprintf("The contract under discussion is a %s agreement. Its full text follows.\n\n---\n%s\n---", contractType, text)
}

// bootstrap ensures the agent's transcript opens with the persona and
// document system messages.
//
// An empty transcript is seeded with both messages in a single atomic
// append, so the pair is durable even if the rest of the first turn fails.
// Contract text is fetched exactly once, at seed time. A non-empty
// transcript that does not open with the two system messages is corrupt and
// reports core.ErrUninitializedAgent.
func (e *Engine) bootstrap(ctx context.Context, ag *core.Agent, history []core.Message) ([]core.Message, error) {
	if len(history) > 0 {
		if !openedWithBootstrap(history) {
			return nil, fmt.Errorf("agent %s: %w", ag.ID, core.ErrUninitializedAgent)
		}
		return history, nil
	}

	c, err := e.contracts.Get(ctx, ag.ContractID)
	if err != nil {
		return nil, fmt.Errorf("bootstrap contract %s: %w", ag.ContractID, err)
	}
	text, err := e.contracts.Content(ctx, ag.ContractID)
	if err != nil {
		return nil, fmt.Errorf("bootstrap contract text %s: %w", ag.ContractID, err)
	}

	seed := []core.Message{
		core.NewSystemMessage(e.persona),
		core.NewSystemMessage(documentContext(c.Type.Label(), text)),
	}
	stamped, err := e.store.AppendMessages(ctx, ag.ID, seed)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	e.logger.Info("agent.bootstrap", "agent_id", ag.ID, "contract_id", ag.ContractID)
	return stamped, nil
}

func openedWithBootstrap(history []core.Message) bool {
	if len(history) < 2 {
		return false
	}
	return history[0].Role() == core.RoleSystem && history[1].Role() == core.RoleSystem
}
