package core

import "time"

// Agent is a conversation session bound to one owner, one model and exactly
// one contract. OwnerID and ContractID are fixed at creation; Name is
// mutable; deleting the agent cascades to its message log.
type Agent struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"owner_id"`
	Name       string         `json:"name"`
	Model      string         `json:"model"`
	ContractID string         `json:"contract_id"`
	State      map[string]any `json:"state,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewAgent creates an agent record. The message log starts empty; persona
// and document context are seeded by the engine on the first turn, not here.
func NewAgent(ownerID, name, model, contractID string) *Agent {
	return &Agent{
		ID:         NewID(),
		OwnerID:    ownerID,
		Name:       name,
		Model:      model,
		ContractID: contractID,
		State:      map[string]any{},
		CreatedAt:  time.Now().UTC(),
	}
}

// Clone returns a deep copy safe for independent mutation.
func (a *Agent) Clone() *Agent {
	clone := *a
	clone.State = make(map[string]any, len(a.State))
	for k, v := range a.State {
		clone.State[k] = v
	}
	return &clone
}
