// Package sqlite provides a durable core.Store backed by SQLite. Batch
// appends run inside a single transaction that also allocates ordinals, so a
// failed turn leaves no rows behind.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lexroom/contractagent/core"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements core.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dsn and runs migrations.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection so schema and data survive across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS agents (
			agent_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			model TEXT NOT NULL,
			contract_id TEXT NOT NULL,
			state TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agents_owner ON agents(owner_id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			agent_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			message_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			tool_calls TEXT,
			tool_call_id TEXT,
			tool_name TEXT,
			is_error INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (agent_id, ordinal),
			FOREIGN KEY (agent_id) REFERENCES agents(agent_id) ON DELETE CASCADE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_id ON messages(message_id)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// CreateAgent inserts a new agent record.
func (s *Store) CreateAgent(ctx context.Context, agent *core.Agent) error {
	state, err := json.Marshal(agent.State)
	if err != nil {
		return fmt.Errorf("failed to encode agent state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agents (agent_id, owner_id, name, model, contract_id, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agent.ID, agent.OwnerID, agent.Name, agent.Model, agent.ContractID, string(state), agent.CreatedAt)
	return err
}

// GetAgent returns the record or core.ErrNotFound.
func (s *Store) GetAgent(ctx context.Context, agentID string) (*core.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT agent_id, owner_id, name, model, contract_id, state, created_at
		 FROM agents WHERE agent_id = ?`, agentID)
	return scanAgent(row)
}

// ListAgents returns all agents owned by ownerID ordered by creation time.
func (s *Store) ListAgents(ctx context.Context, ownerID string) ([]*core.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT agent_id, owner_id, name, model, contract_id, state, created_at
		 FROM agents WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*core.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, agent)
	}
	return out, rows.Err()
}

// RenameAgent updates the display name.
func (s *Store) RenameAgent(ctx context.Context, agentID, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE agents SET name = ? WHERE agent_id = ?`, name, agentID)
	if err != nil {
		return err
	}
	return requireRow(res, agentID)
}

// DeleteAgent removes the agent; the foreign key cascades to its messages.
func (s *Store) DeleteAgent(ctx context.Context, agentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE agent_id = ?`, agentID)
	if err != nil {
		return err
	}
	return requireRow(res, agentID)
}

// AppendMessages inserts the batch inside one transaction. The transaction
// reads the current maximum ordinal and stamps the batch contiguously, so
// concurrent appends to the same agent never interleave or collide.
func (s *Store) AppendMessages(ctx context.Context, agentID string, msgs []core.Message) ([]core.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM agents WHERE agent_id = ?`, agentID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordinal), -1) + 1 FROM messages WHERE agent_id = ?`, agentID).Scan(&next); err != nil {
		return nil, err
	}

	stamped := make([]core.Message, len(msgs))
	for i, m := range msgs {
		sm := core.WithOrdinal(m, next)
		next++
		row, err := encodeMessage(sm)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (agent_id, ordinal, message_id, role, content, tool_calls, tool_call_id, tool_name, is_error, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			agentID, row.ordinal, row.id, row.role, row.content, row.toolCalls, row.toolCallID, row.toolName, row.isError, row.createdAt); err != nil {
			return nil, err
		}
		stamped[i] = sm
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stamped, nil
}

// LoadMessages returns the transcript in ordinal order.
func (s *Store) LoadMessages(ctx context.Context, agentID string) ([]core.Message, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM agents WHERE agent_id = ?`, agentID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, message_id, role, content, tool_calls, tool_call_id, tool_name, is_error, created_at
		 FROM messages WHERE agent_id = ? ORDER BY ordinal`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Message
	for rows.Next() {
		var r messageRow
		var toolCalls, toolCallID, toolName sql.NullString
		if err := rows.Scan(&r.ordinal, &r.id, &r.role, &r.content, &toolCalls, &toolCallID, &toolName, &r.isError, &r.createdAt); err != nil {
			return nil, err
		}
		r.toolCalls = toolCalls.String
		r.toolCallID = toolCallID.String
		r.toolName = toolName.String
		msg, err := decodeMessage(r)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*core.Agent, error) {
	var a core.Agent
	var state sql.NullString
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Model, &a.ContractID, &state, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agent not found: %w", core.ErrNotFound)
		}
		return nil, err
	}
	if state.Valid && state.String != "" {
		if err := json.Unmarshal([]byte(state.String), &a.State); err != nil {
			return nil, fmt.Errorf("failed to decode agent state: %w", err)
		}
	}
	return &a, nil
}

type messageRow struct {
	ordinal    int
	id         string
	role       string
	content    string
	toolCalls  string
	toolCallID string
	toolName   string
	isError    bool
	createdAt  time.Time
}

// encodeMessage flattens a message variant into its row shape. The switch is
// exhaustive over the closed variant set.
func encodeMessage(m core.Message) (*messageRow, error) {
	row := &messageRow{
		ordinal: core.MessageOrdinal(m),
		id:      core.MessageID(m),
		role:    string(m.Role()),
		content: core.MessageContent(m),
	}
	switch v := m.(type) {
	case core.SystemMessage:
		row.createdAt = v.CreatedAt
	case core.HumanMessage:
		row.createdAt = v.CreatedAt
	case core.AIMessage:
		row.createdAt = v.CreatedAt
		if len(v.ToolCalls) > 0 {
			encoded, err := json.Marshal(v.ToolCalls)
			if err != nil {
				return nil, fmt.Errorf("failed to encode tool calls: %w", err)
			}
			row.toolCalls = string(encoded)
		}
	case core.ToolMessage:
		row.createdAt = v.CreatedAt
		row.toolCallID = v.ToolCallID
		row.toolName = v.ToolName
		row.isError = v.IsError
	default:
		return nil, fmt.Errorf("unsupported message variant %T", m)
	}
	return row, nil
}

func decodeMessage(r messageRow) (core.Message, error) {
	switch core.Role(r.role) {
	case core.RoleSystem:
		return core.SystemMessage{ID: r.id, Ordinal: r.ordinal, Content: r.content, CreatedAt: r.createdAt}, nil
	case core.RoleHuman:
		return core.HumanMessage{ID: r.id, Ordinal: r.ordinal, Content: r.content, CreatedAt: r.createdAt}, nil
	case core.RoleAI:
		var calls []core.ToolCall
		if r.toolCalls != "" {
			if err := json.Unmarshal([]byte(r.toolCalls), &calls); err != nil {
				return nil, fmt.Errorf("failed to decode tool calls: %w", err)
			}
		}
		return core.AIMessage{ID: r.id, Ordinal: r.ordinal, Content: r.content, ToolCalls: calls, CreatedAt: r.createdAt}, nil
	case core.RoleTool:
		return core.ToolMessage{
			ID: r.id, Ordinal: r.ordinal, Content: r.content,
			ToolCallID: r.toolCallID, ToolName: r.toolName, IsError: r.isError,
			CreatedAt: r.createdAt,
		}, nil
	}
	return nil, fmt.Errorf("unknown message role %q", r.role)
}

func requireRow(res sql.Result, agentID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("agent %s: %w", agentID, core.ErrNotFound)
	}
	return nil
}
