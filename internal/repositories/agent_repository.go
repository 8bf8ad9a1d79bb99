package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// AgentRepository defines the interface for agent-related database operations.
type AgentRepository interface {
	GetAgents(ctx context.Context, status, organizationName *string) ([]models.Agent, error)
	GetAgentByAgentID(ctx context.Context, agentID string) (*models.Agent, error)
	CreateAgent(ctx context.Context, executor SQLExecutor, agent *models.Agent) error
	UpdateAgent(ctx context.Context, executor SQLExecutor, agent *models.Agent) error
	DeleteAgent(ctx context.Context, executor SQLExecutor, agentID string) error
	NextAgentID(ctx context.Context) (string, error)
}

type agentRepository struct {
	store *database.Store
}

// NewAgentRepository creates a new instance of AgentRepository.
func NewAgentRepository(store *database.Store) AgentRepository {
	return &agentRepository{store: store}
}

var agentColumns = []string{
	"id", "agent_id", "name", "organization_name", "model", "voice_id",
	"twilio_number", "status", "prompt", "prompt_version", "average_latency_ms",
	"created_at", "updated_at",
}

func scanAgent(row interface{ Scan(...interface{}) error }, agent *models.Agent) error {
	return row.Scan(
		&agent.ID, &agent.AgentID, &agent.Name, &agent.OrganizationName,
		&agent.Model, &agent.VoiceID, &agent.TwilioNumber, &agent.Status,
		&agent.Prompt, &agent.PromptVersion, &agent.AverageLatencyMs,
		&agent.CreatedAt, &agent.UpdatedAt,
	)
}

// GetAgents lists agents with optional status and organization-name filters.
// The organization match is case-insensitive.
func (r *agentRepository) GetAgents(ctx context.Context, status, organizationName *string) ([]models.Agent, error) {
	q := r.store.SQL().
		Select(agentColumns...).
		From("agents").
		OrderBy("id ASC")

	if status != nil {
		q = q.Where(sq.Eq{"status": *status})
	}
	if organizationName != nil {
		q = q.Where("LOWER(organization_name) = ?", strings.ToLower(strings.TrimSpace(*organizationName)))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building agents query: %v", ErrDatabaseError, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying agents: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	agents := []models.Agent{}
	for rows.Next() {
		var agent models.Agent
		if err := scanAgent(rows, &agent); err != nil {
			return nil, fmt.Errorf("%w: scanning agent: %v", ErrDatabaseError, err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating agent rows: %v", ErrDatabaseError, err)
	}
	return agents, nil
}

// GetAgentByAgentID retrieves an agent by its external id.
func (r *agentRepository) GetAgentByAgentID(ctx context.Context, agentID string) (*models.Agent, error) {
	query, args, err := r.store.SQL().
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{"agent_id": agentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building agent query: %v", ErrDatabaseError, err)
	}

	agent := &models.Agent{}
	if err := scanAgent(r.store.DB().QueryRowContext(ctx, query, args...), agent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting agent %s: %v", ErrDatabaseError, agentID, err)
	}
	return agent, nil
}

// CreateAgent inserts a new agent.
func (r *agentRepository) CreateAgent(ctx context.Context, executor SQLExecutor, agent *models.Agent) error {
	now := time.Now().UTC()
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = now
	}
	agent.UpdatedAt = now

	query, args, err := r.store.SQL().
		Insert("agents").
		Columns(agentColumns[1:]...).
		Values(agent.AgentID, agent.Name, agent.OrganizationName, agent.Model,
			agent.VoiceID, agent.TwilioNumber, agent.Status, agent.Prompt,
			agent.PromptVersion, agent.AverageLatencyMs, agent.CreatedAt, agent.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building agent insert: %v", ErrDatabaseError, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: agent id %s", ErrDuplicateKey, agent.AgentID)
		}
		return fmt.Errorf("%w: creating agent: %v", ErrDatabaseError, err)
	}
	return nil
}

// UpdateAgent updates an existing agent identified by its external id.
func (r *agentRepository) UpdateAgent(ctx context.Context, executor SQLExecutor, agent *models.Agent) error {
	agent.UpdatedAt = time.Now().UTC()

	query, args, err := r.store.SQL().
		Update("agents").
		Set("name", agent.Name).
		Set("organization_name", agent.OrganizationName).
		Set("model", agent.Model).
		Set("voice_id", agent.VoiceID).
		Set("twilio_number", agent.TwilioNumber).
		Set("status", agent.Status).
		Set("prompt", agent.Prompt).
		Set("prompt_version", agent.PromptVersion).
		Set("average_latency_ms", agent.AverageLatencyMs).
		Set("updated_at", agent.UpdatedAt).
		Where(sq.Eq{"agent_id": agent.AgentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building agent update: %v", ErrDatabaseError, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating agent %s: %v", ErrDatabaseError, agent.AgentID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for agent %s: %v", ErrDatabaseError, agent.AgentID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAgent removes an agent by its external id.
func (r *agentRepository) DeleteAgent(ctx context.Context, executor SQLExecutor, agentID string) error {
	query, args, err := r.store.SQL().
		Delete("agents").
		Where(sq.Eq{"agent_id": agentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building agent delete: %v", ErrDatabaseError, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: deleting agent %s: %v", ErrDatabaseError, agentID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for agent %s: %v", ErrDatabaseError, agentID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextAgentID derives the next sequential external id (agent-N) from the
// highest numeric suffix currently stored.
func (r *agentRepository) NextAgentID(ctx context.Context) (string, error) {
	query, args, err := r.store.SQL().
		Select("agent_id").
		From("agents").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: building agent id query: %v", ErrDatabaseError, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("%w: querying agent ids: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	maxSuffix := 0
	for rows.Next() {
		var agentID string
		if err := rows.Scan(&agentID); err != nil {
			return "", fmt.Errorf("%w: scanning agent id: %v", ErrDatabaseError, err)
		}
		parts := strings.Split(agentID, "-")
		suffix, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		if suffix > maxSuffix {
			maxSuffix = suffix
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: iterating agent ids: %v", ErrDatabaseError, err)
	}
	return fmt.Sprintf("agent-%d", maxSuffix+1), nil
}
