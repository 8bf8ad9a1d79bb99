package repositories

import (
	"context"
	"fmt"
	"strings"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// CallRepository defines the interface for call-session reads and seeding.
type CallRepository interface {
	GetCalls(ctx context.Context, status, agentName *string, limit int) ([]models.CallSession, error)
	CreateCall(ctx context.Context, executor SQLExecutor, call *models.CallSession) error
}

type callRepository struct {
	store *database.Store
}

// NewCallRepository creates a new instance of CallRepository.
func NewCallRepository(store *database.Store) CallRepository {
	return &callRepository{store: store}
}

// GetCalls lists call sessions newest-first with optional status and
// agent-name filters. The agent-name match is case-insensitive.
func (r *callRepository) GetCalls(ctx context.Context, status, agentName *string, limit int) ([]models.CallSession, error) {
	q := r.store.SQL().
		Select("id", "call_id", "agent_name", "caller_number", "started_at",
			"duration_seconds", "status", "sentiment", "recording_url").
		From("call_sessions").
		OrderBy("started_at DESC", "id DESC")

	if status != nil {
		q = q.Where(sq.Eq{"status": *status})
	}
	if agentName != nil {
		q = q.Where("LOWER(agent_name) = ?", strings.ToLower(strings.TrimSpace(*agentName)))
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building calls query: %v", ErrDatabaseError, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying call sessions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	calls := []models.CallSession{}
	for rows.Next() {
		var call models.CallSession
		if err := rows.Scan(&call.ID, &call.CallID, &call.AgentName, &call.CallerNumber,
			&call.StartedAt, &call.DurationSeconds, &call.Status, &call.Sentiment,
			&call.RecordingURL); err != nil {
			return nil, fmt.Errorf("%w: scanning call session: %v", ErrDatabaseError, err)
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating call rows: %v", ErrDatabaseError, err)
	}
	return calls, nil
}

// CreateCall inserts a new call session record.
func (r *callRepository) CreateCall(ctx context.Context, executor SQLExecutor, call *models.CallSession) error {
	query, args, err := r.store.SQL().
		Insert("call_sessions").
		Columns("call_id", "agent_name", "caller_number", "started_at",
			"duration_seconds", "status", "sentiment", "recording_url").
		Values(call.CallID, call.AgentName, call.CallerNumber, call.StartedAt,
			call.DurationSeconds, call.Status, call.Sentiment, call.RecordingURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building call insert: %v", ErrDatabaseError, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: call %s", ErrDuplicateKey, call.CallID)
		}
		return fmt.Errorf("%w: creating call session: %v", ErrDatabaseError, err)
	}
	return nil
}
