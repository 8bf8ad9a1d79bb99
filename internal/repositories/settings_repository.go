package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// The current settings snapshot is a singleton row with this id.
const settingsRowID = 1

// SettingsRepository owns the current platform settings snapshot. Updates are
// serialized and append an audit entry in the same transaction, so readers
// never observe a settings change without its audit entry or vice versa.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*models.PlatformSettings, error)
	UpdateSettings(ctx context.Context, candidate *models.PlatformSettings, actor string, reason *string) (*models.PlatformSettings, *models.SettingsAuditEntry, error)
	SeedSettings(ctx context.Context, defaults *models.PlatformSettings) error
}

type settingsRepository struct {
	store     *database.Store
	auditRepo AuditLogRepository

	// Serializes updates so the prior-snapshot diff always reads a
	// consistent snapshot.
	mu sync.Mutex
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(store *database.Store, auditRepo AuditLogRepository) SettingsRepository {
	return &settingsRepository{store: store, auditRepo: auditRepo}
}

var settingsColumns = []string{
	"openai_api_key",
	"deepgram_api_key",
	"twilio_account_sid",
	"rime_api_key",
	"enable_barge_in_interruption",
	"play_latency_filler_phrase_on_timeout",
	"allow_auto_retry_on_failed_calls",
	"updated_at",
}

// GetSettings retrieves the current settings snapshot.
func (r *settingsRepository) GetSettings(ctx context.Context) (*models.PlatformSettings, error) {
	return r.getSettings(ctx, r.store.DB())
}

func (r *settingsRepository) getSettings(ctx context.Context, executor SQLExecutor) (*models.PlatformSettings, error) {
	query, args, err := r.store.SQL().
		Select(settingsColumns...).
		From("platform_settings").
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building settings query: %v", ErrDatabaseError, err)
	}

	settings := &models.PlatformSettings{}
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.OpenAIAPIKey, &settings.DeepgramAPIKey, &settings.TwilioAccountSID,
		&settings.RimeAPIKey, &settings.EnableBargeInInterruption,
		&settings.PlayLatencyFillerPhraseOnTimeout, &settings.AllowAutoRetryOnFailedCalls,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting platform settings: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

// UpdateSettings replaces the current snapshot wholesale and appends the audit
// entry atomically. The changed-field list is the diff between the prior and
// candidate snapshot; an unchanged candidate still appends an entry with an
// empty list.
func (r *settingsRepository) UpdateSettings(ctx context.Context, candidate *models.PlatformSettings, actor string, reason *string) (*models.PlatformSettings, *models.SettingsAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: beginning settings update transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	prev, err := r.getSettings(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	changedFields := models.DiffSettings(prev, candidate)
	now := time.Now().UTC()

	query, args, err := r.store.SQL().
		Update("platform_settings").
		Set("openai_api_key", candidate.OpenAIAPIKey).
		Set("deepgram_api_key", candidate.DeepgramAPIKey).
		Set("twilio_account_sid", candidate.TwilioAccountSID).
		Set("rime_api_key", candidate.RimeAPIKey).
		Set("enable_barge_in_interruption", candidate.EnableBargeInInterruption).
		Set("play_latency_filler_phrase_on_timeout", candidate.PlayLatencyFillerPhraseOnTimeout).
		Set("allow_auto_retry_on_failed_calls", candidate.AllowAutoRetryOnFailedCalls).
		Set("updated_at", now).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: building settings update: %v", ErrDatabaseError, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, nil, fmt.Errorf("%w: updating platform settings: %v", ErrDatabaseError, err)
	}

	entry := &models.SettingsAuditEntry{
		ID:            uuid.NewString(),
		ChangedAt:     now,
		Actor:         actor,
		Reason:        reason,
		ChangedFields: changedFields,
	}
	if err := r.auditRepo.Append(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%w: committing settings update: %v", ErrDatabaseError, err)
	}

	stored := *candidate
	stored.UpdatedAt = now
	return &stored, entry, nil
}

// SeedSettings inserts the default snapshot when no settings row exists yet.
func (r *settingsRepository) SeedSettings(ctx context.Context, defaults *models.PlatformSettings) error {
	_, err := r.GetSettings(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	now := time.Now().UTC()
	query, args, err := r.store.SQL().
		Insert("platform_settings").
		Columns(append([]string{"id"}, settingsColumns...)...).
		Values(settingsRowID,
			defaults.OpenAIAPIKey, defaults.DeepgramAPIKey, defaults.TwilioAccountSID,
			defaults.RimeAPIKey, defaults.EnableBargeInInterruption,
			defaults.PlayLatencyFillerPhraseOnTimeout, defaults.AllowAutoRetryOnFailedCalls,
			now).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building settings seed: %v", ErrDatabaseError, err)
	}
	if _, err := r.store.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: seeding platform settings: %v", ErrDatabaseError, err)
	}
	return nil
}
