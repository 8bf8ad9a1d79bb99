package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// HistoryFilter narrows which audit entries are returned. Nil members are
// ignored; From/To bound changed_at inclusively.
type HistoryFilter struct {
	Actor        *string
	ChangedField *string
	From         *time.Time
	To           *time.Time
}

// AuditLogRepository owns the append-only settings audit log. Entries are
// immutable once appended and listed newest-first (changed_at, insertion
// order as tie-break).
type AuditLogRepository interface {
	Append(ctx context.Context, executor SQLExecutor, entry *models.SettingsAuditEntry) error
	ListHistory(ctx context.Context, filter HistoryFilter, limit, offset int) ([]models.SettingsAuditEntry, error)
	Metadata(ctx context.Context, filter HistoryFilter) (*models.SettingsHistoryMeta, error)
}

type auditLogRepository struct {
	store *database.Store
}

// NewAuditLogRepository creates a new instance of AuditLogRepository.
func NewAuditLogRepository(store *database.Store) AuditLogRepository {
	return &auditLogRepository{store: store}
}

// Append stores an audit entry and its changed-field rows. The executor lets
// the settings repository run the append inside its update transaction.
func (r *auditLogRepository) Append(ctx context.Context, executor SQLExecutor, entry *models.SettingsAuditEntry) error {
	query, args, err := r.store.SQL().
		Insert("settings_audit_log").
		Columns("id", "changed_at", "actor", "reason").
		Values(entry.ID, entry.ChangedAt, entry.Actor, entry.Reason).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building audit insert: %v", ErrDatabaseError, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: audit entry %s", ErrDuplicateKey, entry.ID)
		}
		return fmt.Errorf("%w: appending audit entry: %v", ErrDatabaseError, err)
	}

	if len(entry.ChangedFields) == 0 {
		return nil
	}

	insert := r.store.SQL().
		Insert("settings_audit_fields").
		Columns("entry_id", "field_name", "ord")
	for i, field := range entry.ChangedFields {
		insert = insert.Values(entry.ID, field, i)
	}
	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: building audit fields insert: %v", ErrDatabaseError, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: appending audit entry fields: %v", ErrDatabaseError, err)
	}
	return nil
}

// ListHistory returns filtered entries newest-first, paginated. Callers probe
// for a next page by asking for one row more than they intend to show.
func (r *auditLogRepository) ListHistory(ctx context.Context, filter HistoryFilter, limit, offset int) ([]models.SettingsAuditEntry, error) {
	q := r.store.SQL().
		Select("e.id", "e.changed_at", "e.actor", "e.reason").
		From("settings_audit_log e").
		OrderBy("e.changed_at DESC", "e.seq DESC")

	q = applyEntryFilters(q, filter, true, true)

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building history query: %v", ErrDatabaseError, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying settings history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.SettingsAuditEntry{}
	for rows.Next() {
		var entry models.SettingsAuditEntry
		var reason sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ChangedAt, &entry.Actor, &reason); err != nil {
			return nil, fmt.Errorf("%w: scanning audit entry: %v", ErrDatabaseError, err)
		}
		if reason.Valid {
			entry.Reason = &reason.String
		}
		entry.ChangedFields = []string{}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating audit entries: %v", ErrDatabaseError, err)
	}

	if err := r.loadChangedFields(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditLogRepository) loadChangedFields(ctx context.Context, entries []models.SettingsAuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	index := make(map[string]int, len(entries))
	for i, entry := range entries {
		ids = append(ids, entry.ID)
		index[entry.ID] = i
	}

	query, args, err := r.store.SQL().
		Select("entry_id", "field_name").
		From("settings_audit_fields").
		Where(sq.Eq{"entry_id": ids}).
		OrderBy("entry_id", "ord").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building audit fields query: %v", ErrDatabaseError, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: querying audit entry fields: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, fieldName string
		if err := rows.Scan(&entryID, &fieldName); err != nil {
			return fmt.Errorf("%w: scanning audit entry field: %v", ErrDatabaseError, err)
		}
		if i, ok := index[entryID]; ok {
			entries[i].ChangedFields = append(entries[i].ChangedFields, fieldName)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating audit entry fields: %v", ErrDatabaseError, err)
	}
	return nil
}

// Metadata returns the distinct actors and changed-field names across entries
// matching the filter, plus the matching entry count. The actor set is
// computed ignoring the actor filter, and the field set ignoring the field
// filter, so filter-option lists never collapse to the selected value.
func (r *auditLogRepository) Metadata(ctx context.Context, filter HistoryFilter) (*models.SettingsHistoryMeta, error) {
	meta := &models.SettingsHistoryMeta{Actors: []string{}, ChangedFields: []string{}}

	q := applyEntryFilters(r.store.SQL().
		Select("DISTINCT e.actor").
		From("settings_audit_log e").
		OrderBy("e.actor"), filter, false, true)
	if err := r.collectStrings(ctx, q, &meta.Actors); err != nil {
		return nil, err
	}

	q = applyEntryFilters(r.store.SQL().
		Select("DISTINCT f.field_name").
		From("settings_audit_fields f").
		Join("settings_audit_log e ON e.id = f.entry_id").
		OrderBy("f.field_name"), filter, true, false)
	if err := r.collectStrings(ctx, q, &meta.ChangedFields); err != nil {
		return nil, err
	}

	q = applyEntryFilters(r.store.SQL().
		Select("COUNT(*)").
		From("settings_audit_log e"), filter, true, true)
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building history count query: %v", ErrDatabaseError, err)
	}
	if err := r.store.DB().QueryRowContext(ctx, query, args...).Scan(&meta.TotalEntries); err != nil {
		return nil, fmt.Errorf("%w: counting audit entries: %v", ErrDatabaseError, err)
	}

	return meta, nil
}

func (r *auditLogRepository) collectStrings(ctx context.Context, q sq.SelectBuilder, out *[]string) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%w: building history metadata query: %v", ErrDatabaseError, err)
	}
	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: querying history metadata: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return fmt.Errorf("%w: scanning history metadata: %v", ErrDatabaseError, err)
		}
		*out = append(*out, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating history metadata: %v", ErrDatabaseError, err)
	}
	return nil
}

// applyEntryFilters adds filter conditions against the aliased
// settings_audit_log table "e". The actor and changed-field conditions can be
// disabled independently for the metadata option lists.
func applyEntryFilters(q sq.SelectBuilder, filter HistoryFilter, withActor, withField bool) sq.SelectBuilder {
	if withActor && filter.Actor != nil {
		q = q.Where(sq.Eq{"e.actor": *filter.Actor})
	}
	if withField && filter.ChangedField != nil {
		q = q.Where("EXISTS (SELECT 1 FROM settings_audit_fields cf WHERE cf.entry_id = e.id AND cf.field_name = ?)", *filter.ChangedField)
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"e.changed_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"e.changed_at": *filter.To})
	}
	return q
}
