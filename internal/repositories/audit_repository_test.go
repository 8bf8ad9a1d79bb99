package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditRepoForTest(t *testing.T) (AuditLogRepository, *database.Store) {
	t.Helper()
	store := newTestStore(t)
	return NewAuditLogRepository(store), store
}

func appendEntry(t *testing.T, repo AuditLogRepository, store *database.Store, changedAt time.Time, actor string, fields ...string) models.SettingsAuditEntry {
	t.Helper()
	entry := models.SettingsAuditEntry{
		ID:            uuid.NewString(),
		ChangedAt:     changedAt,
		Actor:         actor,
		ChangedFields: fields,
	}
	require.NoError(t, repo.Append(context.Background(), store.DB(), &entry))
	return entry
}

func entryIDs(entries []models.SettingsAuditEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestAuditRepository_ListHistory_NewestFirst(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	oldest := appendEntry(t, repo, store, base.Add(-2*time.Hour), "platform-admin", models.FieldOpenAIAPIKey)
	middle := appendEntry(t, repo, store, base.Add(-time.Hour), "platform-admin", models.FieldRimeAPIKey)
	newest := appendEntry(t, repo, store, base, "platform-admin", models.FieldDeepgramAPIKey)

	entries, err := repo.ListHistory(context.Background(), HistoryFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, entryIDs(entries))
}

func TestAuditRepository_ListHistory_TieBreakByInsertionOrder(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := appendEntry(t, repo, store, at, "platform-admin", models.FieldOpenAIAPIKey)
	second := appendEntry(t, repo, store, at, "platform-admin", models.FieldRimeAPIKey)

	entries, err := repo.ListHistory(context.Background(), HistoryFilter{}, 10, 0)
	require.NoError(t, err)
	// Equal timestamps: the later insertion wins.
	assert.Equal(t, []string{second.ID, first.ID}, entryIDs(entries))
}

func TestAuditRepository_ListHistory_PreservesChangedFieldOrder(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entry := appendEntry(t, repo, store, at, "platform-admin",
		models.FieldOpenAIAPIKey, models.FieldTwilioAccountSID, models.FieldAllowAutoRetryOnFailedCalls)

	entries, err := repo.ListHistory(context.Background(), HistoryFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ChangedFields, entries[0].ChangedFields)
}

func TestAuditRepository_ListHistory_FilterByActor(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base, "Jordan Reyes", models.FieldOpenAIAPIKey)
	appendEntry(t, repo, store, base.Add(time.Minute), "platform-admin", models.FieldRimeAPIKey)
	wanted := appendEntry(t, repo, store, base.Add(2*time.Minute), "Jordan Reyes", models.FieldDeepgramAPIKey)

	actor := "Jordan Reyes"
	entries, err := repo.ListHistory(context.Background(), HistoryFilter{Actor: &actor}, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, wanted.ID, entries[0].ID)
	for _, e := range entries {
		assert.Equal(t, "Jordan Reyes", e.Actor)
	}
}

func TestAuditRepository_ListHistory_FilterByChangedField(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base, "platform-admin", models.FieldRimeAPIKey)
	multi := appendEntry(t, repo, store, base.Add(time.Minute), "platform-admin",
		models.FieldOpenAIAPIKey, models.FieldRimeAPIKey)
	only := appendEntry(t, repo, store, base.Add(2*time.Minute), "platform-admin", models.FieldOpenAIAPIKey)

	field := models.FieldOpenAIAPIKey
	entries, err := repo.ListHistory(context.Background(), HistoryFilter{ChangedField: &field}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{only.ID, multi.ID}, entryIDs(entries))
	// Matching entries keep their full changed-field list.
	assert.Equal(t, multi.ChangedFields, entries[1].ChangedFields)
}

func TestAuditRepository_ListHistory_FilterByDateRange(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base.Add(-time.Hour), "platform-admin", models.FieldOpenAIAPIKey)
	inRange := appendEntry(t, repo, store, base.Add(12*time.Hour), "platform-admin", models.FieldRimeAPIKey)
	boundary := appendEntry(t, repo, store, base, "platform-admin", models.FieldDeepgramAPIKey)
	appendEntry(t, repo, store, base.Add(25*time.Hour), "platform-admin", models.FieldTwilioAccountSID)

	from := base
	to := base.Add(24*time.Hour - time.Millisecond)
	entries, err := repo.ListHistory(context.Background(), HistoryFilter{From: &from, To: &to}, 10, 0)
	require.NoError(t, err)
	// Bounds are inclusive.
	assert.Equal(t, []string{inRange.ID, boundary.ID}, entryIDs(entries))
}

func TestAuditRepository_ListHistory_Pagination(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	total := 7
	ids := make([]string, total)
	for i := 0; i < total; i++ {
		entry := appendEntry(t, repo, store, base.Add(time.Duration(i)*time.Minute), "platform-admin", models.FieldOpenAIAPIKey)
		ids[total-1-i] = entry.ID // newest-first expectation
	}

	var paged []string
	for offset := 0; offset < total; offset += 3 {
		entries, err := repo.ListHistory(context.Background(), HistoryFilter{}, 3, offset)
		require.NoError(t, err)
		paged = append(paged, entryIDs(entries)...)
	}
	// Pages are disjoint and contiguous.
	assert.Equal(t, ids, paged)
}

func TestAuditRepository_Append_DuplicateID(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entry := models.SettingsAuditEntry{ID: "fixed-id", ChangedAt: at, Actor: "platform-admin"}
	require.NoError(t, repo.Append(context.Background(), store.DB(), &entry))

	dup := models.SettingsAuditEntry{ID: "fixed-id", ChangedAt: at, Actor: "platform-admin"}
	err := repo.Append(context.Background(), store.DB(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAuditRepository_Metadata_Unfiltered(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base, "platform-admin", models.FieldOpenAIAPIKey)
	appendEntry(t, repo, store, base.Add(time.Minute), "Jordan Reyes", models.FieldRimeAPIKey, models.FieldOpenAIAPIKey)
	appendEntry(t, repo, store, base.Add(2*time.Minute), "Jordan Reyes")

	meta, err := repo.Metadata(context.Background(), HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jordan Reyes", "platform-admin"}, meta.Actors)
	assert.Equal(t, []string{models.FieldOpenAIAPIKey, models.FieldRimeAPIKey}, meta.ChangedFields)
	assert.Equal(t, 3, meta.TotalEntries)
}

func TestAuditRepository_Metadata_ActorListIgnoresActorFilter(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base, "platform-admin", models.FieldOpenAIAPIKey)
	appendEntry(t, repo, store, base.Add(time.Minute), "Jordan Reyes", models.FieldRimeAPIKey)

	actor := "Jordan Reyes"
	meta, err := repo.Metadata(context.Background(), HistoryFilter{Actor: &actor})
	require.NoError(t, err)
	// The dropdown keeps every actor selectable while the count narrows.
	assert.Equal(t, []string{"Jordan Reyes", "platform-admin"}, meta.Actors)
	assert.Equal(t, []string{models.FieldRimeAPIKey}, meta.ChangedFields)
	assert.Equal(t, 1, meta.TotalEntries)
}

func TestAuditRepository_Metadata_FieldListIgnoresFieldFilter(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base, "platform-admin", models.FieldOpenAIAPIKey)
	appendEntry(t, repo, store, base.Add(time.Minute), "Jordan Reyes", models.FieldRimeAPIKey)

	field := models.FieldRimeAPIKey
	meta, err := repo.Metadata(context.Background(), HistoryFilter{ChangedField: &field})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jordan Reyes"}, meta.Actors)
	assert.Equal(t, []string{models.FieldOpenAIAPIKey, models.FieldRimeAPIKey}, meta.ChangedFields)
	assert.Equal(t, 1, meta.TotalEntries)
}

func TestAuditRepository_Metadata_DateRangeBoundsBothLists(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	appendEntry(t, repo, store, base.Add(-time.Hour), "Old Actor", models.FieldTwilioAccountSID)
	appendEntry(t, repo, store, base, "platform-admin", models.FieldOpenAIAPIKey)

	from := base
	meta, err := repo.Metadata(context.Background(), HistoryFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, []string{"platform-admin"}, meta.Actors)
	assert.Equal(t, []string{models.FieldOpenAIAPIKey}, meta.ChangedFields)
	assert.Equal(t, 1, meta.TotalEntries)
}

func TestAuditRepository_Metadata_EmptyLog(t *testing.T) {
	repo, _ := newAuditRepoForTest(t)

	meta, err := repo.Metadata(context.Background(), HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, meta.Actors)
	assert.Equal(t, []string{}, meta.ChangedFields)
	assert.Zero(t, meta.TotalEntries)
}

func TestAuditRepository_ListHistory_ManyEntriesProbe(t *testing.T) {
	repo, store := newAuditRepoForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 21; i++ {
		appendEntry(t, repo, store, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("actor-%d", i%3), models.FieldOpenAIAPIKey)
	}

	entries, err := repo.ListHistory(context.Background(), HistoryFilter{}, 21, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 21)
}
