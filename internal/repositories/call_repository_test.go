package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"voice_admin_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCall(callID, agentName, status string, startedAt time.Time, durationSeconds int) models.CallSession {
	return models.CallSession{
		CallID:          callID,
		AgentName:       agentName,
		CallerNumber:    "+15550199",
		StartedAt:       startedAt,
		DurationSeconds: durationSeconds,
		Status:          status,
		Sentiment:       models.SentimentNeutral,
	}
}

func TestCallRepository_CreateAndList(t *testing.T) {
	store := newTestStore(t)
	repo := NewCallRepository(store)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	older := testCall("call-1", "Receptionist", models.CallStatusCompleted, base, 120)
	newer := testCall("call-2", "Receptionist", models.CallStatusFailed, base.Add(time.Hour), 0)
	for _, call := range []*models.CallSession{&older, &newer} {
		require.NoError(t, repo.CreateCall(ctx, store.DB(), call))
	}

	calls, err := repo.GetCalls(ctx, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	// Newest first.
	assert.Equal(t, "call-2", calls[0].CallID)
	assert.Equal(t, "call-1", calls[1].CallID)
	assert.Equal(t, 120, calls[1].DurationSeconds)
}

func TestCallRepository_Filters(t *testing.T) {
	store := newTestStore(t)
	repo := NewCallRepository(store)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	a := testCall("call-1", "Receptionist", models.CallStatusCompleted, base, 60)
	b := testCall("call-2", "Scheduler", models.CallStatusCompleted, base.Add(time.Minute), 90)
	c := testCall("call-3", "Receptionist", models.CallStatusBusy, base.Add(2*time.Minute), 0)
	for _, call := range []*models.CallSession{&a, &b, &c} {
		require.NoError(t, repo.CreateCall(ctx, store.DB(), call))
	}

	status := models.CallStatusCompleted
	completed, err := repo.GetCalls(ctx, &status, nil, 10)
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	// Agent-name match is case-insensitive.
	agent := "RECEPTIONIST"
	byAgent, err := repo.GetCalls(ctx, nil, &agent, 10)
	require.NoError(t, err)
	assert.Len(t, byAgent, 2)
}

func TestCallRepository_Limit(t *testing.T) {
	store := newTestStore(t)
	repo := NewCallRepository(store)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		call := testCall(fmt.Sprintf("call-%d", i), "Receptionist", models.CallStatusCompleted, base.Add(time.Duration(i)*time.Minute), 30)
		require.NoError(t, repo.CreateCall(ctx, store.DB(), &call))
	}

	calls, err := repo.GetCalls(ctx, nil, nil, 3)
	require.NoError(t, err)
	assert.Len(t, calls, 3)
	assert.Equal(t, "call-4", calls[0].CallID)
}

func TestCallRepository_DuplicateCallID(t *testing.T) {
	store := newTestStore(t)
	repo := NewCallRepository(store)
	ctx := context.Background()

	call := testCall("call-1", "Receptionist", models.CallStatusCompleted, time.Now().UTC(), 60)
	require.NoError(t, repo.CreateCall(ctx, store.DB(), &call))

	dup := testCall("call-1", "Receptionist", models.CallStatusCompleted, time.Now().UTC(), 60)
	err := repo.CreateCall(ctx, store.DB(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
