package repositories

import (
	"context"
	"testing"

	"voice_admin_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAgent(agentID, name, org, status string) models.Agent {
	return models.Agent{
		AgentID:          agentID,
		Name:             name,
		OrganizationName: org,
		Model:            "gpt-4o-mini",
		VoiceID:          "marsh",
		TwilioNumber:     "+15550100",
		Status:           status,
		AverageLatencyMs: 420,
	}
}

func TestAgentRepository_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)
	ctx := context.Background()

	agent := testAgent("agent-1", "Receptionist", "Acme Dental", models.AgentStatusActive)
	require.NoError(t, repo.CreateAgent(ctx, store.DB(), &agent))
	assert.False(t, agent.CreatedAt.IsZero())

	got, err := repo.GetAgentByAgentID(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "Receptionist", got.Name)
	assert.Equal(t, "Acme Dental", got.OrganizationName)
	assert.Equal(t, 420, got.AverageLatencyMs)
}

func TestAgentRepository_CreateDuplicateID(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)
	ctx := context.Background()

	first := testAgent("agent-1", "Receptionist", "Acme Dental", models.AgentStatusActive)
	require.NoError(t, repo.CreateAgent(ctx, store.DB(), &first))

	dup := testAgent("agent-1", "Other", "Acme Dental", models.AgentStatusOffline)
	err := repo.CreateAgent(ctx, store.DB(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAgentRepository_GetAgents_Filters(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)
	ctx := context.Background()

	a := testAgent("agent-1", "Receptionist", "Acme Dental", models.AgentStatusActive)
	b := testAgent("agent-2", "Scheduler", "Acme Dental", models.AgentStatusOffline)
	c := testAgent("agent-3", "Intake", "Bright Smiles", models.AgentStatusActive)
	for _, agent := range []*models.Agent{&a, &b, &c} {
		require.NoError(t, repo.CreateAgent(ctx, store.DB(), agent))
	}

	all, err := repo.GetAgents(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := models.AgentStatusActive
	active, err := repo.GetAgents(ctx, &status, nil)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	// Organization match is case-insensitive.
	org := "ACME DENTAL"
	acme, err := repo.GetAgents(ctx, nil, &org)
	require.NoError(t, err)
	assert.Len(t, acme, 2)
}

func TestAgentRepository_UpdateAgent(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)
	ctx := context.Background()

	agent := testAgent("agent-1", "Receptionist", "Acme Dental", models.AgentStatusActive)
	require.NoError(t, repo.CreateAgent(ctx, store.DB(), &agent))

	agent.Name = "Front Desk"
	agent.Status = models.AgentStatusError
	require.NoError(t, repo.UpdateAgent(ctx, store.DB(), &agent))

	got, err := repo.GetAgentByAgentID(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "Front Desk", got.Name)
	assert.Equal(t, models.AgentStatusError, got.Status)
}

func TestAgentRepository_UpdateMissingAgent(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)

	missing := testAgent("agent-404", "Ghost", "Nowhere", models.AgentStatusOffline)
	err := repo.UpdateAgent(context.Background(), store.DB(), &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgentRepository_DeleteAgent(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)
	ctx := context.Background()

	agent := testAgent("agent-1", "Receptionist", "Acme Dental", models.AgentStatusActive)
	require.NoError(t, repo.CreateAgent(ctx, store.DB(), &agent))

	require.NoError(t, repo.DeleteAgent(ctx, store.DB(), "agent-1"))

	_, err := repo.GetAgentByAgentID(ctx, "agent-1")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.DeleteAgent(ctx, store.DB(), "agent-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgentRepository_NextAgentID(t *testing.T) {
	store := newTestStore(t)
	repo := NewAgentRepository(store)
	ctx := context.Background()

	id, err := repo.NextAgentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", id)

	agent := testAgent("agent-7", "Receptionist", "Acme Dental", models.AgentStatusActive)
	require.NoError(t, repo.CreateAgent(ctx, store.DB(), &agent))

	id, err = repo.NextAgentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agent-8", id)
}
