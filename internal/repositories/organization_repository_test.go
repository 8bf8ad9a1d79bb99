package repositories

import (
	"context"
	"testing"

	"voice_admin_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepository_CreateAndList(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrganizationRepository(store)
	ctx := context.Background()

	acme := models.Organization{
		OrgID:              "org-1",
		Name:               "Acme Dental",
		SubscriptionStatus: models.SubscriptionActive,
		ActiveAgents:       2,
		MonthlyMinutes:     1400,
	}
	bright := models.Organization{
		OrgID:              "org-2",
		Name:               "Bright Smiles",
		SubscriptionStatus: models.SubscriptionTrial,
	}
	require.NoError(t, repo.CreateOrganization(ctx, store.DB(), &acme))
	require.NoError(t, repo.CreateOrganization(ctx, store.DB(), &bright))

	organizations, err := repo.GetOrganizations(ctx, nil)
	require.NoError(t, err)
	require.Len(t, organizations, 2)
	// Ordered by name.
	assert.Equal(t, "Acme Dental", organizations[0].Name)
	assert.Equal(t, 1400, organizations[0].MonthlyMinutes)

	status := models.SubscriptionTrial
	trials, err := repo.GetOrganizations(ctx, &status)
	require.NoError(t, err)
	require.Len(t, trials, 1)
	assert.Equal(t, "org-2", trials[0].OrgID)
}

func TestOrganizationRepository_GeneratesOrgID(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrganizationRepository(store)

	org := models.Organization{Name: "No ID Yet", SubscriptionStatus: models.SubscriptionActive}
	require.NoError(t, repo.CreateOrganization(context.Background(), store.DB(), &org))
	assert.NotEmpty(t, org.OrgID)
}

func TestOrganizationRepository_DuplicateOrgID(t *testing.T) {
	store := newTestStore(t)
	repo := NewOrganizationRepository(store)
	ctx := context.Background()

	org := models.Organization{OrgID: "org-1", Name: "Acme Dental", SubscriptionStatus: models.SubscriptionActive}
	require.NoError(t, repo.CreateOrganization(ctx, store.DB(), &org))

	dup := models.Organization{OrgID: "org-1", Name: "Other", SubscriptionStatus: models.SubscriptionActive}
	err := repo.CreateOrganization(ctx, store.DB(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
