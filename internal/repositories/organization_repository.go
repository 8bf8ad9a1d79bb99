package repositories

import (
	"context"
	"fmt"
	"time"

	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// OrganizationRepository defines the interface for organization reads and
// seeding.
type OrganizationRepository interface {
	GetOrganizations(ctx context.Context, subscriptionStatus *string) ([]models.Organization, error)
	CreateOrganization(ctx context.Context, executor SQLExecutor, org *models.Organization) error
}

type organizationRepository struct {
	store *database.Store
}

// NewOrganizationRepository creates a new instance of OrganizationRepository.
func NewOrganizationRepository(store *database.Store) OrganizationRepository {
	return &organizationRepository{store: store}
}

// GetOrganizations lists organizations, optionally filtered by subscription
// status.
func (r *organizationRepository) GetOrganizations(ctx context.Context, subscriptionStatus *string) ([]models.Organization, error) {
	q := r.store.SQL().
		Select("id", "org_id", "name", "subscription_status", "active_agents", "monthly_minutes").
		From("organizations").
		OrderBy("name ASC")

	if subscriptionStatus != nil {
		q = q.Where(sq.Eq{"subscription_status": *subscriptionStatus})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building organizations query: %v", ErrDatabaseError, err)
	}

	rows, err := r.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying organizations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	organizations := []models.Organization{}
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(&org.ID, &org.OrgID, &org.Name, &org.SubscriptionStatus,
			&org.ActiveAgents, &org.MonthlyMinutes); err != nil {
			return nil, fmt.Errorf("%w: scanning organization: %v", ErrDatabaseError, err)
		}
		organizations = append(organizations, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating organization rows: %v", ErrDatabaseError, err)
	}
	return organizations, nil
}

// CreateOrganization inserts a new organization.
func (r *organizationRepository) CreateOrganization(ctx context.Context, executor SQLExecutor, org *models.Organization) error {
	if org.OrgID == "" {
		org.OrgID = fmt.Sprintf("org-%d", time.Now().UnixNano())
	}

	query, args, err := r.store.SQL().
		Insert("organizations").
		Columns("org_id", "name", "subscription_status", "active_agents", "monthly_minutes").
		Values(org.OrgID, org.Name, org.SubscriptionStatus, org.ActiveAgents, org.MonthlyMinutes).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: building organization insert: %v", ErrDatabaseError, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: organization %s", ErrDuplicateKey, org.OrgID)
		}
		return fmt.Errorf("%w: creating organization: %v", ErrDatabaseError, err)
	}
	return nil
}
