package services

import (
	"context"
	"errors"
	"fmt"

	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
)

var (
	ErrOrganizationValidation = errors.New("organization data validation error")
)

// OrganizationService lists client organizations.
type OrganizationService interface {
	GetOrganizations(ctx context.Context, subscriptionStatus *string) ([]models.Organization, error)
}

type organizationService struct {
	orgRepo repositories.OrganizationRepository
}

// NewOrganizationService creates a new instance of OrganizationService.
func NewOrganizationService(orgRepo repositories.OrganizationRepository) OrganizationService {
	return &organizationService{orgRepo: orgRepo}
}

func (s *organizationService) GetOrganizations(ctx context.Context, subscriptionStatus *string) ([]models.Organization, error) {
	if subscriptionStatus != nil && !models.IsValidSubscriptionStatus(*subscriptionStatus) {
		return nil, fmt.Errorf("%w: unknown subscription status %q", ErrOrganizationValidation, *subscriptionStatus)
	}

	organizations, err := s.orgRepo.GetOrganizations(ctx, subscriptionStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations: %w", err)
	}
	return organizations, nil
}
