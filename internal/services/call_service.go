package services

import (
	"context"
	"errors"
	"fmt"

	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
)

var (
	ErrCallValidation = errors.New("call query validation error")
)

const (
	DefaultCallPageSize = 50
	MaxCallPageSize     = 200
)

// CallService lists call sessions for the log screen.
type CallService interface {
	GetCalls(ctx context.Context, status, agentName *string, limit int) ([]models.CallSession, error)
}

type callService struct {
	callRepo repositories.CallRepository
}

// NewCallService creates a new instance of CallService.
func NewCallService(callRepo repositories.CallRepository) CallService {
	return &callService{callRepo: callRepo}
}

func (s *callService) GetCalls(ctx context.Context, status, agentName *string, limit int) ([]models.CallSession, error) {
	if status != nil && !models.IsValidCallStatus(*status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrCallValidation, *status)
	}
	if limit <= 0 {
		limit = DefaultCallPageSize
	}
	if limit > MaxCallPageSize {
		limit = MaxCallPageSize
	}

	calls, err := s.callRepo.GetCalls(ctx, status, agentName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get call sessions: %w", err)
	}
	return calls, nil
}
