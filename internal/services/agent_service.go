package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
)

// --- Custom Service Errors for Agents ---
var (
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentValidation = errors.New("agent data validation error")
	ErrAgentExists     = errors.New("agent id already exists")
)

// --- Agent DTOs ---

type CreateAgentRequest struct {
	Name             string `json:"name" binding:"required"`
	OrganizationName string `json:"organizationName" binding:"required"`
	Model            string `json:"model" binding:"required"`
	VoiceID          string `json:"voiceId" binding:"required"`
	TwilioNumber     string `json:"twilioNumber"`
	Status           string `json:"status"`
	Prompt           string `json:"prompt"`
	PromptVersion    string `json:"promptVersion"`
	AverageLatencyMs int    `json:"averageLatencyMs"`
}

type UpdateAgentRequest struct {
	Name             *string `json:"name"`
	OrganizationName *string `json:"organizationName"`
	Model            *string `json:"model"`
	VoiceID          *string `json:"voiceId"`
	TwilioNumber     *string `json:"twilioNumber"`
	Status           *string `json:"status"`
	Prompt           *string `json:"prompt"`
	PromptVersion    *string `json:"promptVersion"`
	AverageLatencyMs *int    `json:"averageLatencyMs"`
}

// --- AgentService Interface ---
type AgentService interface {
	GetAgents(ctx context.Context, status, organizationName *string) ([]models.Agent, error)
	CreateAgent(ctx context.Context, req CreateAgentRequest) (*models.Agent, error)
	UpdateAgent(ctx context.Context, agentID string, req UpdateAgentRequest) (*models.Agent, error)
	DeleteAgent(ctx context.Context, agentID string) (*models.Agent, error)
}

// --- agentService Implementation ---
type agentService struct {
	agentRepo repositories.AgentRepository
	db        repositories.SQLExecutor
}

// NewAgentService creates a new instance of AgentService.
func NewAgentService(agentRepo repositories.AgentRepository, db repositories.SQLExecutor) AgentService {
	return &agentService{agentRepo: agentRepo, db: db}
}

// GetAgents lists agents with optional status and organization filters.
func (s *agentService) GetAgents(ctx context.Context, status, organizationName *string) ([]models.Agent, error) {
	if status != nil && !models.IsValidAgentStatus(*status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrAgentValidation, *status)
	}

	agents, err := s.agentRepo.GetAgents(ctx, status, organizationName)
	if err != nil {
		return nil, fmt.Errorf("failed to get agents: %w", err)
	}
	return agents, nil
}

// CreateAgent assigns the next sequential agent id and stores the agent.
func (s *agentService) CreateAgent(ctx context.Context, req CreateAgentRequest) (*models.Agent, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrAgentValidation)
	}
	status := req.Status
	if status == "" {
		status = models.AgentStatusOffline
	}
	if !models.IsValidAgentStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrAgentValidation, status)
	}
	if req.AverageLatencyMs < 0 {
		return nil, fmt.Errorf("%w: average latency cannot be negative", ErrAgentValidation)
	}

	agentID, err := s.agentRepo.NextAgentID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate agent id: %w", err)
	}

	agent := &models.Agent{
		AgentID:          agentID,
		Name:             req.Name,
		OrganizationName: req.OrganizationName,
		Model:            req.Model,
		VoiceID:          req.VoiceID,
		TwilioNumber:     req.TwilioNumber,
		Status:           status,
		Prompt:           req.Prompt,
		PromptVersion:    req.PromptVersion,
		AverageLatencyMs: req.AverageLatencyMs,
	}

	if err := s.agentRepo.CreateAgent(ctx, s.db, agent); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrAgentExists
		}
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return s.agentRepo.GetAgentByAgentID(ctx, agentID)
}

// UpdateAgent applies a partial edit to an existing agent.
func (s *agentService) UpdateAgent(ctx context.Context, agentID string, req UpdateAgentRequest) (*models.Agent, error) {
	agent, err := s.agentRepo.GetAgentByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to find agent for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrAgentValidation)
		}
		agent.Name = *req.Name
	}
	if req.OrganizationName != nil {
		agent.OrganizationName = *req.OrganizationName
	}
	if req.Model != nil {
		agent.Model = *req.Model
	}
	if req.VoiceID != nil {
		agent.VoiceID = *req.VoiceID
	}
	if req.TwilioNumber != nil {
		agent.TwilioNumber = *req.TwilioNumber
	}
	if req.Status != nil {
		if !models.IsValidAgentStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrAgentValidation, *req.Status)
		}
		agent.Status = *req.Status
	}
	if req.Prompt != nil {
		agent.Prompt = *req.Prompt
	}
	if req.PromptVersion != nil {
		agent.PromptVersion = *req.PromptVersion
	}
	if req.AverageLatencyMs != nil {
		if *req.AverageLatencyMs < 0 {
			return nil, fmt.Errorf("%w: average latency cannot be negative", ErrAgentValidation)
		}
		agent.AverageLatencyMs = *req.AverageLatencyMs
	}

	if err := s.agentRepo.UpdateAgent(ctx, s.db, agent); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	return s.agentRepo.GetAgentByAgentID(ctx, agentID)
}

// DeleteAgent removes an agent and returns the deleted record.
func (s *agentService) DeleteAgent(ctx context.Context, agentID string) (*models.Agent, error) {
	agent, err := s.agentRepo.GetAgentByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to find agent for deletion: %w", err)
	}

	if err := s.agentRepo.DeleteAgent(ctx, s.db, agentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to delete agent: %w", err)
	}
	return agent, nil
}
