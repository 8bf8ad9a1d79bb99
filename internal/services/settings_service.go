package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
)

// --- Custom Service Errors for Settings ---
var (
	ErrSettingsNotSeeded = errors.New("platform settings have not been seeded")
)

// DefaultAuditActor is recorded when a caller submits a blank actor.
const DefaultAuditActor = "platform-admin"

// ValidationError reports every settings field that failed its format rule.
// The update performed no write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return "settings validation failed: " + strings.Join(names, ", ")
}

// --- Settings DTOs ---

// UpdateSettingsRequest is a partial settings edit plus audit attribution.
// Nil fields keep their current value.
type UpdateSettingsRequest struct {
	OpenAIAPIKey                     *string `json:"openaiApiKey"`
	DeepgramAPIKey                   *string `json:"deepgramApiKey"`
	TwilioAccountSID                 *string `json:"twilioAccountSid"`
	RimeAPIKey                       *string `json:"rimeApiKey"`
	EnableBargeInInterruption        *bool   `json:"enableBargeInInterruption"`
	PlayLatencyFillerPhraseOnTimeout *bool   `json:"playLatencyFillerPhraseOnTimeout"`
	AllowAutoRetryOnFailedCalls      *bool   `json:"allowAutoRetryOnFailedCalls"`
	AuditActor                       string  `json:"auditActor"`
	ChangeReason                     *string `json:"changeReason"`
}

// UpdateResult carries the stored snapshot plus the refreshed first history
// page so callers can render both from one round trip.
type UpdateResult struct {
	Settings *models.PlatformSettings `json:"settings"`
	History  *HistoryPage             `json:"history"`
}

// --- SettingsService Interface ---

// SettingsService orchestrates validation, the snapshot update with its audit
// entry, and the post-update history refresh.
type SettingsService interface {
	GetSettings(ctx context.Context) (*models.PlatformSettings, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest, activeFilter repositories.HistoryFilter) (*UpdateResult, error)
}

// --- settingsService Implementation ---
type settingsService struct {
	settingsRepo repositories.SettingsRepository
	historySvc   HistoryService
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(settingsRepo repositories.SettingsRepository, historySvc HistoryService) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, historySvc: historySvc}
}

// GetSettings returns the current settings snapshot.
func (s *settingsService) GetSettings(ctx context.Context) (*models.PlatformSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSettingsNotSeeded
		}
		return nil, fmt.Errorf("failed to get platform settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges the edit over the current snapshot, validates every
// credential field, performs the serialized update-plus-audit write, then
// refreshes the first history page under the caller's active filter. On
// validation failure nothing is written and every failing field is reported.
func (s *settingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest, activeFilter repositories.HistoryFilter) (*UpdateResult, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	candidate := mergeSettings(current, req)

	if failures := ValidateSettings(candidate); len(failures) > 0 {
		return nil, &ValidationError{Fields: failures}
	}

	actor := strings.TrimSpace(req.AuditActor)
	if actor == "" {
		actor = DefaultAuditActor
	}
	reason := normalizeReason(req.ChangeReason)

	stored, _, err := s.settingsRepo.UpdateSettings(ctx, candidate, actor, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to update platform settings: %w", err)
	}

	history, err := s.historySvc.Query(ctx, HistoryQuery{Filter: activeFilter, Limit: DefaultHistoryPageSize, Offset: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh settings history: %w", err)
	}

	return &UpdateResult{Settings: stored, History: history}, nil
}

func mergeSettings(current *models.PlatformSettings, req UpdateSettingsRequest) *models.PlatformSettings {
	candidate := *current
	if req.OpenAIAPIKey != nil {
		candidate.OpenAIAPIKey = *req.OpenAIAPIKey
	}
	if req.DeepgramAPIKey != nil {
		candidate.DeepgramAPIKey = *req.DeepgramAPIKey
	}
	if req.TwilioAccountSID != nil {
		candidate.TwilioAccountSID = *req.TwilioAccountSID
	}
	if req.RimeAPIKey != nil {
		candidate.RimeAPIKey = *req.RimeAPIKey
	}
	if req.EnableBargeInInterruption != nil {
		candidate.EnableBargeInInterruption = *req.EnableBargeInInterruption
	}
	if req.PlayLatencyFillerPhraseOnTimeout != nil {
		candidate.PlayLatencyFillerPhraseOnTimeout = *req.PlayLatencyFillerPhraseOnTimeout
	}
	if req.AllowAutoRetryOnFailedCalls != nil {
		candidate.AllowAutoRetryOnFailedCalls = *req.AllowAutoRetryOnFailedCalls
	}
	return &candidate
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
