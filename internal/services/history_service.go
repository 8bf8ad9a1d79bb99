package services

import (
	"context"
	"errors"
	"fmt"

	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
)

// --- Custom Service Errors for History ---
var (
	// ErrInvalidDateRange marks a history query whose fromDate lies after its
	// toDate. Distinct from an empty result: the query is rejected, not run.
	ErrInvalidDateRange = errors.New("fromDate must not be after toDate")
)

const (
	DefaultHistoryPageSize = 20
	MaxHistoryPageSize     = 100
)

// HistoryQuery combines the audit-log filter with pagination.
type HistoryQuery struct {
	Filter repositories.HistoryFilter
	Limit  int
	Offset int
}

// HistoryPage is one page of the filtered, newest-first audit log.
type HistoryPage struct {
	Entries     []models.SettingsAuditEntry `json:"entries"`
	HasNextPage bool                        `json:"hasNextPage"`
}

// --- HistoryService Interface ---

// HistoryService derives filtered, paginated views of the audit log. It is
// stateless and never mutates the log.
type HistoryService interface {
	Query(ctx context.Context, query HistoryQuery) (*HistoryPage, error)
	Metadata(ctx context.Context, filter repositories.HistoryFilter) (*models.SettingsHistoryMeta, error)
}

// --- historyService Implementation ---
type historyService struct {
	auditRepo repositories.AuditLogRepository
}

// NewHistoryService creates a new instance of HistoryService.
func NewHistoryService(auditRepo repositories.AuditLogRepository) HistoryService {
	return &historyService{auditRepo: auditRepo}
}

// Query returns one page of matching entries, probing one row past the page
// size to detect whether a next page exists.
func (s *historyService) Query(ctx context.Context, query HistoryQuery) (*HistoryPage, error) {
	if err := checkDateRange(query.Filter); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultHistoryPageSize
	}
	if limit > MaxHistoryPageSize {
		limit = MaxHistoryPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.auditRepo.ListHistory(ctx, query.Filter, limit+1, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings history: %w", err)
	}

	hasNextPage := len(entries) > limit
	if hasNextPage {
		entries = entries[:limit]
	}

	return &HistoryPage{Entries: entries, HasNextPage: hasNextPage}, nil
}

// Metadata returns the filter-option lists and matching entry count for the
// given filter. The actor list ignores the actor filter and the field list
// ignores the field filter, so narrowing one dropdown never empties the other.
func (s *historyService) Metadata(ctx context.Context, filter repositories.HistoryFilter) (*models.SettingsHistoryMeta, error) {
	if err := checkDateRange(filter); err != nil {
		return nil, err
	}

	meta, err := s.auditRepo.Metadata(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute settings history metadata: %w", err)
	}
	return meta, nil
}

func checkDateRange(filter repositories.HistoryFilter) error {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return ErrInvalidDateRange
	}
	return nil
}
