package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"voice_admin_backend/internal/models"
	"voice_admin_backend/internal/repositories"
)

const (
	usageWindowDays    = 7
	recentSessionCount = 5
	recentSessionPool  = 200
)

// DashboardService aggregates platform-wide numbers for the overview page.
type DashboardService interface {
	GetOverview(ctx context.Context) (*models.DashboardOverview, error)
	GetUsage(ctx context.Context) ([]models.UsagePoint, error)
}

type dashboardService struct {
	orgRepo   repositories.OrganizationRepository
	agentRepo repositories.AgentRepository
	callRepo  repositories.CallRepository
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(orgRepo repositories.OrganizationRepository, agentRepo repositories.AgentRepository, callRepo repositories.CallRepository) DashboardService {
	return &dashboardService{orgRepo: orgRepo, agentRepo: agentRepo, callRepo: callRepo}
}

// GetOverview computes the KPI block, the recent usage series and the latest
// sessions in one call.
func (s *dashboardService) GetOverview(ctx context.Context) (*models.DashboardOverview, error) {
	organizations, err := s.orgRepo.GetOrganizations(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load organizations for dashboard: %w", err)
	}
	agents, err := s.agentRepo.GetAgents(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load agents for dashboard: %w", err)
	}
	calls, err := s.callRepo.GetCalls(ctx, nil, nil, recentSessionPool)
	if err != nil {
		return nil, fmt.Errorf("failed to load call sessions for dashboard: %w", err)
	}

	return &models.DashboardOverview{
		Kpi:            buildKpi(organizations, agents),
		UsageByDay:     usageByDay(calls),
		RecentSessions: recentSessions(calls, organizations),
	}, nil
}

// GetUsage returns the usage series alone.
func (s *dashboardService) GetUsage(ctx context.Context) ([]models.UsagePoint, error) {
	calls, err := s.callRepo.GetCalls(ctx, nil, nil, recentSessionPool)
	if err != nil {
		return nil, fmt.Errorf("failed to load call sessions for usage: %w", err)
	}
	return usageByDay(calls), nil
}

func buildKpi(organizations []models.Organization, agents []models.Agent) models.DashboardKpi {
	totalMinutes := 0
	for _, org := range organizations {
		totalMinutes += org.MonthlyMinutes
	}

	activeAgents := 0
	latencySum := 0
	healthy := true
	for _, agent := range agents {
		if agent.Status == models.AgentStatusActive {
			activeAgents++
		}
		if agent.Status == models.AgentStatusError {
			healthy = false
		}
		latencySum += agent.AverageLatencyMs
	}

	averageLatency := 0
	if len(agents) > 0 {
		averageLatency = (latencySum + len(agents)/2) / len(agents)
	}

	return models.DashboardKpi{
		TotalClients:    len(organizations),
		ActiveAgents:    activeAgents,
		TotalMinutes:    totalMinutes,
		SystemLatencyMs: averageLatency,
		Healthy:         healthy,
	}
}

func usageByDay(calls []models.CallSession) []models.UsagePoint {
	secondsByDay := map[string]int{}
	for _, call := range calls {
		day := call.StartedAt.UTC().Format("2006-01-02")
		secondsByDay[day] += call.DurationSeconds
	}

	days := make([]string, 0, len(secondsByDay))
	for day := range secondsByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > usageWindowDays {
		days = days[len(days)-usageWindowDays:]
	}

	points := make([]models.UsagePoint, 0, len(days))
	for _, day := range days {
		points = append(points, models.UsagePoint{
			Day:     day,
			Minutes: secondsByDay[day] / 60,
		})
	}
	return points
}

func recentSessions(calls []models.CallSession, organizations []models.Organization) []models.RecentSession {
	// GetCalls already returns newest-first.
	limit := len(calls)
	if limit > recentSessionCount {
		limit = recentSessionCount
	}

	sessions := make([]models.RecentSession, 0, limit)
	for _, call := range calls[:limit] {
		sessions = append(sessions, models.RecentSession{
			Client:    call.CallerNumber,
			AgentID:   call.AgentName,
			StartTime: call.StartedAt.UTC().Format("2006-01-02 15:04"),
			Duration:  formatDuration(call.DurationSeconds),
			Status:    call.Status,
		})
	}
	return sessions
}

func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), seconds%60)
}
