package models

// DashboardKpi aggregates platform-wide health numbers for the overview page.
type DashboardKpi struct {
	TotalClients    int  `json:"totalClients"`
	ActiveAgents    int  `json:"activeAgents"`
	TotalMinutes    int  `json:"totalMinutes"`
	SystemLatencyMs int  `json:"systemLatencyMs"`
	Healthy         bool `json:"healthy"`
}

// UsagePoint is one day of aggregated call minutes.
type UsagePoint struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// RecentSession is a call session projected for the overview page.
type RecentSession struct {
	Client    string `json:"client"`
	AgentID   string `json:"agentId"`
	StartTime string `json:"startTime"`
	Duration  string `json:"duration"`
	Status    string `json:"status"`
}

// DashboardOverview is the full overview payload.
type DashboardOverview struct {
	Kpi            DashboardKpi    `json:"kpi"`
	UsageByDay     []UsagePoint    `json:"usageByDay"`
	RecentSessions []RecentSession `json:"recentSessions"`
}
