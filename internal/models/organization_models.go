package models

// Organization subscription statuses.
const (
	SubscriptionTrial   = "trial"
	SubscriptionActive  = "active"
	SubscriptionPastDue = "past_due"
)

// Organization represents a client organization on the platform.
type Organization struct {
	ID                 int64  `json:"-" db:"id"`
	OrgID              string `json:"id" db:"org_id"`
	Name               string `json:"name" db:"name"`
	SubscriptionStatus string `json:"subscriptionStatus" db:"subscription_status"`
	ActiveAgents       int    `json:"activeAgents" db:"active_agents"`
	MonthlyMinutes     int    `json:"monthlyMinutes" db:"monthly_minutes"`
}

// IsValidSubscriptionStatus reports whether the given status is a known
// subscription status.
func IsValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionTrial, SubscriptionActive, SubscriptionPastDue:
		return true
	}
	return false
}
