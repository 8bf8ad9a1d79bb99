package models

import "time"

// Agent statuses.
const (
	AgentStatusActive  = "active"
	AgentStatusOffline = "offline"
	AgentStatusError   = "error"
)

// Agent represents a configured AI voice agent.
type Agent struct {
	ID               int64     `json:"-" db:"id"`
	AgentID          string    `json:"id" db:"agent_id"`
	Name             string    `json:"name" db:"name"`
	OrganizationName string    `json:"organizationName" db:"organization_name"`
	Model            string    `json:"model" db:"model"`
	VoiceID          string    `json:"voiceId" db:"voice_id"`
	TwilioNumber     string    `json:"twilioNumber" db:"twilio_number"`
	Status           string    `json:"status" db:"status"`
	Prompt           string    `json:"prompt" db:"prompt"`
	PromptVersion    string    `json:"promptVersion" db:"prompt_version"`
	AverageLatencyMs int       `json:"averageLatencyMs" db:"average_latency_ms"`
	CreatedAt        time.Time `json:"-" db:"created_at"`
	UpdatedAt        time.Time `json:"-" db:"updated_at"`
}

// IsValidAgentStatus reports whether the given status is a known agent status.
func IsValidAgentStatus(status string) bool {
	switch status {
	case AgentStatusActive, AgentStatusOffline, AgentStatusError:
		return true
	}
	return false
}
