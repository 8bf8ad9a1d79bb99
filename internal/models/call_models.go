package models

import "time"

// Call statuses.
const (
	CallStatusCompleted = "completed"
	CallStatusBusy      = "busy"
	CallStatusFailed    = "failed"
)

// Call sentiments.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// CallSession represents one completed or attempted voice call.
type CallSession struct {
	ID              int64     `json:"-" db:"id"`
	CallID          string    `json:"id" db:"call_id"`
	AgentName       string    `json:"agentName" db:"agent_name"`
	CallerNumber    string    `json:"callerNumber" db:"caller_number"`
	StartedAt       time.Time `json:"startedAt" db:"started_at"`
	DurationSeconds int       `json:"durationSeconds" db:"duration_seconds"`
	Status          string    `json:"status" db:"status"`
	Sentiment       string    `json:"sentiment" db:"sentiment"`
	RecordingURL    string    `json:"recordingUrl" db:"recording_url"`
}

// IsValidCallStatus reports whether the given status is a known call status.
func IsValidCallStatus(status string) bool {
	switch status {
	case CallStatusCompleted, CallStatusBusy, CallStatusFailed:
		return true
	}
	return false
}
