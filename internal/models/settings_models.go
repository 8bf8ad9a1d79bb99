package models

import "time"

// Settings field names as they appear on the wire and in audit entries.
const (
	FieldOpenAIAPIKey                     = "openaiApiKey"
	FieldDeepgramAPIKey                   = "deepgramApiKey"
	FieldTwilioAccountSID                 = "twilioAccountSid"
	FieldRimeAPIKey                       = "rimeApiKey"
	FieldEnableBargeInInterruption        = "enableBargeInInterruption"
	FieldPlayLatencyFillerPhraseOnTimeout = "playLatencyFillerPhraseOnTimeout"
	FieldAllowAutoRetryOnFailedCalls      = "allowAutoRetryOnFailedCalls"
)

// SettingsFieldOrder is the canonical ordering of settings fields, used when
// diffing snapshots so changed-field lists are stable.
var SettingsFieldOrder = []string{
	FieldOpenAIAPIKey,
	FieldDeepgramAPIKey,
	FieldTwilioAccountSID,
	FieldRimeAPIKey,
	FieldEnableBargeInInterruption,
	FieldPlayLatencyFillerPhraseOnTimeout,
	FieldAllowAutoRetryOnFailedCalls,
}

// PlatformSettings is the single current integration settings record.
// Exactly one row exists; updates replace it wholesale.
type PlatformSettings struct {
	OpenAIAPIKey                     string    `json:"openaiApiKey" db:"openai_api_key"`
	DeepgramAPIKey                   string    `json:"deepgramApiKey" db:"deepgram_api_key"`
	TwilioAccountSID                 string    `json:"twilioAccountSid" db:"twilio_account_sid"`
	RimeAPIKey                       string    `json:"rimeApiKey" db:"rime_api_key"`
	EnableBargeInInterruption        bool      `json:"enableBargeInInterruption" db:"enable_barge_in_interruption"`
	PlayLatencyFillerPhraseOnTimeout bool      `json:"playLatencyFillerPhraseOnTimeout" db:"play_latency_filler_phrase_on_timeout"`
	AllowAutoRetryOnFailedCalls      bool      `json:"allowAutoRetryOnFailedCalls" db:"allow_auto_retry_on_failed_calls"`
	UpdatedAt                        time.Time `json:"updatedAt" db:"updated_at"`
}

// DiffSettings returns the names of fields whose values differ between the
// previous and the candidate snapshot, in SettingsFieldOrder.
func DiffSettings(prev, next *PlatformSettings) []string {
	changed := []string{}
	for _, field := range SettingsFieldOrder {
		if settingsFieldValue(prev, field) != settingsFieldValue(next, field) {
			changed = append(changed, field)
		}
	}
	return changed
}

func settingsFieldValue(s *PlatformSettings, field string) interface{} {
	switch field {
	case FieldOpenAIAPIKey:
		return s.OpenAIAPIKey
	case FieldDeepgramAPIKey:
		return s.DeepgramAPIKey
	case FieldTwilioAccountSID:
		return s.TwilioAccountSID
	case FieldRimeAPIKey:
		return s.RimeAPIKey
	case FieldEnableBargeInInterruption:
		return s.EnableBargeInInterruption
	case FieldPlayLatencyFillerPhraseOnTimeout:
		return s.PlayLatencyFillerPhraseOnTimeout
	case FieldAllowAutoRetryOnFailedCalls:
		return s.AllowAutoRetryOnFailedCalls
	default:
		return nil
	}
}

// SettingsAuditEntry is one immutable record of a settings change.
type SettingsAuditEntry struct {
	ID            string    `json:"id" db:"id"`
	ChangedAt     time.Time `json:"changedAt" db:"changed_at"`
	Actor         string    `json:"actor" db:"actor"`
	Reason        *string   `json:"reason,omitempty" db:"reason"`
	ChangedFields []string  `json:"changedFields"`
}

// SettingsHistoryMeta describes the distinct actors and changed-field names
// observed across audit entries matching a filter, used to populate
// filter-option lists.
type SettingsHistoryMeta struct {
	Actors        []string `json:"actors"`
	ChangedFields []string `json:"changedFields"`
	TotalEntries  int      `json:"totalEntries"`
}
