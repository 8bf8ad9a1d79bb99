package services

import (
	"regexp"

	"voice_admin_backend/internal/models"
)

// Provider credential formats. Case-sensitive; the alphabet after the prefix
// is letters, digits, '*', '.', '_' and '-' (Twilio SIDs allow no '.'/'_'/'-').
var (
	openAIKeyPattern   = regexp.MustCompile(`^sk-[A-Za-z0-9*._-]{10,}$`)
	deepgramKeyPattern = regexp.MustCompile(`^dg-[A-Za-z0-9*._-]{8,}$`)
	twilioSIDPattern   = regexp.MustCompile(`^AC[A-Za-z0-9*]{10,}$`)
	rimeKeyPattern     = regexp.MustCompile(`^rm-[A-Za-z0-9*._-]{8,}$`)
)

// ValidateSettings checks every credential field of the candidate snapshot
// against its provider format and returns a reason per failing field. An
// empty map means the snapshot is valid. Pure; no side effects.
func ValidateSettings(settings *models.PlatformSettings) map[string]string {
	failures := map[string]string{}

	if !openAIKeyPattern.MatchString(settings.OpenAIAPIKey) {
		failures[models.FieldOpenAIAPIKey] = "Must start with 'sk-' and include at least 10 more characters."
	}
	if !deepgramKeyPattern.MatchString(settings.DeepgramAPIKey) {
		failures[models.FieldDeepgramAPIKey] = "Must start with 'dg-' and include at least 8 more characters."
	}
	if !twilioSIDPattern.MatchString(settings.TwilioAccountSID) {
		failures[models.FieldTwilioAccountSID] = "Must start with 'AC' and include at least 10 more characters."
	}
	if !rimeKeyPattern.MatchString(settings.RimeAPIKey) {
		failures[models.FieldRimeAPIKey] = "Must start with 'rm-' and include at least 8 more characters."
	}

	return failures
}
