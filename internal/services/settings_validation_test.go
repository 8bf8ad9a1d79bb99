package services

import (
	"testing"

	"voice_admin_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func validSettings() *models.PlatformSettings {
	return &models.PlatformSettings{
		OpenAIAPIKey:     "sk-aaaaaaaaaa",
		DeepgramAPIKey:   "dg-bbbbbbbb",
		TwilioAccountSID: "ACcccccccccc",
		RimeAPIKey:       "rm-dddddddd",
	}
}

func TestValidateSettings_ValidSnapshot(t *testing.T) {
	failures := ValidateSettings(validSettings())
	assert.Empty(t, failures)
}

func TestValidateSettings_MaskedValuesPass(t *testing.T) {
	settings := &models.PlatformSettings{
		OpenAIAPIKey:     "sk-**********",
		DeepgramAPIKey:   "dg-********",
		TwilioAccountSID: "AC**********",
		RimeAPIKey:       "rm-********",
	}
	failures := ValidateSettings(settings)
	assert.Empty(t, failures)
}

func TestValidateSettings_OpenAIKey(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"minimum length", "sk-aaaaaaaaaa", true},
		{"mixed alphabet", "sk-Ab0*._-xyz9", true},
		{"suffix too short", "sk-aaaaaaaaa", false},
		{"missing prefix", "aaaaaaaaaaaaa", false},
		{"uppercase prefix", "SK-aaaaaaaaaa", false},
		{"embedded space", "sk-aaaa aaaaaa", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := validSettings()
			settings.OpenAIAPIKey = tc.value
			failures := ValidateSettings(settings)
			if tc.valid {
				assert.NotContains(t, failures, models.FieldOpenAIAPIKey)
			} else {
				assert.Contains(t, failures, models.FieldOpenAIAPIKey)
			}
		})
	}
}

func TestValidateSettings_DeepgramKey(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"minimum length", "dg-bbbbbbbb", true},
		{"suffix too short", "dg-bbbbbbb", false},
		{"wrong prefix", "dk-bbbbbbbb", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := validSettings()
			settings.DeepgramAPIKey = tc.value
			failures := ValidateSettings(settings)
			if tc.valid {
				assert.NotContains(t, failures, models.FieldDeepgramAPIKey)
			} else {
				assert.Contains(t, failures, models.FieldDeepgramAPIKey)
			}
		})
	}
}

func TestValidateSettings_TwilioSID(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"minimum length", "ACcccccccccc", true},
		{"wrong prefix", "XX1234567890", false},
		{"suffix too short", "ACccccccccc", false},
		{"punctuation not allowed", "ACcccc.ccccc", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := validSettings()
			settings.TwilioAccountSID = tc.value
			failures := ValidateSettings(settings)
			if tc.valid {
				assert.NotContains(t, failures, models.FieldTwilioAccountSID)
			} else {
				assert.Contains(t, failures, models.FieldTwilioAccountSID)
			}
		})
	}
}

func TestValidateSettings_RimeKey(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"minimum length", "rm-dddddddd", true},
		{"suffix too short", "rm-ddddddd", false},
		{"missing prefix", "ddddddddddd", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := validSettings()
			settings.RimeAPIKey = tc.value
			failures := ValidateSettings(settings)
			if tc.valid {
				assert.NotContains(t, failures, models.FieldRimeAPIKey)
			} else {
				assert.Contains(t, failures, models.FieldRimeAPIKey)
			}
		})
	}
}

func TestValidateSettings_ReportsEveryFailingField(t *testing.T) {
	settings := &models.PlatformSettings{
		OpenAIAPIKey:     "bad",
		DeepgramAPIKey:   "bad",
		TwilioAccountSID: "bad",
		RimeAPIKey:       "bad",
	}
	failures := ValidateSettings(settings)
	assert.Len(t, failures, 4)
	assert.Contains(t, failures, models.FieldOpenAIAPIKey)
	assert.Contains(t, failures, models.FieldDeepgramAPIKey)
	assert.Contains(t, failures, models.FieldTwilioAccountSID)
	assert.Contains(t, failures, models.FieldRimeAPIKey)
}
