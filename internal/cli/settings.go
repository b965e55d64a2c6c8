package cli

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/cmdref/internal/fetch"
	"codeberg.org/snonux/cmdref/internal/translation"
)

// Settings is the resolved configuration of a run: flags, environment,
// config file and defaults merged by viper.
type Settings struct {
	OutputDir string
	LogLevel  string

	GeminiURL    string
	CopilotURL   string
	FetchTimeout time.Duration
	UserAgent    string

	Provider   string
	Model      string
	BaseURL    string
	MaxEntries int
}

// LoadSettings reads the current viper state. InitConfig and the flag
// bindings must be set up before.
func LoadSettings() *Settings {
	s := &Settings{
		OutputDir:    viper.GetString("output.directory"),
		LogLevel:     viper.GetString("log.level"),
		GeminiURL:    viper.GetString("sources.gemini_cli.url"),
		CopilotURL:   viper.GetString("sources.github_copilot.url"),
		FetchTimeout: viper.GetDuration("fetch.timeout"),
		UserAgent:    viper.GetString("fetch.user_agent"),
		Provider:     strings.ToLower(viper.GetString("translation.provider")),
		Model:        viper.GetString("translation.model"),
		BaseURL:      viper.GetString("translation.base_url"),
		MaxEntries:   viper.GetInt("changelog.max_entries"),
	}

	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	if s.Provider == "" {
		s.Provider = translation.ProviderGemini
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = fetch.DefaultTimeout
	}
	if s.UserAgent == "" {
		s.UserAgent = fetch.DefaultUserAgent
	}
	return s
}

// APIKey returns the key of the configured translation provider
func (s *Settings) APIKey() string {
	if s.Provider == translation.ProviderOpenAI {
		return GetOpenAIKey()
	}
	return GetGeminiKey()
}
