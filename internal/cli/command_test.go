package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/cmdref/internal/fetch"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "cmdref" {
		t.Errorf("Expected Use to be 'cmdref', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "command reference") {
		t.Errorf("Expected Short description to mention the command reference, got %q", cmd.Short)
	}

	// main reports errors itself, once
	if !cmd.SilenceErrors || !cmd.SilenceUsage {
		t.Error("Expected cobra error and usage output to be silenced")
	}

	if err := cmd.Args(cmd, []string{"unexpected"}); err == nil {
		t.Error("Expected positional arguments to be rejected")
	}

	// Test that flags are set up
	flagTests := []string{
		"config", "dir", "log-level", "max-entries", "every",
		"list-models", "archive", "provider", "model",
	}

	for _, name := range flagTests {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	defaults := map[string]string{
		"dir":         ".",
		"log-level":   "info",
		"provider":    "gemini",
		"max-entries": "0",
		"every":       "0s",
		"model":       "",
	}
	for name, expected := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != expected {
			t.Errorf("Expected default of --%s to be %q, got %q", name, expected, flag.DefValue)
		}
	}

	if cmd.Flags().ShorthandLookup("d") == nil {
		t.Error("Expected -d shorthand for --dir")
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("dir", "/test/output")
	cmd.Flags().Set("provider", "openai")
	cmd.Flags().Set("max-entries", "7")
	cmd.Flags().Set("every", "6h")

	// Test that values are bound
	if viper.GetString("output.directory") != "/test/output" {
		t.Errorf("Expected output.directory to be /test/output, got %s", viper.GetString("output.directory"))
	}

	if viper.GetString("translation.provider") != "openai" {
		t.Errorf("Expected translation.provider to be openai, got %s", viper.GetString("translation.provider"))
	}

	if viper.GetInt("changelog.max_entries") != 7 {
		t.Errorf("Expected changelog.max_entries to be 7, got %d", viper.GetInt("changelog.max_entries"))
	}

	if flags.Every != 6*time.Hour {
		t.Errorf("Expected Every to be 6h, got %v", flags.Every)
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T, s *Settings)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `output:
  directory: /test/output
translation:
  provider: OpenAI
  model: gpt-4o
  openai_key: test-key
changelog:
  max_entries: 5
fetch:
  timeout: 10s
sources:
  gemini_cli:
    url: https://example.com/commands.md`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T, s *Settings) {
				if s.OutputDir != "/test/output" {
					t.Errorf("OutputDir = %q", s.OutputDir)
				}
				if s.Provider != "openai" || s.Model != "gpt-4o" {
					t.Errorf("Provider/Model = %q/%q", s.Provider, s.Model)
				}
				if s.MaxEntries != 5 {
					t.Errorf("MaxEntries = %d", s.MaxEntries)
				}
				if s.FetchTimeout != 10*time.Second {
					t.Errorf("FetchTimeout = %v", s.FetchTimeout)
				}
				if s.GeminiURL != "https://example.com/commands.md" {
					t.Errorf("GeminiURL = %q", s.GeminiURL)
				}
				if s.CopilotURL != fetch.DefaultGitHubCopilotURL {
					t.Errorf("CopilotURL = %q", s.CopilotURL)
				}
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			check: func(t *testing.T, s *Settings) {
				if s.OutputDir != "." {
					t.Errorf("OutputDir = %q, want .", s.OutputDir)
				}
				if s.Provider != "gemini" {
					t.Errorf("Provider = %q, want gemini", s.Provider)
				}
				if s.FetchTimeout != fetch.DefaultTimeout {
					t.Errorf("FetchTimeout = %v", s.FetchTimeout)
				}
				if s.UserAgent != fetch.DefaultUserAgent {
					t.Errorf("UserAgent = %q", s.UserAgent)
				}
				if s.GeminiURL != fetch.DefaultGeminiCLIURL {
					t.Errorf("GeminiURL = %q", s.GeminiURL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			resetViper(t)

			InitConfig(tt.setupFunc(t))
			tt.check(t, LoadSettings())

			// Test environment variable prefix
			t.Setenv("CMDREF_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			// Nested keys map to underscores
			t.Setenv("CMDREF_OUTPUT_DIRECTORY", "/env/output")
			if got := LoadSettings().OutputDir; got != "/env/output" {
				t.Errorf("Expected env to override output directory, got %s", got)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CMDREF_DOTENV_PROBE=from-file\nCMDREF_DOTENV_KEEP=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	t.Setenv("CMDREF_DOTENV_KEEP", "from-shell")
	t.Cleanup(func() { os.Unsetenv("CMDREF_DOTENV_PROBE") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	if got := os.Getenv("CMDREF_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("CMDREF_DOTENV_PROBE = %q, want from-file", got)
	}
	if got := os.Getenv("CMDREF_DOTENV_KEEP"); got != "from-shell" {
		t.Errorf("CMDREF_DOTENV_KEEP = %q, want from-shell", got)
	}
}

func TestGetAPIKeys(t *testing.T) {
	tests := []struct {
		name      string
		envVar    string
		configKey string
		get       func() string
	}{
		{"gemini", "GEMINI_API_KEY", "translation.gemini_key", GetGeminiKey},
		{"openai", "OPENAI_API_KEY", "translation.openai_key", GetOpenAIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			t.Setenv(tt.envVar, "")
			if got := tt.get(); got != "" {
				t.Errorf("Expected empty key, got %q", got)
			}

			viper.Set(tt.configKey, "config-test-key")
			if got := tt.get(); got != "config-test-key" {
				t.Errorf("Expected key from config, got %q", got)
			}

			t.Setenv(tt.envVar, "env-test-key")
			if got := tt.get(); got != "env-test-key" {
				t.Errorf("Expected environment to win, got %q", got)
			}
		})
	}
}

func TestSettingsAPIKey(t *testing.T) {
	resetViper(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	if got := (&Settings{Provider: "gemini"}).APIKey(); got != "gemini-key" {
		t.Errorf("gemini APIKey() = %q", got)
	}
	if got := (&Settings{Provider: "openai"}).APIKey(); got != "openai-key" {
		t.Errorf("openai APIKey() = %q", got)
	}
}
