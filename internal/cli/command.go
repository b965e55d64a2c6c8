package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"codeberg.org/snonux/cmdref/internal"
	"codeberg.org/snonux/cmdref/internal/fetch"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cmdref",
		Short: "Gemini CLI & GitHub Copilot CLI command reference tracker",
		Long: `cmdref fetches the command references of Google Gemini CLI and
GitHub Copilot CLI, records what changed since the last run in
changelog.md and writes a Traditional Chinese translation to output.md.

Translation only happens when at least one source changed.

Examples:
  cmdref                      # Fetch, compare and translate once
  cmdref -d ./docs            # Keep output.md, changelog.md and _cache.json in ./docs
  cmdref --every 6h           # Keep running and check every six hours
  cmdref --provider openai    # Translate with OpenAI instead of Gemini
  cmdref --archive            # Move the current state files aside and start over`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.cmdref.yaml or ./.cmdref.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "dir", "d", flags.OutputDir, "Directory holding output.md, changelog.md and _cache.json")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	cmd.Flags().IntVar(&flags.MaxEntries, "max-entries", flags.MaxEntries, "Keep at most this many changelog entries (0 keeps all)")
	cmd.Flags().DurationVar(&flags.Every, "every", flags.Every, "Repeat the run at this interval until interrupted (e.g. 6h)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List the models available to the configured provider")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move output.md, changelog.md and _cache.json into archive/ and exit")

	// Translation flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: gemini or openai")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Translation model (default: gemini-2.0-flash or gpt-4o-mini)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("dir"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("changelog.max_entries", cmd.Flags().Lookup("max-entries"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
}

func setDefaults() {
	viper.SetDefault("sources.gemini_cli.url", fetch.DefaultGeminiCLIURL)
	viper.SetDefault("sources.github_copilot.url", fetch.DefaultGitHubCopilotURL)
	viper.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	viper.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	viper.SetDefault("translation.base_url", "")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// API keys may live in a .env file next to the state files
	if err := LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory and the current directory
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		} else {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cmdref")
	}

	// Environment variables, e.g. CMDREF_OUTPUT_DIRECTORY
	viper.SetEnvPrefix("CMDREF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadDotEnv exports the variables of the given .env files. Variables that
// are already set win, and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := gotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	// First check environment variable
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.gemini_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}
