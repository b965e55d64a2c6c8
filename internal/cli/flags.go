package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputDir  string
	LogLevel   string
	MaxEntries int
	Every      time.Duration
	ListModels bool
	Archive    bool

	// Translation flags
	Provider string
	Model    string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir: ".",
		LogLevel:  "info",
		Provider:  "gemini",
	}
}
