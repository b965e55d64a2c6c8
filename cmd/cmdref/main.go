package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/cmdref/internal"
	"codeberg.org/snonux/cmdref/internal/archive"
	"codeberg.org/snonux/cmdref/internal/cli"
	"codeberg.org/snonux/cmdref/internal/fetch"
	"codeberg.org/snonux/cmdref/internal/htmlmd"
	"codeberg.org/snonux/cmdref/internal/logger"
	"codeberg.org/snonux/cmdref/internal/models"
	"codeberg.org/snonux/cmdref/internal/processor"
	"codeberg.org/snonux/cmdref/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if msg := exitMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		stop()
		os.Exit(1)
	}
}

// loggedError is a run failure that has already been logged
type loggedError struct {
	err error
}

func (e *loggedError) Error() string {
	return e.err.Error()
}

func (e *loggedError) Unwrap() error {
	return e.err
}

// exitMessage returns what main prints for err, or "" when the error was
// already logged.
func exitMessage(err error) string {
	var logged *loggedError
	if errors.As(err, &logged) {
		return ""
	}
	return "Error: " + err.Error()
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	ctx := cmd.Context()
	settings := cli.LoadSettings()
	log := logger.New(settings.LogLevel, os.Stderr)

	// Handle --archive flag
	if flags.Archive {
		archivePath, err := archive.ArchiveState(settings.OutputDir, processor.StateFiles(settings.OutputDir))
		if err != nil {
			return fmt.Errorf("failed to archive state: %w", err)
		}
		fmt.Printf("State files archived to: %s\n", archivePath)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(settings.Provider, settings.APIKey(), settings.BaseURL)
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	proc, err := processor.NewProcessor(settings, log)
	if err != nil {
		return err
	}

	if flags.Every > 0 {
		log.Info("running periodically", "every", flags.Every, "dir", settings.OutputDir)
		return proc.Loop(ctx, flags.Every)
	}

	res, err := proc.Run(ctx)
	if err != nil {
		log.Error("run failed", "kind", errorKind(err), "error", err)
		return &loggedError{err: err}
	}

	if !res.Changed {
		fmt.Println("Done! No source changes detected.")
		return nil
	}
	fmt.Printf("\nDone! Reference saved to: %s\n", settings.OutputDir)
	return nil
}

// errorKind names the failing stage of a run
func errorKind(err error) string {
	var (
		fetchErr       *fetch.FetchError
		parseErr       *htmlmd.ParseError
		translationErr *translation.Error
		persistErr     *internal.PersistenceError
	)

	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &translationErr):
		return "translation"
	case errors.As(err, &persistErr):
		return "persistence"
	default:
		return "unknown"
	}
}
