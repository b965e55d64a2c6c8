package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/cmdref/internal/cache"
	"codeberg.org/snonux/cmdref/internal/changelog"
	"codeberg.org/snonux/cmdref/internal/cli"
	"codeberg.org/snonux/cmdref/internal/fetch"
	"codeberg.org/snonux/cmdref/internal/output"
	"codeberg.org/snonux/cmdref/internal/translation"
)

// SourceFetcher fetches the current content of every tracked source
type SourceFetcher interface {
	FetchAll(ctx context.Context) ([]fetch.Source, error)
}

// SnapshotStore persists the raw content of the last processed run
type SnapshotStore interface {
	Load() (cache.Snapshot, error)
	Save(snap cache.Snapshot) error
}

// ChangeLog records one entry per run with changes
type ChangeLog interface {
	Prepend(e changelog.Entry) (int, error)
}

// DocumentTranslator translates a markdown document
type DocumentTranslator interface {
	Translate(ctx context.Context, title, markdown string) (string, error)
}

// DocumentWriter replaces the rendered reference
type DocumentWriter interface {
	Write(doc string) error
}

// Deps are the collaborators of a Processor
type Deps struct {
	Fetcher    SourceFetcher
	Cache      SnapshotStore
	Changelog  ChangeLog
	Translator DocumentTranslator
	Writer     DocumentWriter
	Logger     *slog.Logger
	Now        func() time.Time
}

// Processor runs the update pipeline
type Processor struct {
	fetcher    SourceFetcher
	cache      SnapshotStore
	changelog  ChangeLog
	translator DocumentTranslator
	writer     DocumentWriter
	logger     *slog.Logger
	now        func() time.Time
}

// Result summarizes a single run
type Result struct {
	Changed          bool
	ChangedSources   []string
	ChangelogEntries int
}

// NewWithDeps creates a processor from explicit collaborators
func NewWithDeps(d Deps) *Processor {
	p := &Processor{
		fetcher:    d.Fetcher,
		cache:      d.Cache,
		changelog:  d.Changelog,
		translator: d.Translator,
		writer:     d.Writer,
		logger:     d.Logger,
		now:        d.Now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// NewProcessor creates a processor working on the files in
// settings.OutputDir, fetching over HTTP and translating with the configured
// provider.
func NewProcessor(settings *cli.Settings, logger *slog.Logger) (*Processor, error) {
	backend, err := translation.NewBackend(settings.Provider, settings.APIKey(), settings.Model, settings.BaseURL)
	if err != nil {
		return nil, err
	}

	// Create output directory (including parent directories)
	if err := os.MkdirAll(settings.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	fetcher := fetch.NewFetcher(
		fetch.WithPageFetcher(fetch.NewPageFetcher(settings.FetchTimeout)),
		fetch.WithSpecs(fetch.DefaultSpecs(settings.GeminiURL, settings.CopilotURL)),
		fetch.WithUserAgent(settings.UserAgent),
		fetch.WithLogger(logger),
	)

	return NewWithDeps(Deps{
		Fetcher:    fetcher,
		Cache:      cache.NewStore(settings.OutputDir),
		Changelog:  changelog.NewLog(settings.OutputDir, settings.MaxEntries),
		Translator: translation.NewTranslator(backend, translation.WithLogger(logger)),
		Writer:     output.NewWriter(settings.OutputDir),
		Logger:     logger,
	}), nil
}

// StateFiles returns the files the pipeline maintains in dir
func StateFiles(dir string) []string {
	return []string{
		filepath.Join(dir, output.FileName),
		filepath.Join(dir, changelog.FileName),
		filepath.Join(dir, cache.FileName),
	}
}

// Run executes the pipeline once. When no source changed nothing is
// translated or written.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	old, err := p.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	sources, err := p.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sources: %w", err)
	}

	now := p.now().UTC()
	entry, changed, err := p.stageEntry(old, sources, now)
	if err != nil {
		return nil, fmt.Errorf("record changes: %w", err)
	}
	if len(changed) == 0 {
		p.logger.Info("no source changes detected, skipping translation")
		return &Result{}, nil
	}

	translated, err := p.translator.Translate(ctx, combinedTitle(sources), output.Combine(sources))
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	if err := p.writer.Write(output.Render(translated, sources, now)); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	p.logger.Info("output written", "file", output.FileName)

	entries, err := p.changelog.Prepend(entry)
	if err != nil {
		return nil, fmt.Errorf("update changelog: %w", err)
	}
	p.logger.Info("changelog updated", "file", changelog.FileName, "entries", entries)

	// The cache holds exactly the sources of this run
	snap := make(cache.Snapshot, len(sources))
	for _, src := range sources {
		snap[src.ID] = src.Raw
	}
	if err := p.cache.Save(snap); err != nil {
		return nil, fmt.Errorf("save cache: %w", err)
	}

	return &Result{
		Changed:          true,
		ChangedSources:   changed,
		ChangelogEntries: entries,
	}, nil
}

// stageEntry diffs every source against the cached snapshot. The entry has
// one section per source in source order; it is only meaningful when at
// least one source changed.
func (p *Processor) stageEntry(old cache.Snapshot, sources []fetch.Source, now time.Time) (changelog.Entry, []string, error) {
	entry := changelog.Entry{Time: now}
	if len(old) == 0 {
		entry.Note = changelog.FirstRunNote
	}

	var changed []string
	for _, src := range sources {
		section := changelog.Section{Title: src.Title}
		if cache.Changed(old, src.ID, src.Raw) {
			diff, err := changelog.Diff(old[src.ID], src.Raw)
			if err != nil {
				return changelog.Entry{}, nil, fmt.Errorf("%s: %w", src.ID, err)
			}
			// A newly tracked source without content still differs from "untracked"
			if diff == "" {
				diff = changelog.DiffHeader
			}
			changed = append(changed, src.ID)
			section.Diff = diff
			p.logger.Info("source changed", "source", src.ID)
		} else {
			p.logger.Debug("source unchanged", "source", src.ID)
		}
		entry.Sections = append(entry.Sections, section)
	}
	return entry, changed, nil
}

func combinedTitle(sources []fetch.Source) string {
	titles := make([]string, 0, len(sources))
	for _, src := range sources {
		titles = append(titles, src.Title)
	}
	return strings.Join(titles, " & ")
}

// Loop runs the pipeline immediately and then on every tick until ctx is
// done. Failed runs are logged and retried on the next tick.
func (p *Processor) Loop(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("invalid interval %v", every)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		p.runLogged(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Processor) runLogged(ctx context.Context) {
	res, err := p.Run(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		p.logger.Info("run interrupted", "error", err)
	case err != nil:
		p.logger.Error("run failed", "error", err)
	case res.Changed:
		p.logger.Info("run finished", "changed", strings.Join(res.ChangedSources, ","), "entries", res.ChangelogEntries)
	default:
		p.logger.Info("run finished without changes")
	}
}
