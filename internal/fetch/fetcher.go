package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/snonux/cmdref/internal/htmlmd"
)

const (
	IDGeminiCLI     = "gemini_cli"
	IDGitHubCopilot = "github_copilot"

	DefaultGeminiCLIURL     = "https://raw.githubusercontent.com/google-gemini/gemini-cli/main/docs/reference/commands.md"
	DefaultGitHubCopilotURL = "https://docs.github.com/en/copilot/reference/cli-command-reference"

	DefaultUserAgent = "Mozilla/5.0 (compatible; cmdref/1.0)"
	DefaultTimeout   = 30 * time.Second
)

// Format tells the fetcher how to turn a response body into markdown
type Format int

const (
	FormatMarkdown Format = iota
	FormatHTML
)

// SourceSpec describes one upstream document
type SourceSpec struct {
	ID     string
	Title  string
	URL    string
	Format Format
}

// Source is the fetched, normalized content of one upstream document
type Source struct {
	ID    string
	Title string
	URL   string
	Raw   string
}

// DefaultSpecs returns the two tracked sources in processing order
func DefaultSpecs(geminiURL, copilotURL string) []SourceSpec {
	if geminiURL == "" {
		geminiURL = DefaultGeminiCLIURL
	}
	if copilotURL == "" {
		copilotURL = DefaultGitHubCopilotURL
	}
	return []SourceSpec{
		{ID: IDGeminiCLI, Title: "Google Gemini CLI", URL: geminiURL, Format: FormatMarkdown},
		{ID: IDGitHubCopilot, Title: "GitHub Copilot CLI", URL: copilotURL, Format: FormatHTML},
	}
}

// FetchError reports an unreachable source or a non-success response
type FetchError struct {
	SourceID   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (%s): unexpected status %d", e.SourceID, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.SourceID, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves all configured sources
type Fetcher struct {
	pages     PageFetcher
	specs     []SourceSpec
	userAgent string
	logger    *slog.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

func WithPageFetcher(pf PageFetcher) Option {
	return func(f *Fetcher) { f.pages = pf }
}

func WithSpecs(specs []SourceSpec) Option {
	return func(f *Fetcher) { f.specs = specs }
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher for the default sources unless overridden
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		pages:     NewPageFetcher(DefaultTimeout),
		specs:     DefaultSpecs("", ""),
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll fetches every source in order and stops at the first failure
func (f *Fetcher) FetchAll(ctx context.Context) ([]Source, error) {
	sources := make([]Source, 0, len(f.specs))
	for _, spec := range f.specs {
		src, err := f.fetchOne(ctx, spec)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, spec SourceSpec) (Source, error) {
	f.logger.Info("fetching source", "source", spec.ID, "url", spec.URL)

	header := http.Header{}
	if f.userAgent != "" {
		header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.pages.Fetch(ctx, spec.URL, header)
	if err != nil {
		return Source{}, &FetchError{SourceID: spec.ID, URL: spec.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Source{}, &FetchError{SourceID: spec.ID, URL: spec.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Source{}, &FetchError{SourceID: spec.ID, URL: spec.URL, Err: err}
	}

	raw := string(body)
	if spec.Format == FormatHTML {
		raw, err = htmlmd.Convert(bytes.NewReader(body))
		if err != nil {
			return Source{}, fmt.Errorf("convert %s: %w", spec.ID, err)
		}
	}

	f.logger.Debug("fetched source", "source", spec.ID, "bytes", len(raw))
	return Source{ID: spec.ID, Title: spec.Title, URL: spec.URL, Raw: raw}, nil
}
