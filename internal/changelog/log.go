package changelog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/cmdref/internal"
)

const (
	// FileName is the changelog inside the output directory
	FileName = "changelog.md"

	// DefaultHeader starts every newly created changelog
	DefaultHeader = "###### tags: `ai` `gemini` `copilot`\n\n" +
		"# Gemini CLI & GitHub Copilot CLI 指令更新 Changelog\n\n"

	// Separator divides consecutive entries
	Separator = "\n---\n\n"
)

// Log is the changelog file
type Log struct {
	path       string
	header     string
	maxEntries int
}

// NewLog creates a changelog in dir. maxEntries > 0 drops the oldest entries
// beyond that count; 0 keeps everything.
func NewLog(dir string, maxEntries int) *Log {
	return &Log{
		path:       filepath.Join(dir, FileName),
		header:     DefaultHeader,
		maxEntries: maxEntries,
	}
}

// Path returns the location of the changelog file
func (l *Log) Path() string {
	return l.path
}

// Prepend inserts e above all existing entries and returns the resulting
// number of entries.
func (l *Log) Prepend(e Entry) (int, error) {
	existing, err := l.read()
	if err != nil {
		return 0, err
	}

	header, body := l.header, ""
	if existing != "" {
		header, body = Split(existing, l.header)
	}

	rest := e.Render() + Separator + body
	count := len(ParseEntries(rest))
	if l.maxEntries > 0 && count > l.maxEntries {
		kept := ParseEntries(rest)[:l.maxEntries]
		rest = strings.Join(kept, Separator) + Separator
		count = len(kept)
	}

	if err := internal.WriteFileAtomic(l.path, []byte(header+rest), 0644); err != nil {
		return 0, err
	}
	return count, nil
}

// Entries returns the entries in the changelog, newest first
func (l *Log) Entries() ([]string, error) {
	content, err := l.read()
	if err != nil {
		return nil, err
	}
	_, body := Split(content, l.header)
	return ParseEntries(body), nil
}

func (l *Log) read() (string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &internal.PersistenceError{Op: "read", Path: l.path, Err: err}
	}
	return string(data), nil
}

// Split separates the changelog header from the entries. Content that starts
// directly with an entry gets defaultHeader; content without any entry is all
// header.
func Split(content, defaultHeader string) (header, body string) {
	if strings.HasPrefix(content, "## ") {
		return defaultHeader, content
	}

	idx := strings.Index(content, "\n## ")
	if idx == -1 {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content, ""
	}
	return content[:idx+1], content[idx+1:]
}

// ParseEntries splits the body of a changelog into its entries
func ParseEntries(body string) []string {
	var entries []string
	for _, chunk := range strings.Split(body, Separator) {
		if strings.HasPrefix(strings.TrimSpace(chunk), "## ") {
			entries = append(entries, chunk)
		}
	}
	return entries
}
