package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(day int) Entry {
	return Entry{
		Time: time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Sections: []Section{
			{Title: "Google Gemini CLI"},
			{Title: "GitHub Copilot CLI"},
		},
	}
}

func TestDiff(t *testing.T) {
	diff, err := Diff("## foo\n", "## foo bar\n")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(diff, DiffHeader))
	assert.Contains(t, diff, "\n-## foo\n")
	assert.Contains(t, diff, "\n+## foo bar\n")
}

func TestDiff_Equal(t *testing.T) {
	for _, text := range []string{"same\n", ""} {
		diff, err := Diff(text, text)
		require.NoError(t, err)
		assert.Equal(t, "", diff)
	}
}

func TestDiff_TrailingNewlineOnly(t *testing.T) {
	diff, err := Diff("line", "line\n")
	require.NoError(t, err)
	assert.NotEmpty(t, diff)
	assert.Contains(t, diff, noNewlineMarker)
}

func TestDiff_FromEmpty(t *testing.T) {
	diff, err := Diff("", "a\nb\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "+a\n")
	assert.Contains(t, diff, "+b\n")
	assert.NotContains(t, diff, "\n-")
}

func TestEntryRender(t *testing.T) {
	e := Entry{
		Time: time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC),
		Note: FirstRunNote,
		Sections: []Section{
			{Title: "Google Gemini CLI", Diff: "-a\n+b\n"},
			{Title: "GitHub Copilot CLI"},
		},
	}

	expected := "## 2026-10-17 08:30 UTC " + FirstRunNote + "\n\n" +
		"### Google Gemini CLI\n\n```diff\n-a\n+b\n```\n" +
		"\n### GitHub Copilot CLI\n\n（無變更）\n"
	assert.Equal(t, expected, e.Render())
}

func TestEntryRender_FenceLongerThanDiffContent(t *testing.T) {
	e := Entry{
		Time:     time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC),
		Sections: []Section{{Title: "Google Gemini CLI", Diff: " ```bash\n+gemini --help\n ```\n"}},
	}

	rendered := e.Render()
	assert.Contains(t, rendered, "````diff\n")
	assert.True(t, strings.HasSuffix(rendered, "````\n"))
}

func TestPrepend_CreatesFile(t *testing.T) {
	log := NewLog(t.TempDir(), 0)

	count, err := log.Prepend(makeEntry(1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	content, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader+makeEntry(1).Render()+Separator, string(content))
}

func TestPrepend_NewestFirstAndExistingUntouched(t *testing.T) {
	log := NewLog(t.TempDir(), 0)

	var previous string
	for day := 1; day <= 4; day++ {
		_, err := log.Prepend(makeEntry(day))
		require.NoError(t, err)

		content, err := os.ReadFile(log.Path())
		require.NoError(t, err)

		if previous != "" {
			_, oldBody := Split(previous, DefaultHeader)
			assert.True(t, strings.HasSuffix(string(content), oldBody), "run %d altered older entries", day)
		}
		previous = string(content)
	}

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Contains(t, entry, fmt.Sprintf("## 2026-01-%02d", 4-i))
	}
}

func TestPrepend_KeepsCustomHeader(t *testing.T) {
	dir := t.TempDir()
	custom := "# My changelog\n\nNotes kept by hand.\n\n"
	existing := custom + makeEntry(1).Render() + Separator
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(existing), 0644))

	log := NewLog(dir, 0)
	count, err := log.Prepend(makeEntry(2))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	content, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, custom+makeEntry(2).Render()+Separator+makeEntry(1).Render()+Separator, string(content))
}

func TestPrepend_HeaderlessFile(t *testing.T) {
	dir := t.TempDir()
	existing := makeEntry(1).Render() + Separator
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(existing), 0644))

	log := NewLog(dir, 0)
	_, err := log.Prepend(makeEntry(2))
	require.NoError(t, err)

	content, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), DefaultHeader))
	assert.True(t, strings.HasSuffix(string(content), existing))
}

func TestPrepend_MaxEntries(t *testing.T) {
	tests := []struct {
		name      string
		existing  int
		max       int
		wantCount int
	}{
		{"under limit", 5, 10, 6},
		{"exactly at limit", 9, 10, 10},
		{"over limit drops oldest", 10, 10, 10},
		{"max one keeps newest", 5, 1, 1},
		{"unbounded", 12, 0, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			unbounded := NewLog(dir, 0)
			for day := 1; day <= tt.existing; day++ {
				_, err := unbounded.Prepend(makeEntry(day))
				require.NoError(t, err)
			}

			log := NewLog(dir, tt.max)
			count, err := log.Prepend(makeEntry(28))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)

			entries, err := log.Entries()
			require.NoError(t, err)
			require.Len(t, entries, tt.wantCount)
			assert.Contains(t, entries[0], "2026-01-28")
			if tt.max > 0 && tt.existing >= tt.max {
				assert.NotContains(t, entries[len(entries)-1], "2026-01-01")
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantHeader string
		wantBody   string
	}{
		{"empty", "", "", ""},
		{"header only", "# Title", "# Title\n", ""},
		{"entries only", "## a\n", DefaultHeader, "## a\n"},
		{"header and entries", "# Title\n\n## a\n", "# Title\n\n", "## a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body := Split(tt.content, DefaultHeader)
			assert.Equal(t, tt.wantHeader, header)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestEntries_MissingFile(t *testing.T) {
	entries, err := NewLog(t.TempDir(), 0).Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
