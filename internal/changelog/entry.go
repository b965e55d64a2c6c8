package changelog

import (
	"strings"
	"time"

	"codeberg.org/snonux/cmdref/internal"
)

const (
	// TimeLayout formats entry timestamps
	TimeLayout = "2006-01-02 15:04 UTC"

	// FirstRunNote marks the entry written when no previous cache existed
	FirstRunNote = "（首次執行，無前次資料可比較）"

	noChanges = "（無變更）"
)

// Section is the diff of one source
type Section struct {
	Title string
	Diff  string
}

// Entry is one changelog block
type Entry struct {
	Time     time.Time
	Note     string
	Sections []Section
}

// Render formats the entry as markdown
func (e Entry) Render() string {
	var b strings.Builder

	b.WriteString("## ")
	b.WriteString(e.Time.UTC().Format(TimeLayout))
	if e.Note != "" {
		b.WriteString(" ")
		b.WriteString(e.Note)
	}
	b.WriteString("\n\n")

	for i, s := range e.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("### " + s.Title + "\n\n")
		if s.Diff == "" {
			b.WriteString(noChanges + "\n")
			continue
		}

		fence := internal.CodeFence(s.Diff)
		b.WriteString(fence + "diff\n")
		b.WriteString(s.Diff)
		if !strings.HasSuffix(s.Diff, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(fence + "\n")
	}

	return b.String()
}
