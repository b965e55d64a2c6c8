package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/cmdref/internal"
	"codeberg.org/snonux/cmdref/internal/fetch"
)

const (
	// FileName is the translated reference inside the output directory
	FileName = "output.md"

	TagsLine   = "###### tags: `ai` `gemini` `copilot`"
	Title      = "Gemini CLI & GitHub Copilot CLI 指令參考"
	TimeLayout = "2006-01-02 15:04 UTC"

	sectionSeparator = "\n\n---\n\n"
)

// Combine joins the sources into one markdown document, one "## <title>"
// section per source in the given order.
func Combine(sources []fetch.Source) string {
	sections := make([]string, 0, len(sources))
	for _, src := range sources {
		sections = append(sections, fmt.Sprintf("## %s\n\n%s", src.Title, strings.TrimSpace(src.Raw)))
	}
	return strings.Join(sections, sectionSeparator)
}

// Anchor returns the in-page link target for a section title
func Anchor(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "-")
}

// Render wraps the translated combined document with the tags line, title,
// update time, source links and a table of contents.
func Render(translated string, sources []fetch.Source, now time.Time) string {
	var b strings.Builder

	b.WriteString(TagsLine + "\n\n")
	b.WriteString("# " + Title + "\n\n")
	fmt.Fprintf(&b, "> 自動抓取並翻譯，更新時間：%s\n>\n", now.UTC().Format(TimeLayout))
	b.WriteString("> 原始來源：\n")
	for _, src := range sources {
		fmt.Fprintf(&b, "> - [%s](%s)\n", src.Title, src.URL)
	}

	b.WriteString("\n## 目錄\n\n")
	for _, src := range sources {
		fmt.Fprintf(&b, "- [%s](#%s)\n", src.Title, Anchor(src.Title))
	}

	b.WriteString("\n---\n\n")
	b.WriteString(strings.TrimSpace(translated))
	b.WriteString("\n")

	return b.String()
}

// Writer writes the rendered reference into a directory
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the location of output.md
func (w *Writer) Path() string {
	return filepath.Join(w.dir, FileName)
}

// Write replaces output.md with doc using write-then-rename
func (w *Writer) Write(doc string) error {
	return internal.WriteFileAtomic(w.Path(), []byte(doc), 0644)
}
