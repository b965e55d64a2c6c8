package translation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// htmlCodeSpan matches backtick-quoted tokens on a single line. goldmark
// leaves raw HTML unparsed, so code spans there are found textually.
var htmlCodeSpan = regexp.MustCompile("``[^`\n][^\n]*?``|`[^`\n]+`")

// span is a byte range [start, stop) of the source markdown
type span struct {
	start, stop int
}

// placeholder returns the token that stands in for literal i
func placeholder(i int) string {
	return fmt.Sprintf("@@LIT%d@@", i)
}

// MaskLiterals replaces every code span (including backtick tokens inside raw
// HTML) and code block body in markdown with a placeholder. It returns the masked text and the literals in placeholder
// order.
func MaskLiterals(markdown string) (string, []string) {
	src := []byte(markdown)
	spans := findLiterals(src)
	if len(spans) == 0 {
		return markdown, nil
	}

	literals := make([]string, len(spans))
	var b strings.Builder
	last := 0
	for i, s := range spans {
		literals[i] = markdown[s.start:s.stop]
		b.WriteString(markdown[last:s.start])
		b.WriteString(placeholder(i))
		last = s.stop
	}
	b.WriteString(markdown[last:])

	return b.String(), literals
}

// UnmaskLiterals puts the literals back. Every placeholder must occur exactly
// once in translated.
func UnmaskLiterals(translated string, literals []string) (string, error) {
	pairs := make([]string, 0, 2*len(literals))
	for i, lit := range literals {
		ph := placeholder(i)
		if n := strings.Count(translated, ph); n != 1 {
			return "", fmt.Errorf("placeholder %s found %d times in translation", ph, n)
		}
		pairs = append(pairs, ph, lit)
	}
	if len(pairs) == 0 {
		return translated, nil
	}
	return strings.NewReplacer(pairs...).Replace(translated), nil
}

// LiteralTokens returns the code spans (with their backticks) and code block
// bodies found in markdown.
func LiteralTokens(markdown string) []string {
	_, literals := MaskLiterals(markdown)
	return literals
}

func findLiterals(src []byte) []span {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var spans []span
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.CodeSpan:
			if s, ok := codeSpanRange(node, src); ok {
				spans = append(spans, s)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if s, ok := blockRange(node, src); ok {
				spans = append(spans, s)
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				spans = append(spans, htmlSpans(lines.At(i), src)...)
			}
			if node.HasClosure() {
				spans = append(spans, htmlSpans(node.ClosureLine, src)...)
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				spans = append(spans, htmlSpans(node.Segments.At(i), src)...)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// htmlSpans returns the backtick-quoted tokens inside a raw HTML segment
func htmlSpans(seg text.Segment, src []byte) []span {
	var spans []span
	for _, m := range htmlCodeSpan.FindAllIndex(src[seg.Start:seg.Stop], -1) {
		spans = append(spans, span{start: seg.Start + m[0], stop: seg.Start + m[1]})
	}
	return spans
}

// codeSpanRange widens the content segments of a code span to include the
// surrounding backtick runs.
func codeSpanRange(node *ast.CodeSpan, src []byte) (span, bool) {
	first, ok := node.FirstChild().(*ast.Text)
	if !ok {
		return span{}, false
	}
	last, ok := node.LastChild().(*ast.Text)
	if !ok {
		return span{}, false
	}

	start, stop := first.Segment.Start, last.Segment.Stop
	if start > 0 && src[start-1] != '`' {
		start--
	}
	for start > 0 && src[start-1] == '`' {
		start--
	}
	if stop < len(src) && src[stop] != '`' {
		stop++
	}
	for stop < len(src) && src[stop] == '`' {
		stop++
	}

	if start >= stop || src[start] != '`' || src[stop-1] != '`' {
		return span{}, false
	}
	return span{start: start, stop: stop}, true
}

// blockRange covers the body lines of a code block without its fences and
// without the final newline.
func blockRange(node ast.Node, src []byte) (span, bool) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return span{}, false
	}

	start := lines.At(0).Start
	stop := lines.At(lines.Len() - 1).Stop
	if stop > start && src[stop-1] == '\n' {
		stop--
	}
	if stop <= start || strings.TrimSpace(string(src[start:stop])) == "" {
		return span{}, false
	}
	return span{start: start, stop: stop}, true
}
