package htmlmd

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"codeberg.org/snonux/cmdref/internal"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// ParseError reports HTML whose structure does not contain a usable
// reference section.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse html: %s: %v", e.Reason, e.Err)
	}
	return "parse html: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Convert parses an HTML page and renders its main content as markdown.
// The first <article> is used, falling back to <main> and then <body>.
func Convert(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", &ParseError{Reason: "invalid document", Err: err}
	}

	root := findFirst(doc, "article")
	if root == nil {
		root = findFirst(doc, "main")
	}
	if root == nil {
		root = findFirst(doc, "body")
	}
	if root == nil {
		return "", &ParseError{Reason: "no article, main or body element"}
	}

	c := &converter{}
	c.walk(root)

	content := strings.Join(c.lines, "\n")
	content = blankRuns.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return "", &ParseError{Reason: "no headings, paragraphs or tables found"}
	}

	return content, nil
}

type converter struct {
	lines []string
}

func (c *converter) walk(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}

		switch child.Data {
		case "h2", "h3", "h4":
			level := int(child.Data[1] - '0')
			if text := inlineText(child); text != "" {
				c.lines = append(c.lines, fmt.Sprintf("\n%s %s\n", strings.Repeat("#", level), text))
			}
		case "p":
			if hasAncestor(child, "td", "th", "li") {
				continue
			}
			if text := inlineText(child); text != "" {
				c.lines = append(c.lines, "\n"+text+"\n")
			}
		case "table":
			c.table(child)
		case "pre":
			c.pre(child)
		case "script", "style", "noscript", "template":
			// not content
		default:
			c.walk(child)
		}
	}
}

func (c *converter) table(n *html.Node) {
	var rows []*html.Node
	collect(n, "tr", &rows)

	var out []string
	for _, row := range rows {
		var cells []string
		hasText := false
		for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != html.ElementNode || (cell.Data != "th" && cell.Data != "td") {
				continue
			}
			text := strings.ReplaceAll(inlineText(cell), "|", `\|`)
			if text != "" {
				hasText = true
			}
			cells = append(cells, text)
		}
		if !hasText {
			continue
		}

		out = append(out, "| "+strings.Join(cells, " | ")+" |")
		if len(out) == 1 {
			sep := make([]string, len(cells))
			for i := range sep {
				sep[i] = "---"
			}
			out = append(out, "| "+strings.Join(sep, " | ")+" |")
		}
	}

	if len(out) == 0 {
		return
	}
	c.lines = append(c.lines, "")
	c.lines = append(c.lines, out...)
	c.lines = append(c.lines, "")
}

func (c *converter) pre(n *html.Node) {
	code := strings.TrimRight(rawText(n), "\n")
	if strings.TrimSpace(code) == "" {
		return
	}

	lang := languageOf(n)
	if lang == "" {
		if inner := findFirst(n, "code"); inner != nil {
			lang = languageOf(inner)
		}
	}

	fence := internal.CodeFence(code)
	c.lines = append(c.lines, "\n"+fence+lang+"\n"+code+"\n"+fence+"\n")
}

// inlineText flattens an element to a single line, rendering <code>
// children as backtick code spans.
func inlineText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case html.TextNode:
				b.WriteString(child.Data)
			case html.ElementNode:
				switch child.Data {
				case "code":
					if code := strings.Join(strings.Fields(rawText(child)), " "); code != "" {
						b.WriteString(codeSpan(code))
					}
				case "br":
					b.WriteString(" ")
				case "script", "style":
				default:
					visit(child)
				}
			}
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func codeSpan(code string) string {
	if !strings.Contains(code, "`") {
		return "`" + code + "`"
	}
	return "`` " + code + " ``"
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return b.String()
}

func languageOf(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func collect(n *html.Node, tag string, out *[]*html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if child.Data == tag {
			*out = append(*out, child)
			continue
		}
		collect(child, tag, out)
	}
}

func hasAncestor(n *html.Node, tags ...string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		for _, tag := range tags {
			if p.Data == tag {
				return true
			}
		}
	}
	return false
}
