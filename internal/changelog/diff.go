package changelog

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	fromFile = "上一版"
	toFile   = "本次"

	noNewlineMarker = "\\ No newline at end of file\n"
)

// DiffHeader is the diff of a newly tracked source whose content is empty:
// the file header without any hunk.
const DiffHeader = "--- " + fromFile + "\n+++ " + toFile + "\n"

// Diff returns a unified diff from old to new, or "" when they are equal
func Diff(old, new string) (string, error) {
	if old == new {
		return "", nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(old),
		B:        splitLines(new),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}
	return text, nil
}

// splitLines keeps line endings. A final line without a newline is marked the
// way git does so a change in the trailing newline still shows up.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n" + noNewlineMarker
	return lines
}
