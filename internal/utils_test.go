package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	if err := WriteFileAtomic(path, []byte("first"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("Expected 'second', got %q", content)
	}

	// No temp files may be left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one file in %s, got %d", dir, len(entries))
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	err := WriteFileAtomic("/nonexistent/path/output.md", []byte("x"), 0644)
	if err == nil {
		t.Fatal("Expected error for missing directory")
	}

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected PersistenceError, got %T", err)
	}
	if perr.Path != "/nonexistent/path/output.md" {
		t.Errorf("Unexpected path in error: %s", perr.Path)
	}
}

func TestCodeFence(t *testing.T) {
	tests := []struct {
		content  string
		expected string
	}{
		{"plain text", "```"},
		{"inline `code`", "```"},
		{"a fence\n```\ninside", "````"},
		{"````` five", "``````"},
	}

	for _, tt := range tests {
		if got := CodeFence(tt.content); got != tt.expected {
			t.Errorf("CodeFence(%q) = %q, want %q", tt.content, got, tt.expected)
		}
	}
}
