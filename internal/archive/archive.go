// Package archive moves the state files of a run aside so the next run
// starts from scratch.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveState moves the existing files into dir/archive/state-<timestamp>
// and returns that directory. Missing files are skipped; it is an error if
// none of them exist.
func ArchiveState(dir string, files []string) (string, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return "", fmt.Errorf("no state files to archive in %s", dir)
	}

	archiveDir := filepath.Join(dir, "archive")

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, "state-"+timestamp)

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, "state-"+timestamp)
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, f := range existing {
		if err := os.Rename(f, filepath.Join(archivePath, filepath.Base(f))); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", filepath.Base(f), err)
		}
	}

	return archivePath, nil
}
