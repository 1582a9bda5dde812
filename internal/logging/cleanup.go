package logging

import (
	"os"
	"path/filepath"
	"time"
)

// Cleaner removes journal files that have outlived the retention period.
type Cleaner struct {
	baseDir       string
	retentionDays int
}

// NewCleaner creates a new Cleaner for baseDir. A retention of zero or less keeps
// everything.
func NewCleaner(baseDir string, retentionDays int) *Cleaner {
	return &Cleaner{baseDir: baseDir, retentionDays: retentionDays}
}

// Cleanup removes .log files older than the retention period and then prunes
// empty directories. Returns the number of files deleted.
func (c *Cleaner) Cleanup() (int, error) {
	if c.retentionDays <= 0 {
		return 0, nil
	}

	threshold := time.Now().AddDate(0, 0, -c.retentionDays)
	var deleted int

	err := filepath.WalkDir(c.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries and a missing base dir
		}
		if d.IsDir() || filepath.Ext(path) != ".log" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(threshold) {
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
		return nil
	})

	c.cleanEmptyDirs()

	return deleted, err
}

// cleanEmptyDirs removes empty directories below the base directory.
// Removing a dir may empty its parent, so it loops until a pass removes nothing.
func (c *Cleaner) cleanEmptyDirs() {
	for {
		removedAny := false
		filepath.WalkDir(c.baseDir, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() || path == c.baseDir {
				return nil
			}
			entries, _ := os.ReadDir(path)
			if len(entries) == 0 {
				if os.Remove(path) == nil {
					removedAny = true
				}
			}
			return nil
		})
		if !removedAny {
			break
		}
	}
}
