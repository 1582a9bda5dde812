package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JournalEntry records what happened to one message.
type JournalEntry struct {
	Time        time.Time `json:"time"`
	Outcome     string    `json:"outcome"`
	ID          string    `json:"id,omitempty"`
	Instruction string    `json:"instruction,omitempty"`
	Source      string    `json:"source,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Journal appends entries as JSON lines to one file per day.
// Directory structure: baseDir/YYYY-MM-DD.log
type Journal struct {
	baseDir string
	mu      sync.Mutex
}

// NewJournal creates a new Journal with the specified base directory.
func NewJournal(baseDir string) *Journal {
	return &Journal{baseDir: baseDir}
}

// Path returns the file an entry stamped at t is written to.
func (j *Journal) Path(t time.Time) string {
	return filepath.Join(j.baseDir, t.Format("2006-01-02")+".log")
}

// Record appends the entry to the day's journal file, creating it if needed.
func (j *Journal) Record(entry JournalEntry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(j.baseDir, 0755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	f, err := os.OpenFile(j.Path(entry.Time), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("writing journal entry: %w", err)
	}
	return nil
}
