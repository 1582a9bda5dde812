package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCleanupScheduler_StartStop(t *testing.T) {
	cleaner := NewCleaner(t.TempDir(), 30)
	scheduler := NewCleanupScheduler(cleaner, 100*time.Millisecond, zerolog.Nop())

	// Start should not block
	scheduler.Start()
	time.Sleep(10 * time.Millisecond)

	// Stop should not panic, even twice
	scheduler.Stop()
	scheduler.Stop()
}

func TestCleanupScheduler_CleanupCalled(t *testing.T) {
	baseDir := t.TempDir()

	oldFile := filepath.Join(baseDir, "2020-01-01.log")
	writeAged(t, oldFile, 60*day)

	cleaner := NewCleaner(baseDir, 30)
	scheduler := NewCleanupScheduler(cleaner, 50*time.Millisecond, zerolog.Nop())

	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(oldFile); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Old file should have been deleted by scheduled cleanup")
}

func TestCleanupScheduler_RunsOnInterval(t *testing.T) {
	baseDir := t.TempDir()

	cleaner := NewCleaner(baseDir, 30)
	scheduler := NewCleanupScheduler(cleaner, 20*time.Millisecond, zerolog.Nop())
	scheduler.Start()
	defer scheduler.Stop()

	// Let the initial run pass, then add a file only a later tick can remove.
	time.Sleep(30 * time.Millisecond)
	lateFile := filepath.Join(baseDir, "late.log")
	writeAged(t, lateFile, 60*day)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(lateFile); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("File created after start should be removed by a later tick")
}

func TestNewCleanupScheduler(t *testing.T) {
	cleaner := NewCleaner(t.TempDir(), 30)

	scheduler := NewCleanupScheduler(cleaner, time.Hour, zerolog.Nop())

	if scheduler.cleaner != cleaner {
		t.Error("Scheduler should have the provided cleaner")
	}
	if scheduler.ticker == nil {
		t.Error("Scheduler should have a ticker")
	}
	if scheduler.stop == nil {
		t.Error("Scheduler should have a stop channel")
	}

	scheduler.ticker.Stop()
}
