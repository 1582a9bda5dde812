package logging

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CleanupScheduler runs a Cleaner immediately and then on every interval.
type CleanupScheduler struct {
	cleaner  *Cleaner
	logger   zerolog.Logger
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

func NewCleanupScheduler(cleaner *Cleaner, interval time.Duration, logger zerolog.Logger) *CleanupScheduler {
	return &CleanupScheduler{
		cleaner: cleaner,
		logger:  logger,
		ticker:  time.NewTicker(interval),
		stop:    make(chan struct{}),
	}
}

func (s *CleanupScheduler) Start() {
	go func() {
		s.runCleanup()
		for {
			select {
			case <-s.ticker.C:
				s.runCleanup()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *CleanupScheduler) runCleanup() {
	select {
	case <-s.stop:
		return
	default:
	}

	deleted, err := s.cleaner.Cleanup()
	if err != nil {
		s.logger.Error().Err(err).Msg("journal cleanup failed")
	} else if deleted > 0 {
		s.logger.Info().Int("deleted", deleted).Msg("cleaned up old journal files")
	}
}

func (s *CleanupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.stop)
	})
}
