// Package watch re-runs the reporting pipeline on a cron schedule.
package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler runs one job on a cron schedule, never concurrently with
// itself.
type Scheduler struct {
	cron      *cron.Cron
	logger    arbor.ILogger
	mu        sync.Mutex
	running   bool
	isRunning bool
	lastRun   *time.Time
	lastError string
}

// NewScheduler creates a new scheduler
func NewScheduler(logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the job under the given cron expression and begins the
// schedule. The job also runs once immediately.
func (s *Scheduler) Start(schedule string, job func() error) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	run := func() {
		s.mu.Lock()
		if s.isRunning {
			s.mu.Unlock()
			s.logger.Warn().Msg("Previous run still in progress, skipping")
			return
		}
		s.isRunning = true
		s.mu.Unlock()

		started := time.Now()
		err := job()

		s.mu.Lock()
		s.isRunning = false
		s.lastRun = &started
		if err != nil {
			s.lastError = err.Error()
			s.logger.Error().Err(err).Msg("Scheduled run failed")
		} else {
			s.lastError = ""
			s.logger.Info().
				Str("duration", time.Since(started).String()).
				Msg("Scheduled run completed")
		}
		s.mu.Unlock()
	}

	if _, err := s.cron.AddFunc(schedule, run); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}

	s.running = true
	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Watch mode started")

	// First run happens now rather than at the first cron tick.
	go run()

	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info().Msg("Watch mode stopped")
}

// LastError returns the error message of the most recent run, empty when
// the run succeeded.
func (s *Scheduler) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
