package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	tokenSweepJob *TokenSweepJob
}

// SweepConfig controls the expired token sweeper.
type SweepConfig struct {
	Schedule  string
	BatchSize int
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(expirer TokenExpirer, sweep SweepConfig, logger *slog.Logger) *JobManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobManager{
		tokenSweepJob: NewTokenSweepJob(expirer, sweep.Schedule, sweep.BatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.tokenSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start token sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.tokenSweepJob.Stop()
}
