package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweeper every thirty seconds.
const DefaultSweepSchedule = "*/30 * * * * *"

// TokenExpirer clears expired delivery tokens and reports how many it cleared.
type TokenExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireDeliveryTokensCommand) (int, error)
}

// TokenSweepJob periodically returns orders whose delivery token expired to
// verification pending.
type TokenSweepJob struct {
	expirer   TokenExpirer
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewTokenSweepJob creates the sweeper. schedule is a six-field cron expression
// (with seconds); an empty schedule uses DefaultSweepSchedule.
func NewTokenSweepJob(expirer TokenExpirer, schedule string, batchSize int, logger *slog.Logger) *TokenSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &TokenSweepJob{
		expirer:   expirer,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "token_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *TokenSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Token sweep job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single sweep and returns the number of tokens cleared.
func (j *TokenSweepJob) RunOnce(ctx context.Context) int {
	cmd, err := commands.NewExpireDeliveryTokensCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Token sweep misconfigured", "error", err)
		return 0
	}

	expired, err := j.expirer.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Token sweep failed", "error", err)
		return 0
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Expired delivery tokens cleared", "count", expired)
	}
	return expired
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *TokenSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Token sweep job stopped")
}
