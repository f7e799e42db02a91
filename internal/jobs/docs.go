// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with seconds)
// and delegate their work to command handlers.
//
// # Available Jobs
//
// TokenSweepJob clears delivery tokens whose expiry has passed and returns those
// orders to verification pending. Order status is never changed by the sweep.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(&expireHandler, jobs.SweepConfig{BatchSize: 100}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Sweep failures are logged and retried on the next tick. Orders changed
// concurrently during a sweep are skipped by the handler and picked up later.
package jobs
