package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Events recorded by aggregates written through its repositories are published
// only after Commit succeeds.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then publishes tracked events.
	// A publishing failure is logged and does not undo the commit.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and discards tracked events.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	OriginOrderRepository() OriginOrderRepository
	CartRepository() CartRepository
}
