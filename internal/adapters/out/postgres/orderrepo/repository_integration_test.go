package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestOrderRepositoryPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	suite.Run(t, &OrderRepositoryTestSuite{
		openDB: func() *gorm.DB {
			db, openErr := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
			require.NoError(t, openErr)
			return db
		},
		cleanup: func(db *gorm.DB) error {
			return db.Exec("TRUNCATE TABLE order_items, orders").Error
		},
		close: func() {
			require.NoError(t, container.Terminate(context.Background()))
		},
	})
}
