// Orderflow serves the order lifecycle and proof-of-delivery API.
//
//	@title						Orderflow API
//	@version					1.0
//	@description				Order lifecycle, proof-of-delivery tokens and origin order milestones.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

//go:generate go run github.com/swaggo/swag/cmd/swag init -g cmd/app/main.go -d ../.. -o ../../docs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	_ "orderflow/docs"
	httpin "orderflow/internal/adapters/in/http"
	kafka_adapter "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/metrics"
	postgres_adapter "orderflow/internal/adapters/out/postgres"
	redis_adapter "orderflow/internal/adapters/out/redis"
	"orderflow/internal/generated/servers"
	"orderflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Info("no .env file loaded, using process environment")
	}

	if err := run(); err != nil {
		log.Fatalf("orderflow: %v", err)
	}
}

// run wires the application and blocks until the server stops. Every resource it
// opens is closed by a defer before it returns, including on startup errors.
func run() error {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	gormDB, err := openDatabase(configs)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		defer closeQuietly(logger, "database", sqlDB.Close)
	}
	if err = postgres_adapter.Migrate(gormDB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	verificationMetrics, err := metrics.NewVerificationMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	infra := cmd.Infrastructure{
		Metrics: verificationMetrics,
		Logger:  logger,
	}

	if brokers := configs.KafkaBrokers(); len(brokers) > 0 {
		producer := kafka_adapter.NewOrderChangedProducer(brokers, configs.KafkaOrderChangedTopic)
		defer closeQuietly(logger, "kafka producer", producer.Close)
		infra.Publisher = producer
	} else {
		logger.Warn("KAFKA_HOST not set, order events will not be published")
	}

	if configs.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
		defer closeQuietly(logger, "redis client", redisClient.Close)

		limiter, limiterErr := redis_adapter.NewSlidingWindowLimiter(redisClient, configs.VerifyAttemptLimit, configs.VerifyAttemptWindow)
		if limiterErr != nil {
			return fmt.Errorf("failed to create attempt limiter: %w", limiterErr)
		}
		infra.Limiter = limiter
	} else {
		logger.Warn("REDIS_ADDR not set, verification attempts are not limited")
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, infra)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	expireHandler := app.CreateExpireDeliveryTokensCommandHandler()
	jobManager := jobs.NewJobManager(&expireHandler, jobs.SweepConfig{
		Schedule:  configs.TokenSweepSchedule,
		BatchSize: configs.TokenSweepBatchSize,
	}, logger)
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("failed to start jobs: %w", err)
	}
	defer jobManager.StopAll()

	return startWebServer(app, configs, registry, logger)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}

	if configs.DBDriver == cmd.DriverSQLite {
		return gorm.Open(sqlite.Open(configs.SQLitePath), gormConfig)
	}

	sqlDB, err := sql.Open("postgres", configs.PostgresDSN())
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
}

func startWebServer(app cmd.CompositionRoot, configs cmd.Config, registry *prometheus.Registry, logger *slog.Logger) error {
	jwtValidator, err := httpin.NewJWTValidator(httpin.AuthConfig{
		Secret:   []byte(configs.AuthSecret),
		Issuer:   configs.AuthIssuer,
		Audience: configs.AuthAudience,
	})
	if err != nil {
		return fmt.Errorf("failed to create jwt validator: %w", err)
	}

	swagger, err := servers.GetSwagger()
	if err != nil {
		return fmt.Errorf("failed to load openapi document: %w", err)
	}

	server := httpin.NewServer(app.HTTPHandlers(), logger)
	e, err := httpin.NewRouter(server, httpin.RouterConfig{
		Auth:    httpin.Authenticate(jwtValidator, logger),
		Swagger: swagger,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func closeQuietly(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("close failed", "resource", name, "error", err)
	}
}
