package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	SQLitePath string

	DeliveryTokenSecret string
	DeliveryTokenTTL    time.Duration

	AuthIssuer   string
	AuthAudience string
	AuthSecret   string

	RedisAddr           string
	VerifyAttemptLimit  int
	VerifyAttemptWindow time.Duration

	KafkaHost              string
	KafkaOrderChangedTopic string

	TokenSweepSchedule  string
	TokenSweepBatchSize int
}

// LoadConfig reads the configuration from the environment, applying defaults for
// everything except secrets, and validates it.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		DBDriver:               getEnv("DB_DRIVER", DriverPostgres),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 getEnv("DB_NAME", "orderflow"),
		DBSslMode:              getEnv("DB_SSLMODE", "disable"),
		SQLitePath:             getEnv("SQLITE_PATH", "orderflow.db"),
		DeliveryTokenSecret:    os.Getenv("DELIVERY_TOKEN_SECRET"),
		AuthIssuer:             os.Getenv("AUTH_ISSUER"),
		AuthAudience:           os.Getenv("AUTH_AUDIENCE"),
		AuthSecret:             os.Getenv("AUTH_SECRET"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: getEnv("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		TokenSweepSchedule:     getEnv("TOKEN_SWEEP_SCHEDULE", jobs.DefaultSweepSchedule),
	}

	var err error
	if cfg.DeliveryTokenTTL, err = getEnvDuration("DELIVERY_TOKEN_TTL", services.DefaultTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.VerifyAttemptWindow, err = getEnvDuration("VERIFY_ATTEMPT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.VerifyAttemptLimit, err = getEnvInt("VERIFY_ATTEMPT_LIMIT", 5); err != nil {
		return Config{}, err
	}
	if cfg.TokenSweepBatchSize, err = getEnvInt("TOKEN_SWEEP_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []error

	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		problems = append(problems, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if len(c.DeliveryTokenSecret) < services.MinSecretLength {
		problems = append(problems, fmt.Errorf("DELIVERY_TOKEN_SECRET must be at least %d bytes", services.MinSecretLength))
	}
	if c.DeliveryTokenTTL <= 0 {
		problems = append(problems, errors.New("DELIVERY_TOKEN_TTL must be > 0"))
	}
	if c.AuthSecret == "" {
		problems = append(problems, errors.New("AUTH_SECRET must not be empty"))
	}
	if c.AuthIssuer == "" {
		problems = append(problems, errors.New("AUTH_ISSUER must not be empty"))
	}
	if c.AuthAudience == "" {
		problems = append(problems, errors.New("AUTH_AUDIENCE must not be empty"))
	}
	if c.VerifyAttemptLimit <= 0 {
		problems = append(problems, errors.New("VERIFY_ATTEMPT_LIMIT must be > 0"))
	}
	if c.VerifyAttemptWindow <= 0 {
		problems = append(problems, errors.New("VERIFY_ATTEMPT_WINDOW must be > 0"))
	}
	if c.TokenSweepBatchSize <= 0 {
		problems = append(problems, errors.New("TOKEN_SWEEP_BATCH_SIZE must be > 0"))
	}
	if c.KafkaHost != "" && c.KafkaOrderChangedTopic == "" {
		problems = append(problems, errors.New("KAFKA_ORDER_CHANGED_TOPIC must not be empty when KAFKA_HOST is set"))
	}

	return errors.Join(problems...)
}

// PostgresDSN renders the lib/pq connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
