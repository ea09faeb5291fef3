// Package config loads service settings: .env file, then environment, then flags.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port int `env:"PORT"`

	Log       Log       `envPrefix:"LOG_"`
	Dispatch  Dispatch  `envPrefix:"DISPATCH_"`
	Kitchen   Kitchen   `envPrefix:"KITCHEN_"`
	Seed      Seed      `envPrefix:"SEED_"`
	DB        DB        `envPrefix:"POSTGRES_"`
	Directory Directory `envPrefix:"DIRECTORY_"`
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	Pprof     Pprof     `envPrefix:"PPROF_"`
}

// Log selects the logging backend.
type Log struct {
	Backend string `env:"BACKEND"` // slog | zap
	Format  string `env:"FORMAT"`  // json | text, slog only
	Level   string `env:"LEVEL"`
}

// Dispatch holds coordinator settings.
type Dispatch struct {
	AcceptanceWindow  time.Duration `env:"ACCEPTANCE_WINDOW"`
	DecisionWindow    time.Duration `env:"DECISION_WINDOW"`
	EmptyPoolPolicy   string        `env:"EMPTY_POOL_POLICY"`
	MaxReopens        int           `env:"MAX_REOPENS"`
	EarlyCloseAt      int           `env:"EARLY_CLOSE_AT"`
	WeightScore       float64       `env:"WEIGHT_SCORE"`
	WeightDistance    float64       `env:"WEIGHT_DISTANCE"`
	ReconcileSchedule string        `env:"RECONCILE_SCHEDULE"`
	NotifyTimeout     time.Duration `env:"NOTIFY_TIMEOUT"`
}

// Kitchen configures the restaurant simulator. Zero Delay disables it.
type Kitchen struct {
	Delay time.Duration `env:"DELAY"`
}

// Seed describes the static courier directory used when no database is configured.
type Seed struct {
	Couriers    string `env:"COURIERS"`    // id:score:lat:lon,...
	Restaurants string `env:"RESTAURANTS"` // id:lat:lon,...
}

// DB stores Postgres settings. An empty DSN keeps the directory in memory.
type DB struct {
	DSN      string `env:"DSN"`
	MaxConns int32  `env:"MAX_CONNS"`
}

// Directory configures retries of courier directory lookups.
type Directory struct {
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS"`
	BaseDelay   time.Duration `env:"RETRY_BASE_DELAY"`
	MaxDelay    time.Duration `env:"RETRY_MAX_DELAY"`
	Timeout     time.Duration `env:"TIMEOUT"`
}

// Kafka stores broker settings. Empty Brokers disables both consumer and publisher.
type Kafka struct {
	Brokers            []string `env:"BROKERS" envSeparator:","`
	GroupID            string   `env:"GROUP_ID"`
	OrdersTopic        string   `env:"ORDERS_TOPIC"`
	NotificationsTopic string   `env:"NOTIFICATIONS_TOPIC"`
}

// RateLimit stores per-actor rate limit settings.
type RateLimit struct {
	Enabled    bool          `env:"ENABLED"`
	Rate       float64       `env:"RATE"`
	Burst      int           `env:"BURST"`
	TTL        time.Duration `env:"TTL"`
	MaxBuckets int           `env:"MAX_BUCKETS"`
}

// Pprof configures the profiling listener. Non-loopback callers need User and Pass.
type Pprof struct {
	Enabled bool   `env:"ENABLED"`
	Addr    string `env:"ADDR"`
	User    string `env:"USER"`
	Pass    string `env:"PASS"`
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}
	return load(pflag.CommandLine, os.Args[1:])
}

func load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.Dispatch.AcceptanceWindow, "acceptance-window", cfg.Dispatch.AcceptanceWindow, "courier acceptance window")
	fs.DurationVar(&cfg.Dispatch.DecisionWindow, "decision-window", cfg.Dispatch.DecisionWindow, "manager decision window")
	fs.StringVar(&cfg.Dispatch.EmptyPoolPolicy, "empty-pool-policy", cfg.Dispatch.EmptyPoolPolicy, "fail or reopen when no courier accepts")
	fs.DurationVar(&cfg.Kitchen.Delay, "kitchen-delay", cfg.Kitchen.Delay, "simulated preparation time, 0 disables")
	fs.StringVar(&cfg.DB.DSN, "dsn", cfg.DB.DSN, "postgres DSN")
	fs.StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", cfg.Kafka.Brokers, "kafka brokers")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	switch c.Log.Backend {
	case "slog", "zap":
	default:
		errs = append(errs, fmt.Errorf("invalid log backend: %q", c.Log.Backend))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %q", c.Log.Format))
	}

	d := c.Dispatch
	if d.AcceptanceWindow <= 0 || d.DecisionWindow <= 0 {
		errs = append(errs, fmt.Errorf("windows must be positive: acceptance=%s decision=%s", d.AcceptanceWindow, d.DecisionWindow))
	}
	switch strings.ToLower(d.EmptyPoolPolicy) {
	case "fail", "reopen":
	default:
		errs = append(errs, fmt.Errorf("invalid empty pool policy: %q", d.EmptyPoolPolicy))
	}
	if d.MaxReopens < 0 || d.EarlyCloseAt < 0 {
		errs = append(errs, fmt.Errorf("max reopens and early close must not be negative"))
	}
	if d.NotifyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid notify timeout: %s", d.NotifyTimeout))
	}
	if d.WeightScore < 0 || d.WeightDistance < 0 {
		errs = append(errs, fmt.Errorf("scoring weights must not be negative"))
	}

	if c.Kitchen.Delay < 0 {
		errs = append(errs, fmt.Errorf("invalid kitchen delay: %s", c.Kitchen.Delay))
	}
	if c.DB.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("invalid postgres max conns: %d", c.DB.MaxConns))
	}
	if c.Directory.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("directory retry attempts must be at least 1"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.GroupID == "" {
		errs = append(errs, fmt.Errorf("kafka group id is required with brokers"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("rate limit needs positive rate and burst"))
	}
	if c.Pprof.Enabled && strings.TrimSpace(c.Pprof.Addr) == "" {
		errs = append(errs, fmt.Errorf("pprof address is required when enabled"))
	}
	return errors.Join(errs...)
}
