package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	AuthSecret           string
	AdminPasswordHash    string
	CronSecret           string
	NotifyWebhookURL     string
	GenerationWindowDays int
	RegenerateInterval   time.Duration
	WorkerPoolSize       int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress           = ":8080"
	defaultAuthSecret           = "change-me-in-production"
	defaultGenerationWindowDays = 10
	defaultRegenerateInterval   = 24 * time.Hour
	defaultWorkerPoolSize       = 4
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		AuthSecret:           getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AdminPasswordHash:    getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		CronSecret:           getString(lookup, "CRON_SECRET", ""),
		NotifyWebhookURL:     getString(lookup, "NOTIFY_WEBHOOK_URL", ""),
		GenerationWindowDays: getInt(lookup, "GENERATION_WINDOW_DAYS", defaultGenerationWindowDays),
		RegenerateInterval:   getDuration(lookup, "REGENERATE_INTERVAL", defaultRegenerateInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("standingd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		regenerateIntervalStr = cfg.RegenerateInterval.String()
		shutdownTimeoutStr    = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing admin tokens")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-password-hash", cfg.AdminPasswordHash, "Bcrypt hash of the admin password")
	fs.StringVar(&cfg.CronSecret, "cron-secret", cfg.CronSecret, "Shared secret for the cron regeneration endpoint")
	fs.StringVar(&cfg.NotifyWebhookURL, "notify-url", cfg.NotifyWebhookURL, "Webhook URL notified about generated orders")
	fs.IntVar(&cfg.GenerationWindowDays, "window", cfg.GenerationWindowDays, "Days ahead covered by occurrence generation")
	fs.StringVar(&regenerateIntervalStr, "regenerate-interval", regenerateIntervalStr, "Interval between rolling regeneration passes (0 disables)")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent regeneration workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RegenerateInterval, err = time.ParseDuration(regenerateIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid regenerate interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.GenerationWindowDays <= 0 {
		cfg.GenerationWindowDays = defaultGenerationWindowDays
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.RegenerateInterval < 0 {
		cfg.RegenerateInterval = defaultRegenerateInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
