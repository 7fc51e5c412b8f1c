package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hyperscout/internal/secrets"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Hyperliquid info API
	APIBaseURL       string
	APITimeout       time.Duration
	FetchInterval    time.Duration // minimum spacing between request starts, shared globally
	FetchConcurrency int

	// Analysis tuning
	TransferTolerance float64 // equity deviation fraction that marks a day as a transfer
	MaxTransferCount  int     // transfers tolerated before the wallet is written off
	MinHistoryDays    int

	// Ranking criteria
	MinSharpe            float64
	MaxSharpe            float64 // <= 0 disables the upper bound
	MaxDrawdown          float64
	ExcludeHyperScrapers bool

	// Input/output
	InputCSV  string
	OutputCSV string

	// Database (optional; empty DSN disables persistence)
	DatabaseDSN         string
	DatabaseMaxConns    int
	DatabaseMaxIdleTime time.Duration

	// Notifications
	NotifyMode        string // log, discord, smtp (comma-separated)
	NotifyTopN        int
	DiscordWebhookURL string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	SMTPFrom          string
	SMTPTo            []string

	// Metrics/Health (0 disables the HTTP server)
	MetricsPort int
}

// Load reads configuration from the environment (and .env, if present)
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:          getEnv("ENVIRONMENT", "production"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		APIBaseURL:           getEnv("HYPERLIQUID_API_URL", "https://api.hyperliquid.xyz/info"),
		APITimeout:           time.Duration(getEnvInt("API_TIMEOUT_SEC", 20)) * time.Second,
		FetchInterval:        time.Duration(getEnvInt("FETCH_INTERVAL_MS", 500)) * time.Millisecond,
		FetchConcurrency:     getEnvInt("FETCH_CONCURRENCY", 50),
		TransferTolerance:    getEnvFloat("TRANSFER_TOLERANCE", 0.10),
		MaxTransferCount:     getEnvInt("MAX_TRANSFER_COUNT", 5),
		MinHistoryDays:       getEnvInt("MIN_HISTORY_DAYS", 10),
		MinSharpe:            getEnvFloat("MIN_SHARPE", 1.5),
		MaxSharpe:            getEnvFloat("MAX_SHARPE", 50),
		MaxDrawdown:          getEnvFloat("MAX_DRAWDOWN", 0.5),
		ExcludeHyperScrapers: getEnvBool("EXCLUDE_HYPER_SCRAPERS", true),
		InputCSV:             getEnv("INPUT_CSV", "wallet_library.csv"),
		OutputCSV:            getEnv("OUTPUT_CSV", "wallet_metrics.csv"),
		DatabaseDSN:          secrets.GetOptionalSecret("DATABASE_DSN", ""),
		DatabaseMaxConns:     getEnvInt("DATABASE_MAX_CONNS", 25),
		DatabaseMaxIdleTime:  time.Duration(getEnvInt("DATABASE_MAX_IDLE_TIME_MINS", 5)) * time.Minute,
		NotifyMode:           getEnv("NOTIFY_MODE", "log"),
		NotifyTopN:           getEnvInt("NOTIFY_TOP_N", 10),
		DiscordWebhookURL:    secrets.GetOptionalSecret("DISCORD_WEBHOOK_URL", ""),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         secrets.GetOptionalSecret("SMTP_PASSWORD", ""),
		SMTPFrom:             getEnv("SMTP_FROM", "hyperscout@example.com"),
		MetricsPort:          getEnvInt("METRICS_PORT", 9090),
	}

	if smtpTo := getEnv("SMTP_TO", ""); smtpTo != "" {
		for _, addr := range strings.Split(smtpTo, ",") {
			if trimmed := strings.TrimSpace(addr); trimmed != "" {
				cfg.SMTPTo = append(cfg.SMTPTo, trimmed)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("HYPERLIQUID_API_URL is required")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1")
	}
	if c.TransferTolerance <= 0 {
		return fmt.Errorf("TRANSFER_TOLERANCE must be positive")
	}
	if c.MaxTransferCount < 0 {
		return fmt.Errorf("MAX_TRANSFER_COUNT must not be negative")
	}
	if c.MinHistoryDays < 1 {
		return fmt.Errorf("MIN_HISTORY_DAYS must be at least 1")
	}
	if c.MaxDrawdown < 0 {
		return fmt.Errorf("MAX_DRAWDOWN must not be negative")
	}

	hasDiscord := false
	hasSMTP := false
	for _, mode := range strings.Split(c.NotifyMode, ",") {
		switch strings.TrimSpace(mode) {
		case "log":
		case "discord":
			hasDiscord = true
		case "smtp":
			hasSMTP = true
		default:
			return fmt.Errorf("invalid NOTIFY_MODE value: %s (valid values: log, discord, smtp)", mode)
		}
	}
	if hasDiscord && c.DiscordWebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required when discord is in NOTIFY_MODE")
	}
	if hasSMTP && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when smtp is in NOTIFY_MODE")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
