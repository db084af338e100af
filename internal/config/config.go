package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration. An empty secret leaves the API unauthenticated.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// PayrollConfig holds batch and scheduling settings for payroll generation
type PayrollConfig struct {
	Workers            int
	BatchPolicy        string
	RateLimitPerMinute int
	ScheduleEnabled    bool
	ScheduleDay        int
	ScheduleInterval   time.Duration
	// ReportDir is where scheduled runs archive their XLSX report. Empty disables archiving.
	ReportDir          string
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Payroll configuration
	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKERS: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("PAYROLL_RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_RATE_LIMIT_PER_MINUTE: %w", err)
	}

	scheduleEnabled, err := strconv.ParseBool(getEnv("PAYROLL_SCHEDULE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SCHEDULE_ENABLED: %w", err)
	}

	scheduleDay, err := strconv.Atoi(getEnv("PAYROLL_SCHEDULE_DAY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SCHEDULE_DAY: %w", err)
	}

	scheduleInterval, err := time.ParseDuration(getEnv("PAYROLL_SCHEDULE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SCHEDULE_INTERVAL: %w", err)
	}

	config.Payroll = PayrollConfig{
		Workers:            workers,
		BatchPolicy:        getEnv("PAYROLL_BATCH_POLICY", "fail_fast"),
		RateLimitPerMinute: rateLimit,
		ScheduleEnabled:    scheduleEnabled,
		ScheduleDay:        scheduleDay,
		ScheduleInterval:   scheduleInterval,
		ReportDir:          getEnv("PAYROLL_REPORT_DIR", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	if c.Payroll.BatchPolicy != "fail_fast" && c.Payroll.BatchPolicy != "best_effort" {
		return fmt.Errorf("PAYROLL_BATCH_POLICY must be fail_fast or best_effort")
	}
	if c.Payroll.RateLimitPerMinute < 0 {
		return fmt.Errorf("PAYROLL_RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.Payroll.ScheduleDay < 1 || c.Payroll.ScheduleDay > 28 {
		return fmt.Errorf("PAYROLL_SCHEDULE_DAY must be between 1 and 28")
	}
	if c.Payroll.ScheduleInterval <= 0 {
		return fmt.Errorf("PAYROLL_SCHEDULE_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
