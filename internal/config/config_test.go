package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.Empty(t, cfg.JWT.Secret)
	assert.Equal(t, 4, cfg.Payroll.Workers)
	assert.Equal(t, "fail_fast", cfg.Payroll.BatchPolicy)
	assert.Equal(t, 30, cfg.Payroll.RateLimitPerMinute)
	assert.False(t, cfg.Payroll.ScheduleEnabled)
	assert.Equal(t, 1, cfg.Payroll.ScheduleDay)
	assert.Equal(t, time.Hour, cfg.Payroll.ScheduleInterval)
	assert.Empty(t, cfg.Payroll.ReportDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAYROLL_WORKERS", "8")
	t.Setenv("PAYROLL_BATCH_POLICY", "best_effort")
	t.Setenv("PAYROLL_SCHEDULE_ENABLED", "true")
	t.Setenv("PAYROLL_SCHEDULE_INTERVAL", "30m")
	t.Setenv("PAYROLL_REPORT_DIR", "/var/lib/payroll/reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 8, cfg.Payroll.Workers)
	assert.Equal(t, "best_effort", cfg.Payroll.BatchPolicy)
	assert.True(t, cfg.Payroll.ScheduleEnabled)
	assert.Equal(t, 30*time.Minute, cfg.Payroll.ScheduleInterval)
	assert.Equal(t, "/var/lib/payroll/reports", cfg.Payroll.ReportDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing password", env: map[string]string{"DB_PASSWORD": ""}},
		{name: "bad port", env: map[string]string{"DB_PORT": "abc"}},
		{name: "zero workers", env: map[string]string{"PAYROLL_WORKERS": "0"}},
		{name: "unknown policy", env: map[string]string{"PAYROLL_BATCH_POLICY": "sometimes"}},
		{name: "schedule day out of range", env: map[string]string{"PAYROLL_SCHEDULE_DAY": "31"}},
		{name: "bad interval", env: map[string]string{"PAYROLL_SCHEDULE_INTERVAL": "hourly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_PASSWORD", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Name:     "payroll",
		SSLMode:  "disable",
	}}

	assert.Equal(t, "postgres://postgres:pw@localhost:5432/payroll?sslmode=disable", cfg.DatabaseURL())
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{}
	for level, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		cfg.App.LogLevel = level
		assert.Equal(t, want, cfg.SlogLevel(), level)
	}
}
