package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "ENV", "TIMEZONE", "UTC_OFFSET_MINUTES", "MIN_WINDOW_MINUTES", "OVERLAP_SCOPE", "CANCEL_POLICY",
		"SWEEP_INTERVAL", "SMTP_HOST", "KAFKA_BROKERS", "REDIS_ADDR", "OTEL_ENABLED", "GOOGLE_CALENDAR_ID")
	t.Setenv("DB_DSN", "postgres://localhost/officehours")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 30*time.Minute, cfg.MinWindow)
	assert.Equal(t, "program", cfg.OverlapScope)
	assert.Equal(t, "revert", cfg.CancelPolicy)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)

	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, cfg.Location).Zone()
	assert.Equal(t, -8*3600, offset)

	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "primary", cfg.Google.CalendarID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/officehours")
	t.Setenv("ENV", "production")
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("MIN_WINDOW_MINUTES", "45")
	t.Setenv("OVERLAP_SCOPE", "host")
	t.Setenv("CANCEL_POLICY", "delete")
	t.Setenv("ADMIN_TELEGRAM_IDS", "10, 20,")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "bot@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, 45*time.Minute, cfg.MinWindow)
	assert.Equal(t, "host", cfg.OverlapScope)
	assert.Equal(t, "delete", cfg.CancelPolicy)
	assert.Equal(t, []int64{10, 20}, cfg.AdminTelegramIDs)
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MIN_WINDOW_MINUTES", "half")
	t.Setenv("CANCEL_POLICY", "archive")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN is required")
	assert.Contains(t, err.Error(), "MIN_WINDOW_MINUTES")
	assert.Contains(t, err.Error(), "CANCEL_POLICY")
}
