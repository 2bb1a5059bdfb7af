package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	// Опорная зона сервиса: TIMEZONE (IANA) либо фиксированное смещение UTC_OFFSET_MINUTES
	Location      *time.Location
	MinWindow     time.Duration
	OverlapScope  string
	CancelPolicy  string
	SweepInterval time.Duration

	AdminTelegramIDs []int64
	HostInviteCode   string

	SMTP      SMTPConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CalDAV    CalDAVConfig
	Google    GoogleConfig
	Telemetry TelemetryConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type KafkaConfig struct {
	Brokers string
	Topic   string
}

func (c KafkaConfig) Enabled() bool { return c.Brokers != "" }

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// RateLimitConfig ограничение попыток бронирования на пользователя
type RateLimitConfig struct {
	Limit    int
	Window   time.Duration
	FailOpen bool
}

type CalDAVConfig struct {
	Endpoint string
	Username string
	Password string
	Calendar string
}

func (c CalDAVConfig) Enabled() bool { return c.Endpoint != "" }

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CalendarID   string
}

func (c GoogleConfig) Enabled() bool { return c.ClientID != "" }

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Отсутствие .env не ошибка: в контейнере всё приходит через окружение
	_ = godotenv.Load(".env")

	var errs []error
	p := parser{errs: &errs}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV", "development"),

		MinWindow:     time.Duration(p.getInt("MIN_WINDOW_MINUTES", 30)) * time.Minute,
		OverlapScope:  getenv("OVERLAP_SCOPE", "program"),
		CancelPolicy:  getenv("CANCEL_POLICY", "revert"),
		SweepInterval: p.getDuration("SWEEP_INTERVAL", 15*time.Minute),

		AdminTelegramIDs: p.getInt64List("ADMIN_TELEGRAM_IDS"),
		HostInviteCode:   os.Getenv("HOST_INVITE_CODE"),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     p.getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   getenv("KAFKA_TOPIC", "officehours.notifications"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       p.getInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Limit:    p.getInt("RATE_LIMIT_RESERVE", 5),
			Window:   p.getDuration("RATE_LIMIT_WINDOW", time.Minute),
			FailOpen: p.getBool("RATE_LIMIT_FAIL_OPEN", true),
		},
		CalDAV: CalDAVConfig{
			Endpoint: os.Getenv("CALDAV_ENDPOINT"),
			Username: os.Getenv("CALDAV_USERNAME"),
			Password: os.Getenv("CALDAV_PASSWORD"),
			Calendar: getenv("CALDAV_CALENDAR", "Office Hours"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			TokenFile:    getenv("GOOGLE_TOKEN_FILE", "google_token.json"),
			CalendarID:   getenv("GOOGLE_CALENDAR_ID", "primary"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     p.getBool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio: p.getFloat("OTEL_SAMPLING_RATIO", 1),
		},
	}

	loc, err := timewindow.LoadLocation(os.Getenv("TIMEZONE"), p.getInt("UTC_OFFSET_MINUTES", -480))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Location = loc

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required but not set"))
	}
	if cfg.MinWindow <= 0 {
		errs = append(errs, errors.New("MIN_WINDOW_MINUTES must be positive"))
	}
	if cfg.SweepInterval <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL must be positive"))
	}
	if cfg.OverlapScope != "program" && cfg.OverlapScope != "host" {
		errs = append(errs, fmt.Errorf("OVERLAP_SCOPE must be program or host, got %q", cfg.OverlapScope))
	}
	if cfg.CancelPolicy != "revert" && cfg.CancelPolicy != "delete" {
		errs = append(errs, fmt.Errorf("CANCEL_POLICY must be revert or delete, got %q", cfg.CancelPolicy))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_SAMPLING_RATIO must be within [0, 1]"))
	}
	if cfg.SMTP.Enabled() && cfg.SMTP.From == "" {
		errs = append(errs, errors.New("SMTP_FROM is required when SMTP_HOST is set"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// IsAdmin проверяет, входит ли telegram id в ADMIN_TELEGRAM_IDS
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parser копит ошибки разбора, чтобы показать их все разом
type parser struct {
	errs *[]error
}

func (p parser) fail(key, raw string, err error) {
	*p.errs = append(*p.errs, fmt.Errorf("%s=%q: %w", key, raw, err))
}

func (p parser) getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p parser) getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p parser) getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p parser) getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

// getInt64List разбирает список через запятую
func (p parser) getInt64List(key string) []int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			p.fail(key, raw, err)
			return nil
		}
		out = append(out, v)
	}
	return out
}
