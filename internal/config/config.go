package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// MemoryDatabase selects the in-memory store instead of Postgres.
const MemoryDatabase = "memory"

type Config struct {
	HTTPAddr       string
	DatabaseURL    string
	MigrationsPath string

	JWTSecret    string
	JWTExpiresIn time.Duration

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	DiscordToken string

	DefaultLocale string
	LogLevel      zerolog.Level

	RateLimitRPS   float64
	RateLimitBurst int

	ReminderSchedule string
	ReminderLead     time.Duration
}

// UseMemory reports whether DATABASE_URL selects the in-memory store.
func (c *Config) UseMemory() bool {
	return c.DatabaseURL == MemoryDatabase
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		DatabaseURL:      env("DATABASE_URL", "postgres://localhost:5432/sportmeet?sslmode=disable"),
		MigrationsPath:   env("MIGRATIONS_PATH", "migrations"),
		JWTSecret:        getenv("JWT_SECRET"),
		AMQPURL:          env("AMQP_URL", ""),
		AMQPExchange:     env("AMQP_EXCHANGE", "sportmeet.notifications"),
		AMQPQueue:        env("AMQP_QUEUE", "sportmeet.notifications"),
		DiscordToken:     env("DISCORD_TOKEN", ""),
		DefaultLocale:    env("DEFAULT_LOCALE", "cs"),
		ReminderSchedule: env("REMINDER_SCHEDULE", "@every 10m"),
	}

	var errs []error
	var err error
	if cfg.JWTExpiresIn, err = time.ParseDuration(env("JWT_EXPIRES_IN", "168h")); err != nil {
		errs = append(errs, fmt.Errorf("config: JWT_EXPIRES_IN: %w", err))
	}
	if cfg.ReminderLead, err = time.ParseDuration(env("REMINDER_LEAD", "2h")); err != nil {
		errs = append(errs, fmt.Errorf("config: REMINDER_LEAD: %w", err))
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(env("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("config: LOG_LEVEL: %w", err))
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(env("RATE_LIMIT_RPS", "10"), 64); err != nil {
		errs = append(errs, fmt.Errorf("config: RATE_LIMIT_RPS: %w", err))
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(env("RATE_LIMIT_BURST", "20")); err != nil {
		errs = append(errs, fmt.Errorf("config: RATE_LIMIT_BURST: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_IN must be positive")
	}
	if c.ReminderLead <= 0 {
		return fmt.Errorf("config: REMINDER_LEAD must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.DefaultLocale != "cs" && c.DefaultLocale != "en" {
		return fmt.Errorf("config: DEFAULT_LOCALE must be cs or en, got %q", c.DefaultLocale)
	}
	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		return fmt.Errorf("config: REMINDER_SCHEDULE %q: %w", c.ReminderSchedule, err)
	}

	if !c.UseMemory() {
		if err := requireURL("DATABASE_URL", c.DatabaseURL, "postgres", "postgresql"); err != nil {
			return err
		}
	}
	if c.AMQPURL != "" {
		if err := requireURL("AMQP_URL", c.AMQPURL, "amqp", "amqps"); err != nil {
			return err
		}
	}
	return nil
}

func requireURL(name, raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s invalid (%q): %w", name, raw, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: %s invalid (%q): missing host", name, raw)
	}
	for _, s := range schemes {
		if parsed.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("config: %s invalid (%q): scheme must be one of %s", name, raw, strings.Join(schemes, ", "))
}
