package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8008"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"learning-tracker.db"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-default:"development-insecure-secret-change-me"`
	Issuer   string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"learning-tracker-api"`
	Audience string        `yaml:"audience" env:"JWT_AUDIENCE" env-default:"learning-tracker-clients"`
	TTL      time.Duration `yaml:"ttl" env:"JWT_TTL" env-default:"24h"`
}

type TrackerConfig struct {
	Timezone        string `yaml:"timezone" env:"TRACKER_TIMEZONE" env-default:"UTC"`
	WeekStart       string `yaml:"week_start" env:"TRACKER_WEEK_START" env-default:"sunday"`
	CalendarMaxDays int    `yaml:"calendar_max_days" env:"TRACKER_CALENDAR_MAX_DAYS" env-default:"3650"`
}

type CacheConfig struct {
	// Backend is one of memory, database or none.
	Backend string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	TTL     time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
}

type JobsConfig struct {
	PurgeSchedule string `yaml:"purge_schedule" env:"JOBS_PURGE_SCHEDULE" env-default:"@every 10m"`
	RetentionDays int    `yaml:"retention_days" env:"JOBS_RETENTION_DAYS" env-default:"400"`
}

type Config struct {
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	JWT      JWTConfig     `yaml:"jwt"`
	Tracker  TrackerConfig `yaml:"tracker"`
	Cache    CacheConfig   `yaml:"cache"`
	Jobs     JobsConfig    `yaml:"jobs"`
}

// Load reads configPath when it exists and falls back to the environment otherwise.
// Environment variables override file values either way.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
		return cfg, cfg.Validate()
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks values cleanenv cannot express as tags.
func (c Config) Validate() error {
	if _, err := c.Tracker.Location(); err != nil {
		return err
	}
	if _, err := c.Tracker.FirstWeekday(); err != nil {
		return err
	}
	if c.Tracker.CalendarMaxDays < 1 {
		return fmt.Errorf("tracker.calendar_max_days must be positive, got %d", c.Tracker.CalendarMaxDays)
	}
	switch c.Cache.Backend {
	case "memory", "database", "none":
	default:
		return fmt.Errorf("cache.backend must be memory, database or none, got %q", c.Cache.Backend)
	}
	if c.Jobs.RetentionDays < 1 {
		return fmt.Errorf("jobs.retention_days must be positive, got %d", c.Jobs.RetentionDays)
	}
	return nil
}

// Location resolves the tracker timezone.
func (t TrackerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("tracker.timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

// FirstWeekday resolves the configured week start. Only sunday and monday are accepted.
func (t TrackerConfig) FirstWeekday() (time.Weekday, error) {
	switch t.WeekStart {
	case "sunday", "Sunday":
		return time.Sunday, nil
	case "monday", "Monday":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("tracker.week_start must be sunday or monday, got %q", t.WeekStart)
}
