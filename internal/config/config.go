// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	Sheets SheetsConfig
	Retry  RetryConfig
	HTTP   HTTPConfig
	Lock   LockConfig

	// Warnings lists values that were ignored in favour of a default. They
	// are logged once the logger is up.
	Warnings []string
}

// SheetsConfig describes where the bike data lives.
type SheetsConfig struct {
	// SpreadsheetID is required at first use, not at startup.
	SpreadsheetID   string
	CredentialsFile string
	BikesSheet      string
	LogsSheet       string
	CallTimeout     time.Duration
	// LogTimeZone is the IANA zone used to date audit rows.
	LogTimeZone string
}

// RetryConfig parameterizes the backoff around remote calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// HTTPConfig holds server-side knobs.
type HTTPConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// LockConfig selects the conditional-write backend: "none", "local" or "redis".
type LockConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
}

const (
	DefaultCredentialsFile = "googleKey.json"
	DefaultBikesSheet      = "Bikes Database"
	DefaultLogsSheet       = "Logs"

	LockBackendNone  = "none"
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// Load reads .env (when present) and returns config populated from environment
// variables with sensible defaults. Problems with individual values end up in
// Warnings; the logger is not configured yet at this point.
func Load() Config {
	var dotenvWarning string
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		dotenvWarning = fmt.Sprintf("failed to read .env: %v", err)
	}
	cfg := FromEnv()
	if dotenvWarning != "" {
		cfg.Warnings = append([]string{dotenvWarning}, cfg.Warnings...)
	}
	return cfg
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	env := &envReader{}
	cfg := Config{
		AppEnv:   env.get("APP_ENV", "development"),
		LogLevel: env.get("LOG_LEVEL", ""),
		Port:     env.get("PORT", "8080"),
		Sheets: SheetsConfig{
			SpreadsheetID:   strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID")),
			CredentialsFile: env.get("GOOGLE_CREDENTIALS_FILE", DefaultCredentialsFile),
			BikesSheet:      env.get("BIKES_SHEET", DefaultBikesSheet),
			LogsSheet:       env.get("LOGS_SHEET", DefaultLogsSheet),
			CallTimeout:     env.duration("SHEETS_CALL_TIMEOUT", 15*time.Second),
			LogTimeZone:     env.get("LOG_TIME_ZONE", "Local"),
		},
		Retry: RetryConfig{
			MaxAttempts: env.int("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:   env.duration("RETRY_BASE_DELAY", time.Second),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: env.list("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://localhost:3000"}),
			RateLimitRPS:   env.float("RATE_LIMIT_RPS", 5),
			RateLimitBurst: env.int("RATE_LIMIT_BURST", 20),
		},
		Lock: LockConfig{
			Backend:       strings.ToLower(env.get("UPDATE_LOCK_BACKEND", LockBackendNone)),
			RedisAddr:     env.get("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			TTL:           env.duration("UPDATE_LOCK_TTL", 30*time.Second),
		},
	}
	if _, err := cfg.Sheets.loadLocation(); err != nil {
		env.warnf("invalid LOG_TIME_ZONE %q: %v, using local time", cfg.Sheets.LogTimeZone, err)
	}
	cfg.Warnings = env.warnings
	return cfg
}

// Location resolves LogTimeZone, falling back to time.Local.
func (c SheetsConfig) Location() *time.Location {
	loc, err := c.loadLocation()
	if err != nil {
		return time.Local
	}
	return loc
}

func (c SheetsConfig) loadLocation() (*time.Location, error) {
	if c.LogTimeZone == "" || c.LogTimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.LogTimeZone)
}

// Validate reports settings that can never work. A missing spreadsheet id is
// not one of them: it is surfaced on first use.
func (c Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("RETRY_BASE_DELAY must not be negative, got %s", c.Retry.BaseDelay)
	}
	switch c.Lock.Backend {
	case LockBackendNone, LockBackendLocal, LockBackendRedis:
	default:
		return fmt.Errorf("UPDATE_LOCK_BACKEND must be none, local or redis, got %q", c.Lock.Backend)
	}
	return nil
}

// envReader reads typed variables and records every value it had to ignore.
type envReader struct {
	warnings []string
}

func (e *envReader) warnf(format string, args ...interface{}) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

func (e *envReader) get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			e.warnf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			e.warnf("invalid int for %s, using fallback %d", key, fallback)
			return fallback
		}
		return parsed
	}
	return fallback
}

func (e *envReader) float(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			e.warnf("invalid float for %s, using fallback %v", key, fallback)
			return fallback
		}
		return parsed
	}
	return fallback
}

func (e *envReader) list(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
