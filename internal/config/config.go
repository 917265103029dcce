// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config is the server configuration
type Config struct {
	Host      string
	Port      int
	LogLevel  slog.Level
	LogFormat string

	StorageType string
	RedisURL    string
	DatabaseURL string

	// AllowedOrigins limits websocket event subscriptions; empty allows any
	AllowedOrigins []string

	WordsAPIURL     string
	WordsAPITimeout time.Duration
	// WordsDir holds optional <list>_<locale>.txt files preloaded into the word cache
	WordsDir string

	RateLimitRPS   float64
	RateLimitBurst int

	TickInterval time.Duration
	TokenCost    int
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:            8080,
		LogLevel:        slog.LevelInfo,
		LogFormat:       "json",
		StorageType:     StorageMemory,
		WordsAPIURL:     "http://localhost:5400/api",
		WordsAPITimeout: 10 * time.Second,
		RateLimitRPS:    20,
		RateLimitBurst:  40,
		TickInterval:    250 * time.Millisecond,
		TokenCost:       10,
	}
}

// Load reads .env files (if present) and then the environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("HOST", &cfg.Host)
	integer("PORT", &cfg.Port)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("STORAGE_TYPE", &cfg.StorageType)
	str("REDIS_URL", &cfg.RedisURL)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("WORDS_API_URL", &cfg.WordsAPIURL)
	duration("WORDS_API_TIMEOUT", &cfg.WordsAPITimeout)
	str("WORDS_DIR", &cfg.WordsDir)
	integer("RATE_LIMIT_BURST", &cfg.RateLimitBurst)
	duration("TICK_INTERVAL", &cfg.TickInterval)
	integer("TOKEN_COST", &cfg.TokenCost)

	if v := strings.TrimSpace(getenv("RATE_LIMIT_RPS")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: %w", err))
		} else {
			cfg.RateLimitRPS = rps
		}
	}
	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that cannot be fixed by a default
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory', 'redis' or 'postgres'", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.TickInterval <= 0 {
		return errors.New("TICK_INTERVAL must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be 'json' or 'text'", c.LogFormat)
	}
	return nil
}

// Logger builds the process logger from the log settings
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
