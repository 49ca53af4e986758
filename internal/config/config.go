// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/debate-coach/internal/journal"
	"github.com/ashureev/debate-coach/internal/llm"
)

// Generator backends.
const (
	GeneratorAuto   = "auto"
	GeneratorGemini = "gemini"
	GeneratorMock   = "mock"
)

// Usage counter backends.
const (
	UsageBackendSQLite = "sqlite"
	UsageBackendRedis  = "redis"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all application configuration.
type Config struct {
	Port        string `koanf:"port"`
	Environment string `koanf:"environment"`
	FrontendURL string `koanf:"frontend_url"`
	DBPath      string `koanf:"db_path"`
	LogLevel    string `koanf:"log_level"`

	// Generator is gemini, mock, or auto (gemini when an API key is set).
	Generator         string        `koanf:"generator"`
	GeminiAPIKey      string        `koanf:"gemini_api_key"`
	GeminiModel       string        `koanf:"gemini_model"`
	GenerationTimeout time.Duration `koanf:"generation_timeout"`

	UsageBackend  string `koanf:"usage_backend"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// NATSURL enables lifecycle events when set.
	NATSURL string `koanf:"nats_url"`

	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
	TraceStdout  bool   `koanf:"trace_stdout"`

	SpeechEnabled  bool   `koanf:"speech_enabled"`
	SpeechLanguage string `koanf:"speech_language"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	EvaluationLogEnabled   bool   `koanf:"evaluation_log_enabled"`
	EvaluationLogDir       string `koanf:"evaluation_log_dir"`
	EvaluationLogQueueSize int    `koanf:"evaluation_log_queue_size"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:                   "8080",
		Environment:            "development",
		DBPath:                 "./data/debate.db",
		LogLevel:               "info",
		Generator:              GeneratorAuto,
		GeminiModel:            llm.DefaultGeminiModel,
		GenerationTimeout:      30 * time.Second,
		UsageBackend:           UsageBackendSQLite,
		RedisAddr:              "localhost:6379",
		OTLPInsecure:           true,
		SpeechLanguage:         "en-US",
		RateLimitRequests:      10,
		RateLimitWindow:        time.Minute,
		EvaluationLogEnabled:   true,
		EvaluationLogDir:       "./data/logs/evaluations",
		EvaluationLogQueueSize: 1000,
		ShutdownTimeout:        10 * time.Second,
	}
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port cannot be empty", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path cannot be empty", ErrInvalidConfig)
	}
	switch c.Generator {
	case GeneratorGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: gemini_api_key is required for the gemini generator", ErrInvalidConfig)
		}
	case GeneratorMock:
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, c.Generator)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("%w: generation_timeout must be > 0", ErrInvalidConfig)
	}
	switch c.UsageBackend {
	case UsageBackendSQLite:
	case UsageBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis usage backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown usage_backend %q", ErrInvalidConfig, c.UsageBackend)
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: rate limit requests and window must be > 0", ErrInvalidConfig)
	}
	if c.EvaluationLogEnabled {
		if c.EvaluationLogDir == "" {
			return fmt.Errorf("%w: evaluation_log_dir cannot be empty", ErrInvalidConfig)
		}
		if c.EvaluationLogQueueSize <= 0 {
			return fmt.Errorf("%w: evaluation_log_queue_size must be > 0", ErrInvalidConfig)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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

// Journal returns the evaluation journal settings.
func (c *Config) Journal() journal.Config {
	return journal.Config{
		Enabled:   c.EvaluationLogEnabled,
		Dir:       c.EvaluationLogDir,
		QueueSize: c.EvaluationLogQueueSize,
	}
}

// AllowedOrigins returns the CORS origins for the frontend.
func (c *Config) AllowedOrigins() []string {
	if c.IsDevelopment() {
		return []string{"*"}
	}
	return []string{c.FrontendURL}
}
