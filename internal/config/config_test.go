package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/debate-coach/internal/llm"
	. "github.com/smartystreets/goconvey/convey"
)

// clearEnv unsets every variable Load reads. Convey re-runs the root block
// for each leaf, so values set by an earlier leaf are removed here too.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{"GEMINI_API_KEY", "PORT"}
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, EnvPrefix) {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	Convey("Given a config loader", t, func() {
		clearEnv(t)

		Convey("When loading with defaults only", func() {
			cfg, err := Load()

			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "8080")
			So(cfg.DBPath, ShouldEqual, "./data/debate.db")
			So(cfg.Generator, ShouldEqual, GeneratorMock)
			So(cfg.GeminiModel, ShouldEqual, llm.DefaultGeminiModel)
			So(cfg.GenerationTimeout, ShouldEqual, 30*time.Second)
			So(cfg.UsageBackend, ShouldEqual, UsageBackendSQLite)
			So(cfg.RateLimitRequests, ShouldEqual, 10)
			So(cfg.IsDevelopment(), ShouldBeTrue)
		})

		Convey("When prefixed environment variables are set", func() {
			t.Setenv("DEBATE_PORT", "9090")
			t.Setenv("DEBATE_GENERATION_TIMEOUT", "5s")
			t.Setenv("DEBATE_RATE_LIMIT_REQUESTS", "3")
			t.Setenv("DEBATE_SPEECH_ENABLED", "true")
			t.Setenv("DEBATE_USAGE_BACKEND", "redis")
			t.Setenv("DEBATE_REDIS_DB", "2")

			cfg, err := Load()

			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "9090")
			So(cfg.GenerationTimeout, ShouldEqual, 5*time.Second)
			So(cfg.RateLimitRequests, ShouldEqual, 3)
			So(cfg.SpeechEnabled, ShouldBeTrue)
			So(cfg.UsageBackend, ShouldEqual, UsageBackendRedis)
			So(cfg.RedisDB, ShouldEqual, 2)
		})

		Convey("When only the unprefixed Gemini key is set", func() {
			t.Setenv("GEMINI_API_KEY", "secret")

			cfg, err := Load()

			So(err, ShouldBeNil)
			So(cfg.Generator, ShouldEqual, GeneratorGemini)
			So(cfg.GeminiAPIKey, ShouldEqual, "secret")
		})

		Convey("When a YAML file is provided", func() {
			path := filepath.Join(t.TempDir(), "debate.yaml")
			yaml := "port: \"7070\"\nfrontend_url: https://coach.example.com\nevaluation_log_queue_size: 64\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			t.Setenv(FileEnv, path)

			Convey("Then file values override defaults", func() {
				cfg, err := Load()
				So(err, ShouldBeNil)
				So(cfg.Port, ShouldEqual, "7070")
				So(cfg.EvaluationLogQueueSize, ShouldEqual, 64)
				So(cfg.IsDevelopment(), ShouldBeFalse)
				So(cfg.AllowedOrigins(), ShouldResemble, []string{"https://coach.example.com"})
			})

			Convey("Then environment variables override the file", func() {
				t.Setenv("DEBATE_PORT", "6060")
				cfg, err := Load()
				So(err, ShouldBeNil)
				So(cfg.Port, ShouldEqual, "6060")
			})
		})

		Convey("When the file does not exist", func() {
			t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := Load()
			So(err, ShouldNotBeNil)
		})

		Convey("When the gemini generator is forced without a key", func() {
			t.Setenv("DEBATE_GENERATOR", "gemini")
			_, err := Load()
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := New()
		c.Generator = GeneratorMock
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"unknown generator", func(c *Config) { c.Generator = "gpt" }},
		{"zero timeout", func(c *Config) { c.GenerationTimeout = 0 }},
		{"unknown usage backend", func(c *Config) { c.UsageBackend = "memcached" }},
		{"redis without addr", func(c *Config) { c.UsageBackend = UsageBackendRedis; c.RedisAddr = "" }},
		{"zero rate limit", func(c *Config) { c.RateLimitRequests = 0 }},
		{"empty journal dir", func(c *Config) { c.EvaluationLogDir = "" }},
		{"zero journal queue", func(c *Config) { c.EvaluationLogQueueSize = 0 }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	c := New()
	for in, want := range map[string]string{"debug": "DEBUG", "WARN": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"} {
		c.LogLevel = in
		if got := c.SlogLevel().String(); got != want {
			t.Errorf("SlogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
