package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "DEBATE_"

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = EnvPrefix + "CONFIG"

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by DEBATE_CONFIG, if set
//  3. DEBATE_* environment variables
//
// GEMINI_API_KEY and PORT are honoured as unprefixed fallbacks.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// DEBATE_DB_PATH -> db_path
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if !k.Exists("port") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Port = port
		}
	}
	if cfg.Generator == GeneratorAuto || cfg.Generator == "" {
		cfg.Generator = GeneratorMock
		if cfg.GeminiAPIKey != "" {
			cfg.Generator = GeneratorGemini
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
