package config

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering an optional YAML file and ROSTERHOUND_*
// environment variables over the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// ROSTERHOUND_LOG_LEVEL -> log_level; nested keys use double
	// underscore: ROSTERHOUND_SYNC__MAX_ATTEMPTS -> sync.max_attempts.
	envProvider := env.Provider("ROSTERHOUND_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ROSTERHOUND_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Sync.StableThreshold <= 0 {
		return nil, errors.New("sync.stable_threshold must be positive")
	}
	if cfg.Sync.MaxAttempts <= 0 {
		return nil, errors.New("sync.max_attempts must be positive")
	}
	return &cfg, nil
}
