// Package config loads matching-engine configuration from YAML files with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/fuzzy-pubsub/pkg/errors"
)

// Matching strategies selectable at startup.
const (
	StrategyIndexed    = "indexed"
	StrategyBruteForce = "bruteforce"
	StrategyTrie       = "trie"
)

// Config is the top-level configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig sizes the caches and selects the matching strategy.
type EngineConfig struct {
	Strategy          string `yaml:"strategy"`
	ResultCacheSize   int    `yaml:"resultCacheSize"`
	VerdictCacheSize  int    `yaml:"verdictCacheSize"`
	VerdictSetCap     int    `yaml:"verdictSetCap"`
	DistanceCacheSize int    `yaml:"distanceCacheSize"`
	Workers           int    `yaml:"workers"`
	ParallelThreshold int    `yaml:"parallelThreshold"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the reference cache sizes with the indexed strategy.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Strategy:          StrategyIndexed,
			ResultCacheSize:   512,
			VerdictCacheSize:  5000,
			VerdictSetCap:     1000,
			DistanceCacheSize: 1 << 20,
			Workers:           0,
			ParallelThreshold: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "pubsub",
		},
	}
}

// Validate rejects unknown strategies and non-positive cache sizes.
func (c *Config) Validate() error {
	switch c.Engine.Strategy {
	case StrategyIndexed, StrategyBruteForce, StrategyTrie:
	default:
		return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.CodeFail, "unknown strategy %q", c.Engine.Strategy)
	}
	sizes := []struct {
		name  string
		value int
	}{
		{"resultCacheSize", c.Engine.ResultCacheSize},
		{"verdictCacheSize", c.Engine.VerdictCacheSize},
		{"verdictSetCap", c.Engine.VerdictSetCap},
		{"distanceCacheSize", c.Engine.DistanceCacheSize},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return apperrors.Newf(apperrors.ErrInvalidConfig, apperrors.CodeFail, "%s must be positive, got %d", s.name, s.value)
		}
	}
	if c.Engine.Workers < 0 || c.Engine.ParallelThreshold < 0 {
		return apperrors.New(apperrors.ErrInvalidConfig, apperrors.CodeFail, "workers and parallelThreshold must not be negative")
	}
	return nil
}

// applyEnvOverrides reads PS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PS_ENGINE_STRATEGY"); v != "" {
		cfg.Engine.Strategy = v
	}
	intOverrides := []struct {
		env    string
		target *int
	}{
		{"PS_ENGINE_RESULT_CACHE_SIZE", &cfg.Engine.ResultCacheSize},
		{"PS_ENGINE_VERDICT_CACHE_SIZE", &cfg.Engine.VerdictCacheSize},
		{"PS_ENGINE_VERDICT_SET_CAP", &cfg.Engine.VerdictSetCap},
		{"PS_ENGINE_DISTANCE_CACHE_SIZE", &cfg.Engine.DistanceCacheSize},
		{"PS_ENGINE_WORKERS", &cfg.Engine.Workers},
		{"PS_ENGINE_PARALLEL_THRESHOLD", &cfg.Engine.ParallelThreshold},
	}
	for _, o := range intOverrides {
		if v := os.Getenv(o.env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*o.target = n
			}
		}
	}
	if v := os.Getenv("PS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PS_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("PS_METRICS_NAMESPACE"); v != "" {
		cfg.Metrics.Namespace = v
	}
}
