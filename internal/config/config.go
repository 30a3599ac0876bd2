// Package config loads service settings from JOURNEY_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the journeyd settings.
type Config struct {
	BundlePath  string `env:"JOURNEY_BUNDLE_PATH"`
	DBPath      string `env:"JOURNEY_DB_PATH"`
	GRPCAddr    string `env:"JOURNEY_GRPC_ADDR" envDefault:":50061"`
	MetricsAddr string `env:"JOURNEY_METRICS_ADDR" envDefault:":9461"`
	Seed        uint64 `env:"JOURNEY_SEED" envDefault:"0"`
	LogLevel    string `env:"JOURNEY_LOG_LEVEL" envDefault:"info"`
	LogDev      bool   `env:"JOURNEY_LOG_DEV" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("parse env: JOURNEY_LOG_LEVEL: %w", err)
	}
	cfg.BundlePath = strings.TrimSpace(cfg.BundlePath)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Seeded reports whether a fixed RNG seed was configured.
func (c Config) Seeded() bool {
	return c.Seed != 0
}

// NewLogger builds a production JSON logger, or a console logger when LogDev is set.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.LogDev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
