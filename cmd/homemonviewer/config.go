package main

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the viewer configuration, read from a YAML file with environment
// variable overrides.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Smoothing SmoothingConfig `yaml:"smoothing"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig locates the homemon REST service.
type APIConfig struct {
	URL string `yaml:"url" env:"HOMEMON_API_URL" env-default:"http://localhost:8000"`
}

// RefreshConfig controls the periodic data refresh.
type RefreshConfig struct {
	Schedule string `yaml:"schedule" env:"HOMEMON_REFRESH_SCHEDULE" env-default:"@every 1m"`
}

// SmoothingConfig sets the moving-average window used when smoothing is on.
type SmoothingConfig struct {
	Window int `yaml:"window" env:"HOMEMON_SMOOTHING_WINDOW" env-default:"5"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" env:"HOMEMON_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"HOMEMON_LOG_DEV" env-default:"false"`
}

// loadConfig reads the YAML file when it exists, otherwise falls back to
// environment variables and defaults.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read config from environment: %w", err)
	}
	return cfg, nil
}

// buildLogger constructs the zap logger described by the logging config.
func buildLogger(cfg LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
