package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config keeps runtime settings for the catalog.
type Config struct {
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	SnapshotPath     string        `mapstructure:"SNAPSHOT_PATH"`
	SnapshotInterval time.Duration `mapstructure:"SNAPSHOT_INTERVAL"`
	SnapshotAt       string        `mapstructure:"SNAPSHOT_AT"`
}

var keys = []string{
	"DATABASE_URL",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"SNAPSHOT_PATH",
	"SNAPSHOT_INTERVAL",
	"SNAPSHOT_AT",
}

// Load reads configuration from an optional .env file and the environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.SnapshotAt = strings.TrimSpace(cfg.SnapshotAt)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "catalog.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SNAPSHOT_PATH", "catalog.json")
	v.SetDefault("SNAPSHOT_INTERVAL", "0s")
	v.SetDefault("SNAPSHOT_AT", "")
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	if c.SnapshotInterval < 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must not be negative")
	}
	if c.SnapshotAt != "" {
		if _, err := time.Parse("15:04", c.SnapshotAt); err != nil {
			return fmt.Errorf("SNAPSHOT_AT must be HH:MM, got %q", c.SnapshotAt)
		}
	}
	return nil
}
