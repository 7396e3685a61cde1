package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/thepack/dashboard-go/pkg/dashboard"
)

const defaultTimeout = 10 * time.Second

// duration wraps time.Duration for TOML parsing ("10s", "1m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if value == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value, err)
	}
	d.Duration = parsed
	return nil
}

// fileConfig is the dashctl TOML config file.
//
//	base_url = "http://localhost:3008"
//	write_key = "dash_abc123"
//	timeout = "10s"
type fileConfig struct {
	BaseURL  string   `toml:"base_url"`
	WriteKey string   `toml:"write_key"`
	Timeout  duration `toml:"timeout"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfig merges flag, environment, and file settings. Precedence:
// flags, then environment (applied inside dashboard.New), then the config
// file, then defaults.
func resolveConfig(baseURL, writeKey string, timeout time.Duration, configPath string) (dashboard.Config, error) {
	var file fileConfig
	if configPath != "" {
		loaded, err := loadConfigFile(configPath)
		if err != nil {
			return dashboard.Config{}, err
		}
		file = loaded
	}

	cfg := dashboard.Config{BaseURL: baseURL, WriteKey: writeKey, Timeout: timeout}
	if cfg.BaseURL == "" && os.Getenv(dashboard.EnvBaseURL) == "" {
		cfg.BaseURL = file.BaseURL
	}
	if cfg.WriteKey == "" && os.Getenv(dashboard.EnvWriteKey) == "" {
		cfg.WriteKey = file.WriteKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = file.Timeout.Duration
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg, nil
}
