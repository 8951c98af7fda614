// Package config loads the bot's YAML configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	TelegramToken     string `yaml:"telegram_token"`
	DBPath            string `yaml:"db_path"`
	LogLevel          string `yaml:"log_level"`
	DictionaryBaseURL string `yaml:"dictionary_base_url"`
	SlangBaseURL      string `yaml:"slang_base_url"`
	PatternBaseURL    string `yaml:"pattern_base_url"`
	GameBaseURL       string `yaml:"game_base_url"`
	ExcerptBaseURL    string `yaml:"excerpt_base_url"`
	FetchTimeoutSecs  int    `yaml:"fetch_timeout_secs"`
	DebounceMillis    int    `yaml:"debounce_millis"`
	WarmTime          string `yaml:"warm_time"`
	RetentionDays     int    `yaml:"retention_days"`
}

// warmTimeRegex validates HH:MM format with proper ranges.
var warmTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("LEXIBOT_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

// FetchTimeout returns the upstream fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// DebounceWindow returns the inline-query debounce window as a duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// Retention returns the query-log retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func applyDefaults(cfg *Config) {
	if cfg.DBPath == "" {
		cfg.DBPath = "./lexibot.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SlangBaseURL == "" {
		cfg.SlangBaseURL = "https://api.urbandictionary.com"
	}
	if cfg.PatternBaseURL == "" {
		cfg.PatternBaseURL = "https://api.datamuse.com"
	}
	if cfg.GameBaseURL == "" {
		cfg.GameBaseURL = "https://www.nytimes.com"
	}
	if cfg.ExcerptBaseURL == "" {
		cfg.ExcerptBaseURL = "https://en.wiktionary.org/wiki"
	}
	if cfg.FetchTimeoutSecs == 0 {
		cfg.FetchTimeoutSecs = 10
	}
	if cfg.DebounceMillis == 0 {
		cfg.DebounceMillis = 1000
	}
	if cfg.WarmTime == "" {
		cfg.WarmTime = "00:05"
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 90
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if dbPath := os.Getenv("LEXIBOT_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
}

func validate(cfg *Config) error {
	if cfg.TelegramToken == "" {
		return fmt.Errorf("telegram_token is required")
	}
	if cfg.DictionaryBaseURL == "" {
		return fmt.Errorf("dictionary_base_url is required")
	}
	if !warmTimeRegex.MatchString(cfg.WarmTime) {
		return fmt.Errorf("warm_time must be in HH:MM format (00:00-23:59), got %q", cfg.WarmTime)
	}
	return nil
}
