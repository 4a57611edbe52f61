package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type TelegramConfig struct {
	Token      string `yaml:"token"`
	Mode       string `yaml:"mode"`
	WebhookURL string `yaml:"webhook_url"`
}

type StorageConfig struct {
	DataFile string `yaml:"data_file"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Load reads the YAML config at path and applies environment overrides.
// The file itself is optional: every field has a default or an env
// source, except the bot token, which Validate treats as fatal.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if cfg.Telegram.Mode == "" {
		cfg.Telegram.Mode = ModePolling
	}
	if cfg.Storage.DataFile == "" {
		cfg.Storage.DataFile = "tasks_data.json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is not set: put it in the config file (telegram.token) or in the TELEGRAM_BOT_TOKEN environment variable")
	}
	if c.Telegram.Mode != ModePolling && c.Telegram.Mode != ModeWebhook {
		return fmt.Errorf("invalid telegram.mode %q: must be %q or %q", c.Telegram.Mode, ModePolling, ModeWebhook)
	}
	if c.Telegram.Mode == ModeWebhook && c.Telegram.WebhookURL == "" {
		return fmt.Errorf("telegram.webhook_url is required in webhook mode")
	}
	return nil
}
