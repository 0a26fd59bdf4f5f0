// Package config provides YAML-based configuration loading for the console.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level console configuration, loaded from ambutrack.yaml.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Hub       HubConfig       `yaml:"hub"`
	Storage   StorageConfig   `yaml:"storage"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Pager     PagerConfig     `yaml:"pager"`
}

// APIConfig holds settings for the platform REST API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// HubConfig holds settings for the live-channel hub. BaseURL defaults to
// the API base URL, which is where the platform mounts its hubs.
type HubConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StorageConfig selects where durable console state (session, selected
// tenant) lives. Driver is "sqlite" (default) or "mysql" for desks that
// share a central database.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"` // sqlite file path
	DSN    string `yaml:"dsn"`  // mysql DSN
}

// DashboardConfig controls the local live dashboard served during watch.
type DashboardConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// PagerConfig controls desk notifications for the watch daemon.
type PagerConfig struct {
	Platform string        `yaml:"platform"` // "slack", "discord" or "" (disabled)
	Channel  string        `yaml:"channel"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Events   EventsConfig  `yaml:"events"`
	Digest   DigestConfig  `yaml:"digest"`
}

// SlackConfig holds Slack credentials. BotToken falls back to the
// AMBU_SLACK_BOT_TOKEN environment variable.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
}

// DiscordConfig holds Discord credentials. BotToken falls back to the
// AMBU_DISCORD_BOT_TOKEN environment variable.
type DiscordConfig struct {
	BotToken string `yaml:"bot_token"`
}

// EventsConfig toggles which feed events the pager posts.
type EventsConfig struct {
	NewRequests bool `yaml:"new_requests"`
	Disconnects bool `yaml:"disconnects"`
}

// DigestConfig schedules a periodic summary of the pending-request feed.
// Cron uses standard 5-field expressions.
type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "ambutrack.yaml"

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Hub.BaseURL == "" {
		c.Hub.BaseURL = c.API.BaseURL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		c.Storage.Path = defaultStatePath()
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Pager.Slack.BotToken == "" {
		c.Pager.Slack.BotToken = os.Getenv("AMBU_SLACK_BOT_TOKEN")
	}
	if c.Pager.Discord.BotToken == "" {
		c.Pager.Discord.BotToken = os.Getenv("AMBU_DISCORD_BOT_TOKEN")
	}
	if c.Pager.Digest.Enabled && c.Pager.Digest.Cron == "" {
		c.Pager.Digest.Cron = "0 8 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, "storage.path is required for sqlite")
		}
	case "mysql":
		if c.Storage.DSN == "" {
			errs = append(errs, "storage.dsn is required for mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not supported (sqlite, mysql)", c.Storage.Driver))
	}
	switch c.Pager.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("pager.platform %q is not supported (slack, discord)", c.Pager.Platform))
	}
	if c.Pager.Platform != "" && c.Pager.Channel == "" {
		errs = append(errs, "pager.channel is required when a pager platform is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// defaultStatePath returns the default sqlite location under the user's
// home directory, falling back to the working directory.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ambutrack.db"
	}
	return filepath.Join(home, ".ambutrack", "console.db")
}
