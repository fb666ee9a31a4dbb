// Package config provides the layered runtime configuration for plantcare:
// built-in defaults, then an optional YAML file, then PLANTCARE_* variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/storage"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PLANTCARE_"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	Care     CareConfig     `yaml:"care"`
	Server   ServerConfig   `yaml:"server"`
	Remote   RemoteConfig   `yaml:"remote"`
	Reminder ReminderConfig `yaml:"reminder"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
}

// CareConfig holds defaults applied to new plants.
type CareConfig struct {
	DefaultEmoji         string  `yaml:"default_emoji"`
	DefaultFrequencyDays float64 `yaml:"default_frequency_days"`
}

// ServerConfig holds the HTTP API server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RemoteConfig points the CLI at a plantcare server instead of the local store.
type RemoteConfig struct {
	// URL of the server. Empty means local mode.
	URL string `yaml:"url"`
}

// ReminderConfig holds the thirsty-plant reminder settings.
type ReminderConfig struct {
	// Schedule is a six-field cron spec (seconds first).
	// Default: 0 0 9 * * * (every day at 09:00)
	Schedule string `yaml:"schedule"`

	// HealthThreshold flags plants whose current health is at or below it,
	// even before they are due.
	// Default: 40
	HealthThreshold float64 `yaml:"health_threshold"`

	// Cooldown is the minimum time between two reminders for the same plant.
	// Default: 12h
	Cooldown time.Duration `yaml:"cooldown"`

	WebhookURL string `yaml:"webhook_url"`

	// WebhookFormat selects the payload shape: generic, slack or discord.
	// Default: generic
	WebhookFormat   string `yaml:"webhook_format"`
	WebhookTemplate string `yaml:"webhook_template"`
	TelegramToken   string `yaml:"telegram_token"`
	TelegramChatID  int64  `yaml:"telegram_chat_id"`
}

// HTTPConfig holds outbound HTTP client configuration.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// RetryDelays are the waits before each delivery attempt.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration `yaml:"retry_delays"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// Database is the Badger directory. ":memory:" keeps everything in RAM.
	// Default: $XDG_DATA_HOME/plantcare/db
	Database string `yaml:"database"`

	// MinFreeSpace is the free space, in bytes, required before writing files.
	// Default: 10MB
	MinFreeSpace uint64 `yaml:"min_free_space"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Care: CareConfig{
			DefaultEmoji:         "🌿",
			DefaultFrequencyDays: 3,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Reminder: ReminderConfig{
			Schedule:        "0 0 9 * * *",
			HealthThreshold: 40,
			Cooldown:        12 * time.Hour,
			WebhookFormat:   "generic",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
			RetryDelays: []time.Duration{
				0,
				5 * time.Second,
				30 * time.Second,
			},
		},
		Storage: StorageConfig{
			Database:     storage.DefaultPath(),
			MinFreeSpace: 10 * 1024 * 1024,
		},
	}
}

// DefaultPath returns the config file location following the XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, storage.AppName, "config.yaml")
}

// Global holds the configuration of the running process.
var Global = DefaultRuntimeConfig()

// Load builds the configuration from defaults, the YAML file at path (a
// missing file is fine) and the environment.
func Load(path string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays values from a YAML file. Keys absent from the file keep
// their current value.
func (c *RuntimeConfig) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewSystemErrorWithOp("read config", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.NewUserErrorWithField("config", path,
			fmt.Sprintf("Config file %s is not valid YAML", path),
			"Fix the file or remove it to fall back to defaults",
		).WithCause(err)
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *RuntimeConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := storage.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	return storage.SafeWrite(path, data, 0o600)
}

func envDuration(name string, dst *time.Duration) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}

func envFloat(name string, dst *float64) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// LoadFromEnv applies PLANTCARE_* overrides. Unparseable values are ignored.
func (c *RuntimeConfig) LoadFromEnv() {
	envString("DEFAULT_EMOJI", &c.Care.DefaultEmoji)
	envFloat("DEFAULT_FREQUENCY_DAYS", &c.Care.DefaultFrequencyDays)

	envString("SERVER_ADDR", &c.Server.Addr)
	envDuration("SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)

	envString("REMOTE", &c.Remote.URL)

	envString("REMIND_SCHEDULE", &c.Reminder.Schedule)
	envFloat("REMIND_THRESHOLD", &c.Reminder.HealthThreshold)
	envDuration("REMIND_COOLDOWN", &c.Reminder.Cooldown)
	envString("WEBHOOK_URL", &c.Reminder.WebhookURL)
	envString("WEBHOOK_FORMAT", &c.Reminder.WebhookFormat)
	envString("WEBHOOK_TEMPLATE", &c.Reminder.WebhookTemplate)
	envString("TELEGRAM_TOKEN", &c.Reminder.TelegramToken)
	if v := os.Getenv(EnvPrefix + "TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Reminder.TelegramChatID = id
		}
	}

	envDuration("HTTP_TIMEOUT", &c.HTTP.Timeout)
	if v := os.Getenv(EnvPrefix + "HTTP_RETRY_DELAYS"); v != "" {
		var delays []time.Duration
		for _, part := range strings.Split(v, ",") {
			d, err := time.ParseDuration(strings.TrimSpace(part))
			if err != nil {
				delays = nil
				break
			}
			delays = append(delays, d)
		}
		if len(delays) > 0 {
			c.HTTP.RetryDelays = delays
		}
	}

	envString("DATABASE", &c.Storage.Database)
	if v := os.Getenv(EnvPrefix + "MIN_FREE_SPACE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Storage.MinFreeSpace = n
		}
	}
}

// Validate rejects settings no command could run with.
func (c *RuntimeConfig) Validate() error {
	if !(c.Care.DefaultFrequencyDays > 0) {
		return errors.NewUserErrorWithField("care.default_frequency_days",
			strconv.FormatFloat(c.Care.DefaultFrequencyDays, 'g', -1, 64),
			"Default watering frequency must be positive",
			errors.GetSuggestion(errors.ErrInvalidFrequency),
		).WithCause(errors.ErrInvalidFrequency)
	}
	if c.Reminder.HealthThreshold < 0 || c.Reminder.HealthThreshold > 100 {
		return errors.NewUserErrorWithField("reminder.health_threshold",
			strconv.FormatFloat(c.Reminder.HealthThreshold, 'g', -1, 64),
			"Reminder health threshold must be between 0 and 100",
			"Use a value such as 40",
		)
	}
	switch c.Reminder.WebhookFormat {
	case "", "generic", "slack", "discord":
	default:
		return errors.NewUserErrorWithField("reminder.webhook_format", c.Reminder.WebhookFormat,
			fmt.Sprintf("Unknown webhook format '%s'", c.Reminder.WebhookFormat),
			"Use one of: generic, slack, discord",
		)
	}
	if c.Reminder.WebhookURL != "" {
		if err := validate.URL(c.Reminder.WebhookURL); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Reminder.Schedule) == "" {
		return errors.NewUserErrorWithField("reminder.schedule", "",
			"Reminder schedule is empty",
			"Use a cron spec such as '0 0 9 * * *'",
		)
	}
	return nil
}

// Apply pushes process-wide settings into the packages that read them.
func (c *RuntimeConfig) Apply() {
	storage.MinFreeSpace = c.Storage.MinFreeSpace
	Global = c
}
