// Package config loads the assistant configuration document.
//
// Precedence is defaults, then the JSON config file, then TARIUS_* environment
// variables. The loaded document is written back on Save so a missing file is
// recreated with defaults on first run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable the assistant reads at startup.
type Config struct {
	UserName           string `json:"user_name" mapstructure:"user_name"`
	AssistantName      string `json:"assistant_name" mapstructure:"assistant_name"`
	DataDir            string `json:"data_dir" mapstructure:"data_dir"`
	ProactiveReminders bool   `json:"proactive_reminders" mapstructure:"proactive_reminders"`
	MaxRecentMessages  int    `json:"max_recent_messages" mapstructure:"max_recent_messages"`
	LogLevel           string `json:"log_level" mapstructure:"log_level"`

	// path the config was loaded from, kept for Save.
	path string
}

// Default returns the configuration used when no file or env override exists.
func Default() Config {
	return Config{
		UserName:           "User",
		AssistantName:      "Tarius",
		DataDir:            "data",
		ProactiveReminders: true,
		MaxRecentMessages:  10,
		LogLevel:           "info",
	}
}

type loadOptions struct {
	configPath string
	envPrefix  string
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigPath overrides the config file location.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) { o.configPath = path }
}

// WithEnvPrefix overrides the environment variable prefix (default TARIUS).
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) { o.envPrefix = prefix }
}

// Load reads the configuration with the documented precedence. A missing file
// is not an error; a malformed file is.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{
		configPath: filepath.Join(Default().DataDir, "config.json"),
		envPrefix:  "TARIUS",
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigFile(options.configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix(options.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range map[string]any{
		"user_name":           cfg.UserName,
		"assistant_name":      cfg.AssistantName,
		"data_dir":            cfg.DataDir,
		"proactive_reminders": cfg.ProactiveReminders,
		"max_recent_messages": cfg.MaxRecentMessages,
		"log_level":           cfg.LogLevel,
	} {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(options.configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", options.configPath, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.path = options.configPath
	normalize(&cfg)
	return cfg, nil
}

// Save writes the configuration document back to the path it was loaded from,
// creating the parent directory when needed.
func (c Config) Save() error {
	if c.path == "" {
		c.path = filepath.Join(c.DataDir, "config.json")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", c.path, err)
	}
	return nil
}

// Path reports where the configuration was loaded from.
func (c Config) Path() string {
	return c.path
}

// EventsPath returns the calendar store document location.
func (c Config) EventsPath() string {
	return filepath.Join(c.DataDir, "calendar", "events.json")
}

// TasksPath returns the task store document location.
func (c Config) TasksPath() string {
	return filepath.Join(c.DataDir, "tasks", "tasks.json")
}

// ConversationsDir returns the conversation memory directory.
func (c Config) ConversationsDir() string {
	return filepath.Join(c.DataDir, "memory", "conversations")
}

func normalize(cfg *Config) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = Default().DataDir
	}
	if strings.HasPrefix(cfg.DataDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, cfg.DataDir[2:])
		}
	}
	if cfg.MaxRecentMessages <= 0 {
		cfg.MaxRecentMessages = Default().MaxRecentMessages
	}
	if strings.TrimSpace(cfg.AssistantName) == "" {
		cfg.AssistantName = Default().AssistantName
	}
	if strings.TrimSpace(cfg.UserName) == "" {
		cfg.UserName = Default().UserName
	}
}
