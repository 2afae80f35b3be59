package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the backend HTTP client.
type APIConfig struct {
	// BaseURL is the root of the backend JSON API, including the /api prefix.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// AuthConfig holds settings for the sign-in flow.
type AuthConfig struct {
	// LoginURL is the backend page that starts the OAuth sign-in.
	LoginURL string `mapstructure:"login_url" yaml:"login_url"`

	// RedirectAddr is the loopback address the backend redirects to with
	// the ?token= parameter once sign-in completes.
	RedirectAddr string `mapstructure:"redirect_addr" yaml:"redirect_addr"`

	// Keyring selects the credential backend: "system" or "memory".
	Keyring string `mapstructure:"keyring" yaml:"keyring"`
}

// NotificationConfig holds settings for the transient banner.
type NotificationConfig struct {
	TTLSec int `mapstructure:"ttl_sec" yaml:"ttl_sec"`
}

// HistoryConfig holds settings for the local SQLite history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds settings for the file logger.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API           APIConfig          `mapstructure:"api" yaml:"api"`
	Auth          AuthConfig         `mapstructure:"auth" yaml:"auth"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	History       HistoryConfig      `mapstructure:"history" yaml:"history"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *AppConfig) RequestTimeout() time.Duration {
	if c.API.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// NotificationTTL returns how long a notification stays visible.
func (c *AppConfig) NotificationTTL() time.Duration {
	if c.Notifications.TTLSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Notifications.TTLSec) * time.Second
}

// ConfigDir returns ~/.config/mailpilot, falling back to the working
// directory when the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailpilot")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailpilot/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://127.0.0.1:8000/api",
			TimeoutSec: 30,
		},
		Auth: AuthConfig{
			LoginURL:     "http://127.0.0.1:8000/auth/google",
			RedirectAddr: "127.0.0.1:3000",
			Keyring:      "system",
		},
		Notifications: NotificationConfig{TTLSec: 5},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "history.sqlite3"),
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "mailpilot.log"),
			Level: "info",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Any key can be overridden with a MAILPILOT_ environment variable,
// e.g. MAILPILOT_API_BASE_URL.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// newViper builds a Viper instance with defaults registered for every key so
// environment overrides apply even when the file omits a key.
func newViper(path string) *viper.Viper {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("mailpilot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout_sec", def.API.TimeoutSec)
	v.SetDefault("api.requests_per_second", def.API.RequestsPerSecond)
	v.SetDefault("auth.login_url", def.Auth.LoginURL)
	v.SetDefault("auth.redirect_addr", def.Auth.RedirectAddr)
	v.SetDefault("auth.keyring", def.Auth.Keyring)
	v.SetDefault("notifications.ttl_sec", def.Notifications.TTLSec)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.path", def.History.Path)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("display.theme", def.Display.Theme)

	return v
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("auth", cfg.Auth)
	v.Set("notifications", cfg.Notifications)
	v.Set("history", cfg.History)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
