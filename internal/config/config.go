// Package config loads and saves mbwatch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all mbwatch configuration.
type Config struct {
	Telegram TelegramConfig `toml:"telegram"`
	Weather  WeatherConfig  `toml:"weather"`
	Account  AccountConfig  `toml:"account"`
	Monitor  MonitorConfig  `toml:"monitor"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	BotToken string `toml:"bot_token,omitempty"`
	GroupID  string `toml:"group_id,omitempty"`
}

// WeatherConfig holds weatherapi.com settings.
type WeatherConfig struct {
	APIKey      string `toml:"api_key,omitempty"`
	Coordinates string `toml:"coordinates,omitempty"` // "lat,lon"
}

// AccountConfig holds the account display string used in notifications.
// Bank credentials never live in the config file; they are passed on the
// command line at process start.
type AccountConfig struct {
	Display string `toml:"display,omitempty"`
}

// MonitorConfig holds polling loop settings.
type MonitorConfig struct {
	IntervalSecs        int    `toml:"interval_secs"`
	WeatherIntervalSecs int    `toml:"weather_interval_secs"`
	WindowStart         string `toml:"window_start"`
	WindowEnd           string `toml:"window_end"`
	Addr                string `toml:"addr"`
	LogFile             string `toml:"log_file,omitempty"`
	LogLevel            string `toml:"log_level,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Monitor: MonitorConfig{
			IntervalSecs:        10,
			WeatherIntervalSecs: 5400, // 1.5h
			WindowStart:         "07:30",
			WindowEnd:           "22:30",
			Addr:                "127.0.0.1:8879",
			LogLevel:            "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mbwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mbwatch")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding the monitor's runtime files
// (last-seen transaction store, pid file, logs).
func DataDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mbwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "mbwatch")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// GetBotToken returns the Telegram bot token from env var or config, in
// that order.
func GetBotToken(cfg Config) string {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		return v
	}
	return cfg.Telegram.BotToken
}

// GetGroupID returns the Telegram group chat ID from env var or config.
func GetGroupID(cfg Config) string {
	if v := os.Getenv("TELEGRAM_GROUP_ID"); v != "" {
		return v
	}
	return cfg.Telegram.GroupID
}

// GetWeatherAPIKey returns the weather API key from env var or config.
func GetWeatherAPIKey(cfg Config) string {
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		return v
	}
	return cfg.Weather.APIKey
}

// GetCoordinates returns the weather coordinates from env var or config.
func GetCoordinates(cfg Config) string {
	if v := os.Getenv("WEATHER_COORDINATES"); v != "" {
		return v
	}
	return cfg.Weather.Coordinates
}

// GetAccountDisplay returns the account display string from env var or config.
func GetAccountDisplay(cfg Config) string {
	if v := os.Getenv("ACCOUNT_INFO"); v != "" {
		return v
	}
	return cfg.Account.Display
}

// OperatingWindow parses the configured window bounds.
func (m MonitorConfig) OperatingWindow() (Window, error) {
	return ParseWindow(m.WindowStart, m.WindowEnd)
}
