package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Shell   ShellConfig   `yaml:"shell" toml:"shell"`
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Paths   PathsConfig   `yaml:"paths" toml:"paths"`
	Browser BrowserConfig `yaml:"browser" toml:"browser"`
	Control ControlConfig `yaml:"control" toml:"control"`
	Logging LogConfig     `yaml:"logging" toml:"logging"`
}

// ShellConfig holds session behavior.
type ShellConfig struct {
	HomeURL    string `envconfig:"KIOSK_HOME_URL" default:"https://example.com" yaml:"home_url" toml:"home_url"`
	KeepAlive  bool   `envconfig:"KIOSK_KEEP_ALIVE" default:"false" yaml:"keep_alive" toml:"keep_alive"`
	CommandKey string `envconfig:"KIOSK_COMMAND_KEY" default:"meta" yaml:"command_key" toml:"command_key"`
}

// WindowConfig holds the geometry of windows without saved bounds.
type WindowConfig struct {
	Width      int    `envconfig:"KIOSK_WINDOW_WIDTH" default:"1200" yaml:"width" toml:"width"`
	Height     int    `envconfig:"KIOSK_WINDOW_HEIGHT" default:"800" yaml:"height" toml:"height"`
	Background string `envconfig:"KIOSK_WINDOW_BACKGROUND" default:"#000000" yaml:"background" toml:"background"`
}

// PathsConfig holds filesystem locations. Empty values resolve via package paths.
type PathsConfig struct {
	DataDir   string `envconfig:"KIOSK_DATA_DIR" yaml:"data_dir" toml:"data_dir"`
	StateFile string `envconfig:"KIOSK_STATE_FILE" default:"state.json" yaml:"state_file" toml:"state_file"`
	StyleFile string `envconfig:"KIOSK_STYLE_FILE" default:"tweaks.css" yaml:"style_file" toml:"style_file"`
}

// BrowserConfig holds headless surface settings.
type BrowserConfig struct {
	UserAgent     string        `envconfig:"KIOSK_USER_AGENT" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" yaml:"user_agent" toml:"user_agent"`
	FetchTimeout  time.Duration `envconfig:"KIOSK_FETCH_TIMEOUT" default:"15s" yaml:"fetch_timeout" toml:"fetch_timeout"`
	ScriptTimeout time.Duration `envconfig:"KIOSK_SCRIPT_TIMEOUT" default:"2s" yaml:"script_timeout" toml:"script_timeout"`
}

// ControlConfig holds the local control API configuration.
type ControlConfig struct {
	Enabled      bool     `envconfig:"KIOSK_CONTROL_ENABLED" default:"true" yaml:"enabled" toml:"enabled"`
	Host         string   `envconfig:"KIOSK_CONTROL_HOST" default:"127.0.0.1" yaml:"host" toml:"host"`
	Port         string   `envconfig:"KIOSK_CONTROL_PORT" default:"8040" yaml:"port" toml:"port"`
	RateLimitRPS int      `envconfig:"KIOSK_RATE_LIMIT_RPS" default:"20" yaml:"rate_limit_rps" toml:"rate_limit_rps"`
	Burst        int      `envconfig:"KIOSK_RATE_LIMIT_BURST" default:"40" yaml:"rate_limit_burst" toml:"rate_limit_burst"`
	AllowOrigins []string `envconfig:"KIOSK_CONTROL_ORIGINS" default:"http://localhost,http://127.0.0.1" yaml:"allow_origins" toml:"allow_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development"`
}

// FileEnv names the variable pointing at an optional config file.
const FileEnv = "KIOSK_CONFIG"

// Load loads configuration from environment variables, then overlays the
// file named by KIOSK_CONFIG when set.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := os.Getenv(FileEnv); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			HomeURL:    "https://example.com",
			KeepAlive:  false,
			CommandKey: "meta",
		},
		Window: WindowConfig{
			Width:      1200,
			Height:     800,
			Background: "#000000",
		},
		Paths: PathsConfig{
			StateFile: "state.json",
			StyleFile: "tweaks.css",
		},
		Browser: BrowserConfig{
			UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			FetchTimeout:  15 * time.Second,
			ScriptTimeout: 2 * time.Second,
		},
		Control: ControlConfig{
			Enabled:      true,
			Host:         "127.0.0.1",
			Port:         "8040",
			RateLimitRPS: 20,
			Burst:        40,
			AllowOrigins: []string{"http://localhost", "http://127.0.0.1"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate rejects values the shell cannot start with.
func (c *Config) Validate() error {
	if c.Shell.HomeURL == "" {
		return fmt.Errorf("invalid config: home url is empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
