// Package config loads ghfinder settings from an optional TOML file, the
// environment (including a .env file) and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	AppDir     = "ghfinder"
	ConfigFile = "config.toml"

	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultAPIURL  = "https://api.github.com"
	DefaultDBPath  = "ghfinder.db"
	DefaultTheme   = ThemeLight
	DefaultTimeout = 30 * time.Second
	DefaultTopN    = 10
	DefaultLogName = "ghfinder.log"
)

const (
	envAPIURL  = "GHFINDER_API_URL"
	envTheme   = "GHFINDER_THEME"
	envDBPath  = "GHFINDER_DB"
	envLogFile = "GHFINDER_LOG_FILE"
	envTimeout = "GHFINDER_TIMEOUT"
)

// Duration wraps time.Duration so it can be written as "30s" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// Config holds ghfinder settings
type Config struct {
	APIURL  string   `toml:"api_url"`
	Theme   string   `toml:"theme"`   // start-up theme only, toggling is never saved
	DBPath  string   `toml:"db_path"` // empty disables search history
	LogFile string   `toml:"log_file"`
	Timeout Duration `toml:"timeout"`
	TopN    int      `toml:"top_n"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		APIURL:  DefaultAPIURL,
		Theme:   DefaultTheme,
		DBPath:  DefaultDBPath,
		Timeout: Duration{DefaultTimeout},
		TopN:    DefaultTopN,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ghfinder/config.toml (or the OS equivalent)
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppDir, ConfigFile)
}

// Load builds a Config from defaults, the TOML file at path and the environment.
// A missing file is not an error; a .env file in the working directory is
// loaded first when present.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(envAPIURL); ok {
		c.APIURL = v
	}
	if v, ok := os.LookupEnv(envTheme); ok {
		c.Theme = v
	}
	if v, ok := os.LookupEnv(envDBPath); ok {
		c.DBPath = v
	}
	if v, ok := os.LookupEnv(envLogFile); ok {
		c.LogFile = v
	}
	if v, ok := os.LookupEnv(envTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Accept a bare number of seconds as well
			secs, convErr := strconv.Atoi(v)
			if convErr != nil {
				return fmt.Errorf("invalid %s %q: %w", envTimeout, v, err)
			}
			d = time.Duration(secs) * time.Second
		}
		c.Timeout = Duration{d}
	}
	return nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Theme != ThemeLight && c.Theme != ThemeDark {
		return fmt.Errorf("invalid theme %q: expected %q or %q", c.Theme, ThemeLight, ThemeDark)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Duration)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	return nil
}

// Dark reports whether the start-up theme is dark
func (c *Config) Dark() bool {
	return c.Theme == ThemeDark
}

// HistoryEnabled reports whether searches are recorded
func (c *Config) HistoryEnabled() bool {
	return c.DBPath != ""
}

// LogPath returns the log file path, defaulting to a file next to the history database
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	if c.DBPath != "" {
		return filepath.Join(filepath.Dir(c.DBPath), DefaultLogName)
	}
	return DefaultLogName
}

// Save writes the configuration as TOML to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
