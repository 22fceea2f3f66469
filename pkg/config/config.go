// Package config loads gridpulse configuration from TOML with XDG search
// paths, falling back to defaults when no file exists.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full gridpulse configuration.
type Config struct {
	Board   BoardConfig   `toml:"board"`
	Storage StorageConfig `toml:"storage"`
	Feeds   FeedsConfig   `toml:"feeds"`
	Theme   ThemeConfig   `toml:"theme"`
	Log     LogConfig     `toml:"log"`
}

// BoardConfig controls the grid itself.
type BoardConfig struct {
	// Columns is the fixed grid width. The board never reflows to a
	// different column count at runtime.
	Columns int `toml:"columns"`

	// CardHeight is the height of one widget card in terminal rows.
	CardHeight int `toml:"card_height"`

	// Gap is the spacing between cards in cells.
	Gap int `toml:"gap"`
}

// StorageConfig controls the durable layout store.
type StorageConfig struct {
	// DataDir holds the layout file. Empty means XDG data home.
	DataDir string `toml:"data_dir"`

	// MaxBytes caps the layout file size; writes beyond it take the
	// minimized-retry path. Zero means the built-in default.
	MaxBytes int64 `toml:"max_bytes"`

	// SaveDebounce is the quiet period before a scheduled save is
	// written. Zero means the built-in 500ms.
	SaveDebounce Duration `toml:"save_debounce"`
}

// FeedsConfig controls the widget data fetchers.
type FeedsConfig struct {
	StockInterval   Duration `toml:"stock_interval"`
	WeatherInterval Duration `toml:"weather_interval"`
	GitHubInterval  Duration `toml:"github_interval"`

	// Timeout bounds each individual fetch.
	Timeout Duration `toml:"timeout"`
}

// ThemeConfig selects the color palette.
type ThemeConfig struct {
	Name string `toml:"name"`
}

// LogConfig controls slog output.
type LogConfig struct {
	// File receives the log stream alongside stderr. Empty means a
	// default path under the data directory.
	File string `toml:"file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Board: BoardConfig{
			Columns:    3,
			CardHeight: 9,
			Gap:        1,
		},
		Storage: StorageConfig{
			DataDir: filepath.Join(xdgDataHome(home), "gridpulse"),
		},
		Feeds: FeedsConfig{
			StockInterval:   Duration{5 * time.Minute},
			WeatherInterval: Duration{15 * time.Minute},
			GitHubInterval:  Duration{10 * time.Minute},
			Timeout:         Duration{10 * time.Second},
		},
		Theme: ThemeConfig{Name: "default"},
	}
}

// Load reads configuration from the standard config path. Search order:
//  1. $XDG_CONFIG_HOME/gridpulse/config.toml
//  2. ~/.config/gridpulse/config.toml
//
// If no file exists, returns DefaultConfig with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate rejects configurations the board cannot render.
func (c *Config) Validate() error {
	if c.Board.Columns <= 0 {
		return fmt.Errorf("config: board.columns must be positive, got %d", c.Board.Columns)
	}
	if c.Board.CardHeight < 3 {
		return fmt.Errorf("config: board.card_height must be at least 3, got %d", c.Board.CardHeight)
	}
	if c.Board.Gap < 0 {
		return fmt.Errorf("config: board.gap must not be negative, got %d", c.Board.Gap)
	}
	if c.Storage.MaxBytes < 0 {
		return fmt.Errorf("config: storage.max_bytes must not be negative, got %d", c.Storage.MaxBytes)
	}
	return nil
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRIDPULSE_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("GRIDPULSE_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "gridpulse", "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "gridpulse", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgDataHome returns XDG_DATA_HOME or ~/.local/share as fallback.
func xdgDataHome(home string) string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "share")
}
