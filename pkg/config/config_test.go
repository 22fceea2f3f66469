package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig does not validate: %v", err)
	}
	if cfg.Board.Columns != 3 {
		t.Errorf("default columns = %d, want 3", cfg.Board.Columns)
	}
}

func TestLoadFromReader(t *testing.T) {
	in := `
[board]
columns = 4
card_height = 11

[storage]
save_debounce = "250ms"

[feeds]
stock_interval = "1m"

[theme]
name = "solarized"
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Board.Columns != 4 {
		t.Errorf("columns = %d, want 4", cfg.Board.Columns)
	}
	if cfg.Board.Gap != 1 {
		t.Errorf("unset gap = %d, want default 1", cfg.Board.Gap)
	}
	if cfg.Storage.SaveDebounce.Duration != 250*time.Millisecond {
		t.Errorf("save_debounce = %v", cfg.Storage.SaveDebounce.Duration)
	}
	if cfg.Feeds.StockInterval.Duration != time.Minute {
		t.Errorf("stock_interval = %v", cfg.Feeds.StockInterval.Duration)
	}
	if cfg.Theme.Name != "solarized" {
		t.Errorf("theme = %q", cfg.Theme.Name)
	}
}

func TestLoadFromReaderRejectsBadDuration(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("[feeds]\ntimeout = \"soon\"\n")); err == nil {
		t.Error("bad duration accepted")
	}
}

func TestValidateRejectsBadBoards(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Board.Columns = 0 },
		func(c *Config) { c.Board.CardHeight = 1 },
		func(c *Config) { c.Board.Gap = -1 },
		func(c *Config) { c.Storage.MaxBytes = -5 },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRIDPULSE_THEME", "light")
	t.Setenv("GRIDPULSE_DATA_DIR", "/tmp/gp-test")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if cfg.Theme.Name != "light" {
		t.Errorf("theme = %q, want light", cfg.Theme.Name)
	}
	if cfg.Storage.DataDir != "/tmp/gp-test" {
		t.Errorf("data dir = %q", cfg.Storage.DataDir)
	}
}
