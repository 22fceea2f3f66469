package board

import (
	"fmt"
	"time"
)

// Config is the open, kind-keyed bag of optional widget settings. No field
// is required; each widget supplies its own defaults when a field is absent.
// Fields irrelevant to a widget's kind are simply ignored by it.
type Config struct {
	Ticker          string   `json:"ticker,omitempty"`          // stock
	Tickers         []string `json:"tickers,omitempty"`         // stock-table
	Location        string   `json:"location,omitempty"`        // weather
	UseAutoLocation bool     `json:"useAutoLocation,omitempty"` // weather
	UnitType        string   `json:"unitType,omitempty"`        // weather: "metric" or "imperial"
	Username        string   `json:"username,omitempty"`        // github
	Text            string   `json:"text,omitempty"`            // notes
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := c
	if c.Tickers != nil {
		out.Tickers = append([]string(nil), c.Tickers...)
	}
	return out
}

// IsZero reports whether every config field is unset.
func (c Config) IsZero() bool {
	return c.Ticker == "" &&
		len(c.Tickers) == 0 &&
		c.Location == "" &&
		!c.UseAutoLocation &&
		c.UnitType == "" &&
		c.Username == "" &&
		c.Text == ""
}

// Minimal projects the config down to the smallest fields worth keeping when
// a durable write exceeds the storage quota. Large free-form content (notes
// text) is dropped; identity-bearing fields survive.
func (c Config) Minimal() Config {
	out := c.Clone()
	out.Text = ""
	return out
}

// Instance is one placed widget card: a stable id, a kind, and its config.
// Sequence order is the only positional information.
type Instance struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"type"`
	Config Config `json:"config,omitempty"`
}

// NewInstance creates an instance of the given kind with the supplied config.
// IDs are "{kind}-{unix-millis}" and stay stable for the instance lifetime.
func NewInstance(kind Kind, cfg Config) Instance {
	return Instance{
		ID:     fmt.Sprintf("%s-%d", kind, time.Now().UnixMilli()),
		Kind:   kind,
		Config: cfg,
	}
}

// Clone returns a deep copy of the instance.
func (in Instance) Clone() Instance {
	out := in
	out.Config = in.Config.Clone()
	return out
}

// CloneSequence deep-copies a whole widget sequence.
func CloneSequence(seq []Instance) []Instance {
	if seq == nil {
		return nil
	}
	out := make([]Instance, len(seq))
	for i, in := range seq {
		out[i] = in.Clone()
	}
	return out
}
