// Package config loads table, logging and player settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokerengine/internal/policy"
)

// Defaults for values a file leaves out.
const (
	DefaultSmallBlind    = 5
	DefaultBigBlind      = 10
	DefaultMaxSeats      = 9
	DefaultStartingChips = 1000
	DefaultLogLevel      = "info"
	DefaultStrategy      = policy.StrategyRandom
	DefaultTimeout       = "2s"
)

// Config is the complete simulation configuration.
type Config struct {
	Table   *TableSettings   `hcl:"table,block"`
	Logging *LoggingSettings `hcl:"logging,block"`
	Players []PlayerConfig   `hcl:"player,block"`
}

// TableSettings configures blinds, seats and the random seed.
type TableSettings struct {
	SmallBlind    int   `hcl:"small_blind,optional"`
	BigBlind      int   `hcl:"big_blind,optional"`
	MaxSeats      int   `hcl:"max_seats,optional"`
	StartingChips int   `hcl:"starting_chips,optional"`
	Seed          int64 `hcl:"seed,optional"` // 0 picks a time-based seed
}

// LoggingSettings configures the log level and an optional log file.
type LoggingSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// PlayerConfig seats one player driven by a named strategy.
type PlayerConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Chips    int    `hcl:"chips,optional"`   // falls back to the table's starting chips
	Timeout  string `hcl:"timeout,optional"` // decision time limit, e.g. "500ms"; "0s" disables
}

// TimeoutDuration parses Timeout. Validate reports malformed values.
func (p PlayerConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Default returns a heads-up table of two random players.
func Default() *Config {
	c := &Config{
		Players: []PlayerConfig{
			{Name: "alice"},
			{Name: "bob"},
		},
	}
	c.applyDefaults()
	return c
}

// Load reads an HCL file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes HCL source held in memory. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var config Config
	if diags := gohcl.DecodeBody(body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills in values left unset after decoding.
func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = DefaultSmallBlind
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = max(DefaultBigBlind, c.Table.SmallBlind*2)
	}
	if c.Table.MaxSeats == 0 {
		c.Table.MaxSeats = DefaultMaxSeats
	}
	if c.Table.StartingChips == 0 {
		c.Table.StartingChips = DefaultStartingChips
	}

	if c.Logging == nil {
		c.Logging = &LoggingSettings{}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	for i := range c.Players {
		if c.Players[i].Strategy == "" {
			c.Players[i].Strategy = DefaultStrategy
		}
		if c.Players[i].Chips == 0 {
			c.Players[i].Chips = c.Table.StartingChips
		}
		if c.Players[i].Timeout == "" {
			c.Players[i].Timeout = DefaultTimeout
		}
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	t := c.Table
	if t.SmallBlind <= 0 {
		errs = append(errs, fmt.Errorf("table: small blind must be positive, got %d", t.SmallBlind))
	}
	if t.BigBlind < t.SmallBlind {
		errs = append(errs, fmt.Errorf("table: big blind %d is below small blind %d", t.BigBlind, t.SmallBlind))
	}
	if t.MaxSeats < 2 {
		errs = append(errs, fmt.Errorf("table: max seats must be at least 2, got %d", t.MaxSeats))
	}
	if t.StartingChips < 0 {
		errs = append(errs, fmt.Errorf("table: starting chips must not be negative, got %d", t.StartingChips))
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(c.Players) < 2 {
		errs = append(errs, fmt.Errorf("at least 2 players must be configured, got %d", len(c.Players)))
	}
	if len(c.Players) > t.MaxSeats {
		errs = append(errs, fmt.Errorf("%d players do not fit %d seats", len(c.Players), t.MaxSeats))
	}

	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("player %s: configured twice", p.Name))
		}
		seen[p.Name] = true
		if !policy.Known(p.Strategy) {
			errs = append(errs, fmt.Errorf("player %s: unknown strategy %q (want one of %v)",
				p.Name, p.Strategy, policy.Strategies()))
		}
		if p.Chips <= 0 {
			errs = append(errs, fmt.Errorf("player %s: chips must be positive, got %d", p.Name, p.Chips))
		}
		d, err := time.ParseDuration(p.Timeout)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("player %s: timeout: %w", p.Name, err))
		case d < 0:
			errs = append(errs, fmt.Errorf("player %s: timeout must not be negative, got %s", p.Name, d))
		}
	}

	return errors.Join(errs...)
}

// Player returns the named player's configuration.
func (c *Config) Player(name string) (PlayerConfig, bool) {
	for _, p := range c.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerConfig{}, false
}
