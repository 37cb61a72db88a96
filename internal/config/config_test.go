package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultSmallBlind, cfg.Table.SmallBlind)
	assert.Equal(t, DefaultBigBlind, cfg.Table.BigBlind)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	require.Len(t, cfg.Players, 2)
	assert.Equal(t, DefaultStartingChips, cfg.Players[0].Chips)
	assert.Equal(t, 2*time.Second, cfg.Players[1].TimeoutDuration())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	src := `
table {
  small_blind    = 25
  big_blind      = 50
  max_seats      = 6
  starting_chips = 5000
  seed           = 42
}

logging {
  level = "debug"
  file  = "sim.log"
}

player "alice" {
  strategy = "equity"
  timeout  = "500ms"
}

player "bob" {
  strategy = "calling"
  chips    = 2500
}

player "carol" {}
`
	path := filepath.Join(t.TempDir(), "sim.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, TableSettings{SmallBlind: 25, BigBlind: 50, MaxSeats: 6, StartingChips: 5000, Seed: 42}, *cfg.Table)
	assert.Equal(t, LoggingSettings{Level: "debug", File: "sim.log"}, *cfg.Logging)
	require.Len(t, cfg.Players, 3)

	alice, ok := cfg.Player("alice")
	require.True(t, ok)
	assert.Equal(t, "equity", alice.Strategy)
	assert.Equal(t, 5000, alice.Chips)
	assert.Equal(t, 500*time.Millisecond, alice.TimeoutDuration())

	bob, _ := cfg.Player("bob")
	assert.Equal(t, 2500, bob.Chips)

	carol, _ := cfg.Player("carol")
	assert.Equal(t, DefaultStrategy, carol.Strategy)
	assert.Equal(t, DefaultTimeout, carol.Timeout)

	_, ok = cfg.Player("dave")
	assert.False(t, ok)
}

func TestParseDefaultsBigBlindFromSmall(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(`table { small_blind = 20 }`), "inline.hcl")
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Table.BigBlind)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `table {`},
		{"unknown attribute", `table { ante = 5 }`},
		{"wrong type", `table { small_blind = "lots" }`},
		{"player without label", `player { strategy = "random" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		errs   []string
	}{
		{
			name:   "valid default",
			mutate: func(*Config) {},
		},
		{
			name:   "big blind below small blind",
			mutate: func(c *Config) { c.Table.SmallBlind, c.Table.BigBlind = 20, 10 },
			errs:   []string{"big blind 10 is below small blind 20"},
		},
		{
			name:   "too few players",
			mutate: func(c *Config) { c.Players = c.Players[:1] },
			errs:   []string{"at least 2 players"},
		},
		{
			name: "more players than seats",
			mutate: func(c *Config) {
				c.Table.MaxSeats = 2
				c.Players = append(c.Players, PlayerConfig{Name: "carol", Strategy: "fold", Chips: 10, Timeout: "1s"})
			},
			errs: []string{"3 players do not fit 2 seats"},
		},
		{
			name: "several player problems reported together",
			mutate: func(c *Config) {
				c.Players[0].Strategy = "psychic"
				c.Players[1].Timeout = "-1s"
				c.Players[1].Chips = -5
			},
			errs: []string{"unknown strategy \"psychic\"", "timeout must not be negative", "chips must be positive"},
		},
		{
			name:   "bad timeout",
			mutate: func(c *Config) { c.Players[0].Timeout = "soon" },
			errs:   []string{"player alice: timeout"},
		},
		{
			name:   "duplicate names",
			mutate: func(c *Config) { c.Players[1].Name = "alice" },
			errs:   []string{"configured twice"},
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "chatty" },
			errs:   []string{"logging:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.errs) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.errs {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
