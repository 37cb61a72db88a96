package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/pokerengine/internal/config"
	"github.com/lox/pokerengine/internal/fileutil"
	"github.com/lox/pokerengine/internal/simulator"
)

type CLI struct {
	Config   string `short:"c" default:"holdem-sim.hcl" help:"HCL configuration file (defaults are used if it does not exist)"`
	Hands    int    `short:"n" default:"1000" help:"Maximum number of hands to play"`
	Seed     int64  `help:"RNG seed, overrides the config file (0 keeps the file's seed)"`
	LogLevel string `help:"Log level: debug, info, warn, error (overrides the config file)"`
	NoColor  bool   `help:"Disable colored output"`
	JSON     string `name:"json" type:"path" help:"Also write the report as JSON to this file"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("holdem-sim"),
		kong.Description("Play no-limit hold'em hands between built-in policies."))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := run(cli); err != nil {
		log.Error("Simulation failed", "error", err)
		kctx.Exit(1)
	}
}

func run(cli CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cli.Config, err)
	}
	if cli.Seed != 0 {
		cfg.Table.Seed = cli.Seed
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Logging, cli.NoColor)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simCfg, err := simulator.FromConfig(cfg, cli.Hands, logger, quartz.NewReal())
	if err != nil {
		return err
	}

	logger.Info("Starting simulation",
		"hands", cli.Hands,
		"players", len(simCfg.Seats),
		"seed", simCfg.Seed,
		"blinds", fmt.Sprintf("%d/%d", simCfg.Table.SmallBlind, simCfg.Table.BigBlind))

	start := time.Now()
	report, err := simulator.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	logger.Info("Simulation finished", "hands", report.HandsPlayed, "elapsed", time.Since(start))

	fmt.Println(renderReport(report, simCfg.Table.BigBlind, time.Since(start)))

	if cli.JSON != "" {
		if err := fileutil.WriteJSON(cli.JSON, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("Wrote report", "path", cli.JSON)
	}
	return nil
}

// newLogger writes to stderr, or to the configured file when one is set.
func newLogger(settings *config.LoggingSettings, noColor bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(settings.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if settings.File != "" {
		f, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				log.Error("Failed to close log file", "error", err)
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "sim",
	})
	if noColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger, closeFn, nil
}
