// Command bench simulates an incremental-game economy and reports on it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"EconomyBench/internal/catalog"
	"EconomyBench/internal/config"
	"EconomyBench/internal/logging"
	"EconomyBench/internal/model"
	"EconomyBench/internal/recorder"
	"EconomyBench/internal/report"
)

var (
	// Global flags
	configPath  string
	catalogPath string
	logLevel    string
	prettyLog   bool

	// Populated by rootCmd's PersistentPreRunE.
	cfg    *config.Config
	logger zerolog.Logger
	source catalog.Source
	rec    recorder.Recorder
)

var rootCmd = &cobra.Command{
	Use:   "bench",
	Short: "EconomyBench - balance testing for an incremental-game economy",
	Long: `bench runs day-by-day simulations of an incremental-game economy
described by a catalog of assets, hustles, education tracks, upgrades and
modifiers, and reports cash flow, asset plans and education ROI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if catalogPath != "" {
			cfg.Catalog.Path = catalogPath
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if prettyLog {
			cfg.Log.Pretty = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}

		logger = logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
		source = catalog.NewSource(cfg.Catalog.Path, cfg.Proxy)
		logger.Debug().Str("catalog", source.Name()).Str("config", configPath).Msg("bench initialized")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rec != nil {
			_ = rec.Close()
		}
	},
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Config file (or set CONFIG_PATH env)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog file or http(s) URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&prettyLog, "pretty", false, "Human-readable log output")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(roiCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// openRecorder opens the configured run store once per process.
func openRecorder() recorder.Recorder {
	if rec == nil {
		rec = recorder.Open(cfg.Database.SQLitePath, logger)
	}
	return rec
}

// reportOptions returns the configured run defaults.
func reportOptions() report.Options {
	return report.Options{
		Config:        cfg.Simulation.Clone(),
		Days:          cfg.Run.Days,
		Assistants:    cfg.Run.Assistants,
		MaxAssistants: cfg.Run.MaxAssistants,
		HorizonDays:   cfg.Run.HorizonDays,
	}
}

func loadCatalog(cmd *cobra.Command) (*model.Catalog, error) {
	cat, err := source.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", source.Name(), err)
	}
	return cat, nil
}
