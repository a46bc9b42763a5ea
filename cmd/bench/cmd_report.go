package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"EconomyBench/internal/catalog"
	"EconomyBench/internal/notifier"
	"EconomyBench/internal/scheduler"
	"EconomyBench/internal/server"
)

var (
	reportDir   string
	runOnStart  bool
	watchFile   bool
	serveAddr   string
	shutdownTTL = 10 * time.Second
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the full report (ledger, asset plan, ROI, assistant scenarios) once",
	RunE:  runReport,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the report on the configured cron schedule",
	Long: `Runs the report job on report.cron (six fields, seconds first) until
interrupted. Each run reloads the catalog, so edits are picked up without a
restart.`,
	RunE: runWatch,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, watchCmd} {
		c.Flags().StringVar(&reportDir, "dir", "", "Report output directory (default from config)")
	}
	watchCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run the report once before waiting for the schedule")
	watchCmd.Flags().BoolVar(&watchFile, "on-change", false, "Also rerun the report when the catalog file changes")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func newScheduler(cmd *cobra.Command) *scheduler.Scheduler {
	dir := cfg.Report.Dir
	if reportDir != "" {
		dir = reportDir
	}
	sched := scheduler.NewScheduler(cmd.Context(), source, openRecorder(), reportOptions(), dir, logger)
	if cfg.NotificationsEnabled() {
		sched.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}
	return sched
}

func runReport(cmd *cobra.Command, args []string) error {
	runID, err := newScheduler(cmd).RunNow()
	if err != nil {
		return err
	}
	if runID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "run %s\n", runID)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	sched := newScheduler(cmd)
	if err := sched.Register(cfg.Report.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if runOnStart {
		logger.Info().Msg("run-on-start enabled, executing report now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				logger.Error().Err(err).Msg("report failed")
			}
		}()
	}

	if watchFile {
		fs, ok := source.(*catalog.FileSource)
		if !ok {
			return fmt.Errorf("--on-change needs a catalog file, got %s", source.Name())
		}
		go func() {
			if err := sched.WatchFile(cmd.Context(), fs.Path, 500*time.Millisecond); err != nil {
				logger.Error().Err(err).Msg("catalog watcher stopped")
			}
		}()
	}

	logger.Info().Str("cron", cfg.Report.Cron).Msg("watching. Press Ctrl+C to stop.")
	<-cmd.Context().Done()
	logger.Info().Msg("shutdown signal received, stopping...")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := server.New(server.Config{
		Addr:           addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            logger,
		Source:         source,
		Recorder:       openRecorder(),
		Defaults:       reportOptions(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTTL)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
