package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"EconomyBench/internal/model"
	"EconomyBench/internal/recorder"
	"EconomyBench/internal/report"
	"EconomyBench/internal/roi"
	"EconomyBench/internal/scenario"
	"EconomyBench/internal/simulator"
)

var (
	runDays       int
	runAssistants int
	runAssets     []string
	runUpgrades   []string
	runHorizon    int
	runTop        int
	outPath       string
	recordRun     bool

	sweepParam   string
	sweepSpan    float64
	sweepSamples int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a day-by-day simulation and print the cash summary",
	Long: `Simulates the configured number of days with the selected assets and
upgrades. Use --out to export the daily ledger as CSV ("-" for stdout).

Example:
  bench simulate --days 60 --assistants 1 --assets blog,vlog --upgrades camera`,
	RunE: runSimulate,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the effect-adjusted cost, time and income of each selected asset",
	RunE:  runPlan,
}

var roiCmd = &cobra.Command{
	Use:   "roi",
	Short: "Rank education tracks by payback against a baseline run",
	RunE:  runROI,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep one balancing parameter and report final cash per value",
	Long: `Runs one simulation per sampled value of a parameter, spaced linearly
over [base/span, base*span].

Parameters:
  starting_cash, base_day_hours, assistant_hire_cost, assistant_hourly_rate,
  assistant_hours_per_day, asset_income:<asset>, asset_setup_cost:<asset>,
  asset_maintenance_cost:<asset>, hustle_income:<hustle>

Example:
  bench sweep --param asset_income:blog --span 2 --samples 9`,
	RunE: runSweep,
}

func init() {
	for _, c := range []*cobra.Command{simulateCmd, roiCmd, sweepCmd} {
		c.Flags().IntVar(&runDays, "days", 0, "Days to simulate (default from config)")
		c.Flags().IntVar(&runAssistants, "assistants", 0, "Assistants hired on day one (default from config)")
		c.Flags().StringVarP(&outPath, "out", "o", "", `Write CSV to this path ("-" for stdout)`)
		c.Flags().BoolVar(&recordRun, "record", false, "Store the run in the SQLite database")
	}
	for _, c := range []*cobra.Command{simulateCmd, planCmd, roiCmd, sweepCmd} {
		c.Flags().StringSliceVar(&runAssets, "assets", nil, "Asset IDs to build (default from config)")
		c.Flags().StringSliceVar(&runUpgrades, "upgrades", nil, "Upgrade IDs to apply (default from config)")
	}
	planCmd.Flags().StringVarP(&outPath, "out", "o", "", `Write CSV to this path ("-" for stdout)`)

	roiCmd.Flags().IntVar(&runHorizon, "horizon", 0, "Net gain horizon in days (default from config)")
	roiCmd.Flags().IntVar(&runTop, "top", 0, "Rows to print (default from config, 0 prints all)")

	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "Parameter to sweep (required)")
	sweepCmd.Flags().Float64Var(&sweepSpan, "span", 2, "Sweep over [base/span, base*span]")
	sweepCmd.Flags().IntVar(&sweepSamples, "samples", 5, "Number of sampled values")
	sweepCmd.MarkFlagRequired("param")
}

// runOptions merges command flags over the configured defaults.
func runOptions(cmd *cobra.Command) report.Options {
	opts := reportOptions()
	if cmd.Flags().Changed("days") {
		opts.Days = runDays
	}
	if cmd.Flags().Changed("assistants") {
		opts.Assistants = runAssistants
	}
	if cmd.Flags().Changed("horizon") {
		opts.HorizonDays = runHorizon
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = roi.DefaultHorizonDays
	}
	return opts
}

// writeOutput sends a CSV export to outPath. It reports false when no --out
// was given.
func writeOutput(write func(io.Writer) error) (bool, error) {
	switch outPath {
	case "":
		return false, nil
	case "-":
		return true, write(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return true, fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return true, err
	}
	logger.Info().Str("path", outPath).Msg("csv written")
	return true, f.Close()
}

func logSkipped(skipped []model.SkippedModifier) {
	for _, sk := range skipped {
		logger.Warn().
			Str("source", sk.Modifier.Source).
			Str("target", sk.Modifier.Target).
			Str("entity", sk.EntityID).
			Str("reason", sk.Reason).
			Msg("modifier skipped")
	}
}

func recordSnapshot(opts report.Options, ledger model.Ledger) string {
	runID, err := openRecorder().RecordRun(&recorder.RunSnapshot{
		Source:     "cli",
		Days:       opts.Days,
		Assistants: opts.Assistants,
		Config:     opts.Config,
		AssetIDs:   opts.Config.SelectedAssets(runAssets),
		UpgradeIDs: opts.Config.SelectedUpgrades(runUpgrades),
		Ledger:     ledger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("record run")
		return ""
	}
	logger.Info().Str("run_id", runID).Msg("run recorded")
	return runID
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	opts := runOptions(cmd)

	res, err := simulator.Simulate(cat, opts.Days, opts.Assistants, opts.Config, runAssets, runUpgrades)
	if err != nil {
		return err
	}
	logSkipped(res.Effects.Skipped)
	if recordRun {
		recordSnapshot(opts, res.Ledger)
	}

	if wrote, err := writeOutput(func(w io.Writer) error { return report.WriteLedgerCSV(w, res.Ledger) }); wrote || err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatRunSummary(report.Summarize(res.Ledger, opts.Assistants)))
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	opts := reportOptions()

	plan, eff, err := simulator.PlanAssets(cat, opts.Config, runAssets, runUpgrades)
	if err != nil {
		return err
	}
	logSkipped(eff.Skipped)

	if wrote, err := writeOutput(func(w io.Writer) error { return report.WriteAssetPlanCSV(w, plan) }); wrote || err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatAssetPlan(plan))
	if eff.TimeBonusMinutes != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Daily time bonus: %+.0f minutes\n", eff.TimeBonusMinutes)
	}
	return nil
}

func runROI(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	opts := runOptions(cmd)

	res, err := simulator.Simulate(cat, opts.Days, opts.Assistants, opts.Config, runAssets, runUpgrades)
	if err != nil {
		return err
	}
	rows := roi.AnalyzeMetrics(cat, res.Metrics, opts.HorizonDays)
	if recordRun {
		if runID := recordSnapshot(opts, res.Ledger); runID != "" {
			if err := openRecorder().RecordROI(runID, rows); err != nil {
				logger.Error().Err(err).Msg("record roi")
			}
		}
	}

	if wrote, err := writeOutput(func(w io.Writer) error { return report.WriteROICSV(w, rows) }); wrote || err != nil {
		return err
	}
	top := cfg.Report.TopN
	if cmd.Flags().Changed("top") {
		top = runTop
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatROITable(rows, opts.HorizonDays, top))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	opts := runOptions(cmd)
	if len(runAssets) > 0 {
		opts.Config.AssetIDs = runAssets
	}
	if len(runUpgrades) > 0 {
		opts.Config.UpgradeIDs = runUpgrades
	}

	sweep := scenario.Sweep{
		Parameter:  sweepParam,
		Span:       sweepSpan,
		Samples:    sweepSamples,
		Days:       opts.Days,
		Assistants: opts.Assistants,
	}
	points, err := scenario.Sensitivity(cmd.Context(), cat, opts.Config, sweep)
	if err != nil {
		return err
	}
	if recordRun {
		if runID := recordSnapshot(opts, nil); runID != "" {
			if err := openRecorder().RecordSensitivity(runID, sweepParam, points); err != nil {
				logger.Error().Err(err).Msg("record sensitivity")
			}
		}
	}

	if wrote, err := writeOutput(func(w io.Writer) error { return report.WriteSensitivityCSV(w, sweepParam, points) }); wrote || err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.FormatSensitivity(sweepParam, points))
	return nil
}
