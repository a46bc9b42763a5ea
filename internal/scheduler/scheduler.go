// Package scheduler runs the economy report on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"EconomyBench/internal/catalog"
	"EconomyBench/internal/notifier"
	"EconomyBench/internal/recorder"
	"EconomyBench/internal/report"
)

// Scheduler manages the periodic report job.
type Scheduler struct {
	Cron     *cron.Cron
	Source   catalog.Source
	Recorder recorder.Recorder
	Options  report.Options
	Dir      string
	Ctx      context.Context
	Notifier notifier.Notifier // optional digest after each run

	log zerolog.Logger
	mu  sync.Mutex // one report at a time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, src catalog.Source, rec recorder.Recorder, opts report.Options, dir string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Source:   src,
		Recorder: rec,
		Options:  opts,
		Dir:      dir,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Register schedules the report job. Expressions include a seconds field.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the report job immediately and returns the run ID.
func (s *Scheduler) RunNow() (string, error) {
	return s.run("manual")
}

func (s *Scheduler) reportTask() {
	if _, err := s.run("cron"); err != nil {
		s.log.Error().Err(err).Msg("report task failed")
	}
}

func (s *Scheduler) run(source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info().Str("trigger", source).Str("catalog", s.Source.Name()).Msg("running report task")
	cat, err := s.Source.Load(s.Ctx)
	if err != nil {
		return "", fmt.Errorf("load catalog: %w", err)
	}

	bundle, res, err := report.Build(s.Ctx, cat, s.Options)
	if err != nil {
		return "", err
	}
	for _, sk := range res.Effects.Skipped {
		s.log.Warn().Str("source", sk.Modifier.Source).Str("target", sk.Modifier.Target).Str("reason", sk.Reason).Msg("modifier skipped")
	}

	paths, err := bundle.WriteDir(s.Dir)
	if err != nil {
		s.log.Error().Err(err).Str("dir", s.Dir).Msg("write report files")
	} else {
		s.log.Info().Strs("files", paths).Msg("report written")
	}

	// Persistence failures are logged; the report itself already succeeded.
	runID, err := s.Recorder.RecordRun(&recorder.RunSnapshot{
		Source:     source,
		Days:       s.Options.Days,
		Assistants: s.Options.Assistants,
		Config:     s.Options.Config,
		AssetIDs:   s.Options.Config.SelectedAssets(nil),
		UpgradeIDs: s.Options.Config.SelectedUpgrades(nil),
		Ledger:     bundle.Ledger,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("record run")
		s.notify(bundle)
		return "", nil
	}
	if err := s.Recorder.RecordROI(runID, bundle.ROI); err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("record roi")
	}

	s.notify(bundle)

	s.log.Info().
		Str("run_id", runID).
		Float64("final_cash", bundle.Summary.FinalCash).
		Int("tracks", len(bundle.ROI)).
		Msg("report task done")
	return runID, nil
}

func (s *Scheduler) notify(bundle *report.Bundle) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(s.Ctx, notifier.FormatReportDigest(bundle, time.Now())); err != nil {
		s.log.Error().Err(err).Msg("send report digest")
	}
}
