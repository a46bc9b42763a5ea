package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"EconomyBench/internal/catalog"
	"EconomyBench/internal/model"
	"EconomyBench/internal/recorder"
	"EconomyBench/internal/report"
	"EconomyBench/internal/roi"
	"EconomyBench/internal/scenario"
	"EconomyBench/internal/simulator"
)

// Request bounds. Run time grows with days times hustle runs, and hustle runs
// grow with assistants.
const (
	maxDays       = 3650
	maxAssistants = 1000
	maxSamples    = 1000
	maxSpan       = 1000
	// maxMagnitude bounds every overridable config number so run totals
	// stay finite.
	maxMagnitude = 1e12
)

// runRequest is the common body of the simulation endpoints. Config fields
// that are present override the server defaults; absent ones keep them.
type runRequest struct {
	Days        *int            `json:"days"`
	Assistants  *int            `json:"assistants"`
	Config      json.RawMessage `json:"config"`
	AssetIDs    []string        `json:"asset_ids"`
	UpgradeIDs  []string        `json:"upgrade_ids"`
	HorizonDays *int            `json:"horizon_days"`
	Record      bool            `json:"record"`
}

type sweepRequest struct {
	runRequest
	Parameter string  `json:"parameter"`
	Span      float64 `json:"span"`
	Samples   int     `json:"samples"`
}

type simulateResponse struct {
	RunID      string                  `json:"run_id,omitempty"`
	Summary    report.RunSummary       `json:"summary"`
	Ledger     model.Ledger            `json:"ledger"`
	Metrics    *model.Metrics          `json:"metrics"`
	DailyRates model.DailyRates        `json:"daily_rates"`
	Skipped    []model.SkippedModifier `json:"skipped"`
}

// roiRow mirrors model.ROIRow with a nullable payback, since JSON has no
// infinity.
type roiRow struct {
	model.ROIRow
	PaybackDays *float64 `json:"payback_days"`
}

type roiResponse struct {
	HorizonDays int      `json:"horizon_days"`
	Rows        []roiRow `json:"rows"`
}

type planResponse struct {
	Assets           []model.AssetPlanRow    `json:"assets"`
	TimeBonusMinutes float64                 `json:"time_bonus_minutes"`
	Skipped          []model.SkippedModifier `json:"skipped"`
}

type sensitivityResponse struct {
	RunID     string           `json:"run_id,omitempty"`
	Parameter string           `json:"parameter"`
	Points    []scenario.Point `json:"points"`
}

// errBadRequest marks failures caused by the request body.
var errBadRequest = errors.New("bad request")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"catalog": s.source.Name(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.source.Load(r.Context())
	if err != nil {
		s.writeError(w, fmt.Errorf("load catalog: %w", err))
		return
	}
	s.writeJSON(w, http.StatusOK, catalog.Summarize(cat))
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	cat, opts, ok := s.prepare(w, r, &req, &req)
	if !ok {
		return
	}

	res, err := simulator.Simulate(cat, opts.Days, opts.Assistants, opts.Config, req.AssetIDs, req.UpgradeIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := simulateResponse{
		Summary:    report.Summarize(res.Ledger, opts.Assistants),
		Ledger:     res.Ledger,
		Metrics:    res.Metrics,
		DailyRates: res.Metrics.AsDaily(),
		Skipped:    res.Effects.Skipped,
	}
	if req.Record {
		resp.RunID = s.record(opts, req, res.Ledger)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	cat, opts, ok := s.prepare(w, r, &req, &req)
	if !ok {
		return
	}

	res, err := simulator.Simulate(cat, opts.Days, opts.Assistants, opts.Config, req.AssetIDs, req.UpgradeIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rows := roi.AnalyzeMetrics(cat, res.Metrics, opts.HorizonDays)

	if req.Record {
		if runID := s.record(opts, req, res.Ledger); runID != "" {
			if err := s.recorder.RecordROI(runID, rows); err != nil {
				s.log.Error().Err(err).Str("run_id", runID).Msg("record roi")
			}
		}
	}

	resp := roiResponse{HorizonDays: opts.HorizonDays, Rows: make([]roiRow, len(rows))}
	for i, row := range rows {
		resp.Rows[i] = toROIRow(row)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	cat, opts, ok := s.prepare(w, r, &req, &req)
	if !ok {
		return
	}

	plan, eff, err := simulator.PlanAssets(cat, opts.Config, req.AssetIDs, req.UpgradeIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, planResponse{
		Assets:           plan,
		TimeBonusMinutes: eff.TimeBonusMinutes,
		Skipped:          eff.Skipped,
	})
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	cat, opts, ok := s.prepare(w, r, &req, &req.runRequest)
	if !ok {
		return
	}

	if req.Samples > maxSamples {
		s.writeError(w, fmt.Errorf("%w: samples must be at most %d", errBadRequest, maxSamples))
		return
	}
	if req.Span > maxSpan {
		s.writeError(w, fmt.Errorf("%w: span must be at most %d", errBadRequest, maxSpan))
		return
	}

	sweep := scenario.Sweep{
		Parameter:  req.Parameter,
		Span:       req.Span,
		Samples:    req.Samples,
		Days:       opts.Days,
		Assistants: opts.Assistants,
	}
	points, err := scenario.Sensitivity(r.Context(), cat, opts.Config, sweep)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	resp := sensitivityResponse{Parameter: req.Parameter, Points: points}
	if req.Record {
		if resp.RunID = s.record(opts, req.runRequest, nil); resp.RunID != "" {
			if err := s.recorder.RecordSensitivity(resp.RunID, req.Parameter, points); err != nil {
				s.log.Error().Err(err).Str("run_id", resp.RunID).Msg("record sensitivity")
			}
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// prepare decodes body into dst, resolves run options against the server
// defaults and loads the catalog. It writes the error response itself and
// reports false when the handler should stop.
func (s *Server) prepare(w http.ResponseWriter, r *http.Request, dst any, req *runRequest) (*model.Catalog, report.Options, bool) {
	if err := decode(r, dst); err != nil {
		s.writeError(w, err)
		return nil, report.Options{}, false
	}
	opts, err := s.options(*req)
	if err != nil {
		s.writeError(w, err)
		return nil, report.Options{}, false
	}
	cat, err := s.source.Load(r.Context())
	if err != nil {
		s.writeError(w, fmt.Errorf("load catalog: %w", err))
		return nil, report.Options{}, false
	}
	return cat, opts, true
}

func decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode body: %w", errBadRequest, err)
	}
	return nil
}

func (s *Server) options(req runRequest) (report.Options, error) {
	opts := s.defaults
	opts.Config = s.defaults.Config.Clone()
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &opts.Config); err != nil {
			return opts, fmt.Errorf("%w: config: %w", errBadRequest, err)
		}
	}
	if req.Days != nil {
		opts.Days = *req.Days
	}
	if req.Assistants != nil {
		opts.Assistants = *req.Assistants
	}
	if req.HorizonDays != nil {
		opts.HorizonDays = *req.HorizonDays
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = roi.DefaultHorizonDays
	}
	if opts.Days > maxDays {
		return opts, fmt.Errorf("%w: days must be at most %d", errBadRequest, maxDays)
	}
	if opts.Assistants > maxAssistants {
		return opts, fmt.Errorf("%w: assistants must be at most %d", errBadRequest, maxAssistants)
	}
	if err := checkConfig(opts.Config); err != nil {
		return opts, fmt.Errorf("%w: config: %w", errBadRequest, err)
	}
	return opts, nil
}

// checkConfig rejects config numbers that are non-finite or large enough to
// overflow cash over a bounded run.
func checkConfig(cfg model.SimulationConfig) error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.Abs(v) > maxMagnitude {
			return fmt.Errorf("%s must be within ±%g", name, maxMagnitude)
		}
		return nil
	}
	var errs []error
	errs = append(errs,
		check("starting_cash", cfg.StartingCash),
		check("base_day_hours", cfg.BaseDayHours),
		check("assistant_hire_cost", cfg.AssistantHireCost),
		check("assistant_hourly_rate", cfg.AssistantHourlyRate),
		check("assistant_hours_per_day", cfg.AssistantHoursPerDay),
	)
	for id, t := range cfg.AssetTuning {
		errs = append(errs,
			check("asset_tuning."+id+".income_multiplier", t.IncomeMultiplier),
			check("asset_tuning."+id+".setup_cost_multiplier", t.SetupCostMultiplier),
			check("asset_tuning."+id+".maintenance_cost_multiplier", t.MaintenanceCostMultiplier),
		)
	}
	for id, m := range cfg.HustleIncomeMultipliers {
		errs = append(errs, check("hustle_income_multipliers."+id, m))
	}
	return errors.Join(errs...)
}

// record stores a run and returns its ID, or "" when the recorder failed.
func (s *Server) record(opts report.Options, req runRequest, ledger model.Ledger) string {
	runID, err := s.recorder.RecordRun(&recorder.RunSnapshot{
		Source:     "api",
		Days:       opts.Days,
		Assistants: opts.Assistants,
		Config:     opts.Config,
		AssetIDs:   opts.Config.SelectedAssets(req.AssetIDs),
		UpgradeIDs: opts.Config.SelectedUpgrades(req.UpgradeIDs),
		Ledger:     ledger,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("record run")
		return ""
	}
	return runID
}

func toROIRow(row model.ROIRow) roiRow {
	out := roiRow{ROIRow: row}
	if row.PaysBack() {
		v := row.PaybackDays
		out.PaybackDays = &v
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, simulator.ErrInvalidInput),
		errors.Is(err, scenario.ErrUnknownParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes data before writing the header, so an unencodable
// response becomes a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.log.Debug().Err(err).Msg("write response")
	}
}
