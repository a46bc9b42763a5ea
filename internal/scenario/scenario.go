// Package scenario runs families of independent simulations: assistant
// counts and one-parameter sensitivity sweeps.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"EconomyBench/internal/calculator"
	"EconomyBench/internal/model"
	"EconomyBench/internal/simulator"
)

// Workers bounds how many runs execute at once. Zero uses GOMAXPROCS.
var Workers = 0

func workerLimit(n int) int {
	w := Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(1, min(w, n))
}

// AssistantResult summarises one assistant count.
type AssistantResult struct {
	Assistants     int          `json:"assistants"`
	AvgDailyChange float64      `json:"avg_daily_change"`
	FinalCash      float64      `json:"final_cash"`
	LowestCash     float64      `json:"lowest_cash"`
	Ledger         model.Ledger `json:"-"`
}

// Sustainable reports whether the run ended with more cash than it started.
func (r AssistantResult) Sustainable() bool { return r.AvgDailyChange > 0 }

// AssistantScenarios runs the baseline once per assistant count 0..maxAssistants.
// Results are ordered by assistant count.
func AssistantScenarios(ctx context.Context, cat *model.Catalog, cfg model.SimulationConfig, days, maxAssistants int) ([]AssistantResult, error) {
	if maxAssistants < 0 {
		return nil, fmt.Errorf("%w: max assistants must not be negative", simulator.ErrInvalidInput)
	}
	results := make([]AssistantResult, maxAssistants+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(len(results)))
	for n := range results {
		runCfg := cfg.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := simulator.Simulate(cat, days, n, runCfg, nil, nil)
			if err != nil {
				return fmt.Errorf("assistants=%d: %w", n, err)
			}
			results[n] = AssistantResult{
				Assistants:     n,
				AvgDailyChange: calculator.AverageDailyChange(res.Ledger),
				FinalCash:      res.Ledger.FinalCash(),
				LowestCash:     lowest(res.Ledger),
				Ledger:         res.Ledger,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lowest(l model.Ledger) float64 {
	if _, low, err := calculator.CashRange(l, 0); err == nil {
		return low
	}
	return 0
}

// Sweep describes a one-parameter sensitivity sweep.
type Sweep struct {
	Parameter  string  `json:"parameter"`
	Span       float64 `json:"span"`
	Samples    int     `json:"samples"`
	Days       int     `json:"days"`
	Assistants int     `json:"assistants"`
}

// Point is the outcome of one sample of a sweep.
type Point struct {
	Value          float64 `json:"value"`
	FinalCash      float64 `json:"final_cash"`
	AvgDailyChange float64 `json:"avg_daily_change"`
}

// Values returns Samples values linearly spaced over [base/Span, base*Span].
func (s Sweep) Values(base float64) ([]float64, error) {
	if s.Span < 1 {
		return nil, errors.New("span must be at least 1")
	}
	switch {
	case s.Samples <= 0:
		return nil, errors.New("samples must be positive")
	case s.Samples == 1:
		return []float64{base}, nil
	}
	return floats.Span(make([]float64, s.Samples), base/s.Span, base*s.Span), nil
}

// Sensitivity runs one independent simulation per sampled value of the swept
// parameter. Points are in ascending sample order.
func Sensitivity(ctx context.Context, cat *model.Catalog, cfg model.SimulationConfig, sweep Sweep) ([]Point, error) {
	base, err := BaseValue(cfg, sweep.Parameter)
	if err != nil {
		return nil, err
	}
	values, err := sweep.Values(base)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", sweep.Parameter, err)
	}

	configs := make([]model.SimulationConfig, len(values))
	for i, v := range values {
		if configs[i], err = ApplyParameter(cfg, sweep.Parameter, v); err != nil {
			return nil, err
		}
	}

	points := make([]Point, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(len(values)))
	for i, v := range values {
		runCfg := configs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := simulator.Simulate(cat, sweep.Days, sweep.Assistants, runCfg, nil, nil)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.Parameter, v, err)
			}
			points[i] = Point{
				Value:          v,
				FinalCash:      res.Ledger.FinalCash(),
				AvgDailyChange: calculator.AverageDailyChange(res.Ledger),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
