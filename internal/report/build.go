package report

import (
	"context"
	"fmt"

	"EconomyBench/internal/model"
	"EconomyBench/internal/roi"
	"EconomyBench/internal/scenario"
	"EconomyBench/internal/simulator"
)

// Options selects what a report covers.
type Options struct {
	Config        model.SimulationConfig
	Days          int
	Assistants    int
	MaxAssistants int // assistant scenarios 0..MaxAssistants; negative skips them
	HorizonDays   int
}

// Build runs the baseline simulation and derives every report section from it:
// asset plan, ROI ranking and assistant scenarios.
func Build(ctx context.Context, cat *model.Catalog, opts Options) (*Bundle, *simulator.Result, error) {
	res, err := simulator.Simulate(cat, opts.Days, opts.Assistants, opts.Config, nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("baseline run: %w", err)
	}
	plan, _, err := simulator.PlanAssets(cat, opts.Config, nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("asset plan: %w", err)
	}

	b := &Bundle{
		Summary:     Summarize(res.Ledger, opts.Assistants),
		Ledger:      res.Ledger,
		ROI:         roi.AnalyzeMetrics(cat, res.Metrics, opts.HorizonDays),
		HorizonDays: opts.HorizonDays,
		Plan:        plan,
	}
	if opts.MaxAssistants >= 0 {
		b.Assistants, err = scenario.AssistantScenarios(ctx, cat, opts.Config, opts.Days, opts.MaxAssistants)
		if err != nil {
			return nil, nil, fmt.Errorf("assistant scenarios: %w", err)
		}
	}
	return b, res, nil
}
