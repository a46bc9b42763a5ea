package scenario

import (
	"errors"
	"fmt"
	"strings"

	"EconomyBench/internal/model"
)

// ErrUnknownParameter is returned for a parameter name no knob answers to.
var ErrUnknownParameter = errors.New("unknown parameter")

// Scalar parameters of SimulationConfig.
const (
	ParamStartingCash         = "starting_cash"
	ParamBaseDayHours         = "base_day_hours"
	ParamAssistantHireCost    = "assistant_hire_cost"
	ParamAssistantHourlyRate  = "assistant_hourly_rate"
	ParamAssistantHoursPerDay = "assistant_hours_per_day"
)

// Per-entity parameter prefixes, written as "<prefix>:<id>".
const (
	ParamAssetIncome          = "asset_income"
	ParamAssetSetupCost       = "asset_setup_cost"
	ParamAssetMaintenanceCost = "asset_maintenance_cost"
	ParamHustleIncome         = "hustle_income"
)

// Parameters lists the scalar parameter names.
var Parameters = []string{
	ParamStartingCash,
	ParamBaseDayHours,
	ParamAssistantHireCost,
	ParamAssistantHourlyRate,
	ParamAssistantHoursPerDay,
}

func splitParam(param string) (name, id string) {
	name, id, _ = strings.Cut(param, ":")
	return name, id
}

func scalar(cfg *model.SimulationConfig, name string) *float64 {
	switch name {
	case ParamStartingCash:
		return &cfg.StartingCash
	case ParamBaseDayHours:
		return &cfg.BaseDayHours
	case ParamAssistantHireCost:
		return &cfg.AssistantHireCost
	case ParamAssistantHourlyRate:
		return &cfg.AssistantHourlyRate
	case ParamAssistantHoursPerDay:
		return &cfg.AssistantHoursPerDay
	}
	return nil
}

// BaseValue returns the current value of a parameter. Multiplier parameters
// that are unset read as 1.
func BaseValue(cfg model.SimulationConfig, param string) (float64, error) {
	name, id := splitParam(param)
	if p := scalar(&cfg, name); p != nil && id == "" {
		return *p, nil
	}
	if id == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, param)
	}
	switch name {
	case ParamAssetIncome:
		return cfg.TuningFor(id).Income(), nil
	case ParamAssetSetupCost:
		return cfg.TuningFor(id).SetupCost(), nil
	case ParamAssetMaintenanceCost:
		return cfg.TuningFor(id).MaintenanceCost(), nil
	case ParamHustleIncome:
		return cfg.HustleIncomeMultiplier(id), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, param)
}

// ApplyParameter returns a copy of cfg with one parameter set to value.
// cfg itself is not modified.
func ApplyParameter(cfg model.SimulationConfig, param string, value float64) (model.SimulationConfig, error) {
	out := cfg.Clone()
	name, id := splitParam(param)
	if p := scalar(&out, name); p != nil && id == "" {
		*p = value
		return out, nil
	}
	if id == "" {
		return cfg, fmt.Errorf("%w: %q", ErrUnknownParameter, param)
	}

	switch name {
	case ParamAssetIncome, ParamAssetSetupCost, ParamAssetMaintenanceCost:
		if out.AssetTuning == nil {
			out.AssetTuning = map[string]model.AssetTuning{}
		}
		t := out.AssetTuning[id]
		switch name {
		case ParamAssetIncome:
			t.IncomeMultiplier = value
		case ParamAssetSetupCost:
			t.SetupCostMultiplier = value
		default:
			t.MaintenanceCostMultiplier = value
		}
		out.AssetTuning[id] = t
	case ParamHustleIncome:
		if out.HustleIncomeMultipliers == nil {
			out.HustleIncomeMultipliers = map[string]float64{}
		}
		out.HustleIncomeMultipliers[id] = value
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownParameter, param)
	}
	return out, nil
}
