package model

import (
	"maps"
	"slices"
)

// Defaults carried over from the economy design documents.
const (
	DefaultStartingCash         = 45
	DefaultBaseDayHours         = 14
	DefaultAssistantHireCost    = 180
	DefaultAssistantHourlyRate  = 8
	DefaultAssistantHoursPerDay = 3

	// StarterAssetID is built when a run selects no assets and BuildStarterAsset is set.
	StarterAssetID = "blog"
)

// AssetTuning scales one asset's catalog values. Zero fields mean 1.0.
type AssetTuning struct {
	IncomeMultiplier          float64 `yaml:"income_multiplier" json:"income_multiplier"`
	SetupCostMultiplier       float64 `yaml:"setup_cost_multiplier" json:"setup_cost_multiplier"`
	MaintenanceCostMultiplier float64 `yaml:"maintenance_cost_multiplier" json:"maintenance_cost_multiplier"`
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Income returns the effective income multiplier.
func (t AssetTuning) Income() float64 { return orOne(t.IncomeMultiplier) }

// SetupCost returns the effective setup cost multiplier.
func (t AssetTuning) SetupCost() float64 { return orOne(t.SetupCostMultiplier) }

// MaintenanceCost returns the effective maintenance cost multiplier.
func (t AssetTuning) MaintenanceCost() float64 { return orOne(t.MaintenanceCostMultiplier) }

// SimulationConfig holds the tunable scalars of one run. A run never mutates it.
type SimulationConfig struct {
	StartingCash         float64 `yaml:"starting_cash" json:"starting_cash"`
	BaseDayHours         float64 `yaml:"base_day_hours" json:"base_day_hours"`
	AssistantHireCost    float64 `yaml:"assistant_hire_cost" json:"assistant_hire_cost"`
	AssistantHourlyRate  float64 `yaml:"assistant_hourly_rate" json:"assistant_hourly_rate"`
	AssistantHoursPerDay float64 `yaml:"assistant_hours_per_day" json:"assistant_hours_per_day"`

	AssetTuning             map[string]AssetTuning `yaml:"asset_tuning" json:"asset_tuning,omitempty"`
	HustleIncomeMultipliers map[string]float64     `yaml:"hustle_income_multipliers" json:"hustle_income_multipliers,omitempty"`

	AssetIDs          []string `yaml:"asset_ids" json:"asset_ids,omitempty"`
	UpgradeIDs        []string `yaml:"upgrade_ids" json:"upgrade_ids,omitempty"`
	BuildStarterAsset bool     `yaml:"build_starter_asset" json:"build_starter_asset"`
}

// DefaultSimulationConfig returns the baseline balancing knobs.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		StartingCash:         DefaultStartingCash,
		BaseDayHours:         DefaultBaseDayHours,
		AssistantHireCost:    DefaultAssistantHireCost,
		AssistantHourlyRate:  DefaultAssistantHourlyRate,
		AssistantHoursPerDay: DefaultAssistantHoursPerDay,
		BuildStarterAsset:    true,
	}
}

// Clone returns a deep copy so a derived config can be changed without
// touching the original.
func (c SimulationConfig) Clone() SimulationConfig {
	out := c
	out.AssetTuning = maps.Clone(c.AssetTuning)
	out.HustleIncomeMultipliers = maps.Clone(c.HustleIncomeMultipliers)
	out.AssetIDs = slices.Clone(c.AssetIDs)
	out.UpgradeIDs = slices.Clone(c.UpgradeIDs)
	return out
}

// TuningFor returns the tuning of one asset, identity when none is set.
func (c SimulationConfig) TuningFor(assetID string) AssetTuning {
	return c.AssetTuning[assetID]
}

// HustleIncomeMultiplier returns the configured income multiplier of a hustle.
func (c SimulationConfig) HustleIncomeMultiplier(hustleID string) float64 {
	return orOne(c.HustleIncomeMultipliers[hustleID])
}

// SelectedAssets resolves the asset selection of a run: explicit IDs win, then
// the configured IDs, then the starter asset.
func (c SimulationConfig) SelectedAssets(explicit []string) []string {
	if explicit != nil {
		return slices.Clone(explicit)
	}
	if len(c.AssetIDs) > 0 {
		return slices.Clone(c.AssetIDs)
	}
	if c.BuildStarterAsset {
		return []string{StarterAssetID}
	}
	return nil
}

// SelectedUpgrades resolves the upgrade selection of a run.
func (c SimulationConfig) SelectedUpgrades(explicit []string) []string {
	if explicit != nil {
		return slices.Clone(explicit)
	}
	return slices.Clone(c.UpgradeIDs)
}
