package simulator

import (
	"EconomyBench/internal/model"
)

// Hustles the scheduler runs every day, in priority order.
const (
	FreelanceHustleID = "freelance"
	SurveyHustleID    = "surveySprint"
)

// HustleIDs is the fixed hustle selection of a run.
var HustleIDs = []string{FreelanceHustleID, SurveyHustleID}

// assetState is the per-run snapshot of one asset plus its lifecycle flags.
type assetState struct {
	id                 string
	name               string
	setupCost          float64
	setupDaysRequired  int
	setupMinutesPerDay float64
	maintenanceMinutes float64
	maintenanceCost    float64
	dailyIncome        float64
	sources            []string

	started      bool
	progressDays int
	active       bool
}

func newAssetState(def *model.Asset, effect *model.EntityEffect, tuning model.AssetTuning) *assetState {
	return &assetState{
		id:                 def.ID,
		name:               def.Name,
		setupCost:          def.SetupCost * tuning.SetupCost(),
		setupDaysRequired:  def.Schedule.SetupDays,
		setupMinutesPerDay: def.Schedule.SetupMinutesPerDay * effect.SetupTimeMult,
		maintenanceMinutes: def.MaintenanceTime * effect.MaintenanceTimeMult,
		maintenanceCost:    def.MaintenanceCost * tuning.MaintenanceCost(),
		dailyIncome:        effect.AdjustIncome(def.AverageIncome() * tuning.Income()),
		sources:            effect.SourceList(),
	}
}

// buildAssetStates snapshots every selected asset that exists in the catalog,
// keeping selection order.
func buildAssetStates(cat *model.Catalog, ids []string, eff *model.UpgradeEffects, cfg model.SimulationConfig) []*assetState {
	states := make([]*assetState, 0, len(ids))
	for _, id := range ids {
		def, ok := cat.Asset(id)
		if !ok {
			continue
		}
		if def.ID == "" {
			def = withID(def, id)
		}
		states = append(states, newAssetState(def, eff.Asset(id), cfg.TuningFor(id)))
	}
	return states
}

func withID(def *model.Asset, id string) *model.Asset {
	c := *def
	c.ID = id
	return &c
}

// hustlePlan is the effect-adjusted daily behaviour of one hustle.
type hustlePlan struct {
	id          string
	hoursPerRun float64
	income      float64
	limit       int // negative = no cap
}

func buildHustlePlan(cat *model.Catalog, id string, eff *model.UpgradeEffects, cfg model.SimulationConfig, capped bool) (hustlePlan, bool) {
	def, ok := cat.Hustle(id)
	if !ok {
		return hustlePlan{id: id, limit: -1}, false
	}
	effect := eff.Hustle(id)
	plan := hustlePlan{
		id:          id,
		hoursPerRun: def.SetupTime / 60 * effect.SetupTimeMult,
		income:      effect.AdjustIncome(def.BaseIncome * cfg.HustleIncomeMultiplier(id)),
		limit:       -1,
	}
	if capped && def.DailyLimit != nil {
		plan.limit = *def.DailyLimit
	}
	return plan, true
}

// runsFor returns how many runs fit in the remaining hours. A zero-duration
// hustle never runs.
func (h hustlePlan) runsFor(hoursLeft float64) int {
	if h.hoursPerRun <= 0 || hoursLeft <= 0 {
		return 0
	}
	runs := int(hoursLeft / h.hoursPerRun)
	if h.limit >= 0 && runs > h.limit {
		runs = h.limit
	}
	return runs
}
