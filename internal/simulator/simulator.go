// Package simulator runs the day-by-day cash and time economy.
package simulator

import (
	"errors"
	"fmt"

	"EconomyBench/internal/effects"
	"EconomyBench/internal/model"
)

// ErrInvalidInput reports arguments a run cannot start from.
var ErrInvalidInput = errors.New("invalid simulation input")

// Result is everything a run produces.
type Result struct {
	Ledger  model.Ledger
	Metrics *model.Metrics
	Effects *model.UpgradeEffects
}

// Simulate runs days of the economy with the given number of assistants.
// nil assetIDs/upgradeIDs fall back to the selection held by cfg.
//
// Each day claims cash and time in a fixed order: asset purchases, setup
// progress, maintenance and income, freelance runs, survey runs, then wages.
// Cash may go negative; the run does not stop or clamp.
func Simulate(cat *model.Catalog, days, assistants int, cfg model.SimulationConfig, assetIDs, upgradeIDs []string) (*Result, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidInput)
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidInput, days)
	}
	if assistants < 0 {
		return nil, fmt.Errorf("%w: assistants must not be negative, got %d", ErrInvalidInput, assistants)
	}

	selectedAssets := cfg.SelectedAssets(assetIDs)
	selectedUpgrades := cfg.SelectedUpgrades(upgradeIDs)
	eff := effects.Resolve(cat, selectedAssets, selectedUpgrades, HustleIDs)

	n := float64(assistants)
	cash := cfg.StartingCash - n*cfg.AssistantHireCost
	dayHours := cfg.BaseDayHours + n*cfg.AssistantHoursPerDay + eff.TimeBonusMinutes/60
	wages := n * cfg.AssistantHoursPerDay * cfg.AssistantHourlyRate

	assets := buildAssetStates(cat, selectedAssets, eff, cfg)
	freelance, _ := buildHustlePlan(cat, FreelanceHustleID, eff, cfg, false)
	survey, _ := buildHustlePlan(cat, SurveyHustleID, eff, cfg, true)

	ledger := make(model.Ledger, 0, days)
	metrics := model.NewMetrics(days)

	for day := 1; day <= days; day++ {
		row := model.LedgerRow{
			Day:              day,
			CashStart:        cash,
			AssistantWages:   wages,
			TimeBonusMinutes: eff.TimeBonusMinutes,
		}
		hoursLeft := dayHours

		// 1. purchases
		for _, a := range assets {
			if !a.started && cash >= a.setupCost {
				cash -= a.setupCost
				a.started = true
				a.progressDays = 0
				if a.setupDaysRequired == 0 {
					a.active = true
				}
			}
		}

		// 2. setup progress, at most one day of progress per asset
		for _, a := range assets {
			if !a.started || a.active {
				continue
			}
			if a.setupDaysRequired == 0 || a.setupMinutesPerDay == 0 {
				a.active = true
				continue
			}
			required := a.setupMinutesPerDay / 60
			if hoursLeft >= required {
				hoursLeft -= required
				row.HoursAssetSetup += required
				a.progressDays++
				if a.progressDays >= a.setupDaysRequired {
					a.active = true
				}
			}
		}

		// 3. maintenance and income
		for _, a := range assets {
			if !a.active {
				continue
			}
			row.ActiveAssets = append(row.ActiveAssets, a.id)
			maintenanceHours := a.maintenanceMinutes / 60
			if maintenanceHours > 0 && maintenanceHours > hoursLeft {
				row.IdleAssetCount++
				continue
			}
			if maintenanceHours > 0 {
				hoursLeft -= maintenanceHours
				row.HoursAssetMaintenance += maintenanceHours
			}
			cash -= a.maintenanceCost
			row.MaintenanceSpend += a.maintenanceCost
			cash += a.dailyIncome
			row.AssetIncome += a.dailyIncome
			metrics.AssetIncome[a.id] += a.dailyIncome
		}
		row.ActiveAssetCount = len(row.ActiveAssets)

		// 4-5. hustles
		runs, hours, income := runHustle(freelance, &hoursLeft, &cash, metrics)
		row.FreelanceRuns, row.HoursFreelance = runs, hours
		row.HustleIncome += income

		runs, hours, income = runHustle(survey, &hoursLeft, &cash, metrics)
		row.SurveyRuns, row.HoursSurvey = runs, hours
		row.HustleIncome += income

		// 6. wages
		cash -= wages

		row.CashEnd = cash
		ledger = append(ledger, row)
	}

	return &Result{Ledger: ledger, Metrics: metrics, Effects: eff}, nil
}

func runHustle(h hustlePlan, hoursLeft, cash *float64, metrics *model.Metrics) (runs int, hours, income float64) {
	runs = h.runsFor(*hoursLeft)
	for range runs {
		*hoursLeft -= h.hoursPerRun
		*cash += h.income
		hours += h.hoursPerRun
		income += h.income
	}
	if runs > 0 {
		metrics.HustleIncome[h.id] += income
		metrics.HustleRuns[h.id] += runs
	}
	return runs, hours, income
}

// PlanAssets returns the effect-adjusted snapshot of each selected asset
// without running any days.
func PlanAssets(cat *model.Catalog, cfg model.SimulationConfig, assetIDs, upgradeIDs []string) ([]model.AssetPlanRow, *model.UpgradeEffects, error) {
	if cat == nil {
		return nil, nil, fmt.Errorf("%w: nil catalog", ErrInvalidInput)
	}
	selectedAssets := cfg.SelectedAssets(assetIDs)
	eff := effects.Resolve(cat, selectedAssets, cfg.SelectedUpgrades(upgradeIDs), HustleIDs)

	states := buildAssetStates(cat, selectedAssets, eff, cfg)
	rows := make([]model.AssetPlanRow, 0, len(states))
	for _, a := range states {
		rows = append(rows, model.AssetPlanRow{
			AssetID:                a.id,
			Name:                   a.name,
			SetupCost:              a.setupCost,
			SetupDays:              a.setupDaysRequired,
			SetupHoursPerDay:       a.setupMinutesPerDay / 60,
			MaintenanceHoursPerDay: a.maintenanceMinutes / 60,
			MaintenanceCost:        a.maintenanceCost,
			DailyIncome:            a.dailyIncome,
			UpgradeSources:         a.sources,
		})
	}
	return rows, eff, nil
}
