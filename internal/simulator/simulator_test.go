package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconomyBench/internal/model"
)

func intPtr(v int) *int { return &v }

func baseConfig() model.SimulationConfig {
	cfg := model.DefaultSimulationConfig()
	cfg.BuildStarterAsset = false
	return cfg
}

func catalogWith(assets map[string]*model.Asset, hustles map[string]*model.Hustle, mods ...model.Modifier) *model.Catalog {
	if assets == nil {
		assets = map[string]*model.Asset{}
	}
	if hustles == nil {
		hustles = map[string]*model.Hustle{}
	}
	return &model.Catalog{Assets: assets, Hustles: hustles, Modifiers: mods}
}

func TestSimulate_FreeAssetEarnsEveryDay(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"blog": {ID: "blog", BaseIncome: 10},
	}, nil)

	res, err := Simulate(cat, 5, 0, baseConfig(), []string{"blog"}, nil)
	require.NoError(t, err)
	require.Len(t, res.Ledger, 5)

	want := []float64{55, 65, 75, 85, 95}
	for i, row := range res.Ledger {
		assert.Equal(t, i+1, row.Day)
		assert.InDelta(t, want[i]-10, row.CashStart, 1e-9)
		assert.InDelta(t, want[i], row.CashEnd, 1e-9)
		assert.Equal(t, []string{"blog"}, row.ActiveAssets)
		assert.Equal(t, 1, row.ActiveAssetCount)
	}
	assert.InDelta(t, 50.0, res.Metrics.AssetIncome["blog"], 1e-9)
	assert.InDelta(t, 95.0, res.Ledger.FinalCash(), 1e-9)
}

func TestSimulate_UnaffordableAssetNeverStarts(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"studio": {ID: "studio", SetupCost: 100, BaseIncome: 50},
	}, nil)

	res, err := Simulate(cat, 4, 0, baseConfig(), []string{"studio"}, nil)
	require.NoError(t, err)
	for _, row := range res.Ledger {
		assert.InDelta(t, 45.0, row.CashStart, 1e-9)
		assert.InDelta(t, 45.0, row.CashEnd, 1e-9)
		assert.Empty(t, row.ActiveAssets)
	}
}

func TestSimulate_SetupTakesScheduledDays(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"vlog": {
			ID:              "vlog",
			SetupCost:       20,
			Schedule:        model.AssetSchedule{SetupDays: 2, SetupMinutesPerDay: 120},
			MaintenanceTime: 30,
			MaintenanceCost: 1,
			QualityCurve:    []model.QualityTier{{IncomeMin: 8, IncomeMax: 12}},
		},
	}, nil)

	res, err := Simulate(cat, 3, 0, baseConfig(), []string{"vlog"}, nil)
	require.NoError(t, err)

	day1, day2, day3 := res.Ledger[0], res.Ledger[1], res.Ledger[2]
	assert.InDelta(t, 25.0, day1.CashEnd, 1e-9)
	assert.InDelta(t, 2.0, day1.HoursAssetSetup, 1e-9)
	assert.Empty(t, day1.ActiveAssets)

	// finishes setup and earns on the same day
	assert.InDelta(t, 2.0, day2.HoursAssetSetup, 1e-9)
	assert.InDelta(t, 0.5, day2.HoursAssetMaintenance, 1e-9)
	assert.InDelta(t, 10.0, day2.AssetIncome, 1e-9)
	assert.InDelta(t, 1.0, day2.MaintenanceSpend, 1e-9)
	assert.InDelta(t, 34.0, day2.CashEnd, 1e-9)

	assert.Zero(t, day3.HoursAssetSetup)
	assert.InDelta(t, 43.0, day3.CashEnd, 1e-9)
}

func TestSimulate_MaintenanceThatDoesNotFitIsSkipped(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"farm": {ID: "farm", MaintenanceTime: 20 * 60, MaintenanceCost: 5, BaseIncome: 100},
	}, nil)

	res, err := Simulate(cat, 2, 0, baseConfig(), []string{"farm"}, nil)
	require.NoError(t, err)
	for _, row := range res.Ledger {
		assert.Equal(t, []string{"farm"}, row.ActiveAssets)
		assert.Equal(t, 1, row.ActiveAssetCount)
		assert.Equal(t, 1, row.IdleAssetCount)
		assert.Zero(t, row.AssetIncome)
		assert.Zero(t, row.MaintenanceSpend)
		assert.InDelta(t, 45.0, row.CashEnd, 1e-9)
	}
}

func TestSimulate_SetupLongerThanDayNeverActivates(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"mural": {
			ID:         "mural",
			SetupCost:  10,
			Schedule:   model.AssetSchedule{SetupDays: 1, SetupMinutesPerDay: 15 * 60},
			BaseIncome: 50,
		},
	}, nil)

	res, err := Simulate(cat, 3, 0, baseConfig(), []string{"mural"}, nil)
	require.NoError(t, err)

	assert.InDelta(t, 45.0, res.Ledger[0].CashStart, 1e-9)
	for _, row := range res.Ledger {
		assert.InDelta(t, 35.0, row.CashEnd, 1e-9)
		assert.Zero(t, row.HoursAssetSetup)
		assert.Empty(t, row.ActiveAssets)
		assert.Zero(t, row.AssetIncome)
	}
	assert.Zero(t, res.Metrics.AssetIncome["mural"])
}

func TestSimulate_StaleSelectionsAreSkipped(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"blog": {ID: "blog", BaseIncome: 10},
	}, nil)

	res, err := Simulate(cat, 2, 0, baseConfig(), []string{"retired", "blog"}, []string{"gone"})
	require.NoError(t, err)
	require.Len(t, res.Ledger, 2)

	for _, row := range res.Ledger {
		assert.Equal(t, []string{"blog"}, row.ActiveAssets)
		assert.Zero(t, row.FreelanceRuns)
		assert.Zero(t, row.SurveyRuns)
		assert.Zero(t, row.HustleIncome)
	}
	assert.InDelta(t, 65.0, res.Ledger.FinalCash(), 1e-9)
	assert.NotContains(t, res.Metrics.AssetIncome, "retired")
	assert.Empty(t, res.Metrics.HustleRuns)
}

func TestSimulate_HustlesFillRemainingHours(t *testing.T) {
	cat := catalogWith(nil, map[string]*model.Hustle{
		FreelanceHustleID: {ID: FreelanceHustleID, SetupTime: 120, BaseIncome: 20, DailyLimit: intPtr(1)},
		SurveyHustleID:    {ID: SurveyHustleID, SetupTime: 30, BaseIncome: 1, DailyLimit: intPtr(3)},
	})
	cfg := baseConfig()
	cfg.BaseDayHours = 13

	res, err := Simulate(cat, 1, 0, cfg, nil, nil)
	require.NoError(t, err)
	row := res.Ledger[0]

	assert.Equal(t, 6, row.FreelanceRuns, "freelance ignores its daily limit")
	assert.InDelta(t, 12.0, row.HoursFreelance, 1e-9)
	assert.Equal(t, 2, row.SurveyRuns)
	assert.InDelta(t, 1.0, row.HoursSurvey, 1e-9)
	assert.InDelta(t, 122.0, row.HustleIncome, 1e-9)
	assert.InDelta(t, 45.0+122.0, row.CashEnd, 1e-9)
	assert.Equal(t, 6, res.Metrics.HustleRuns[FreelanceHustleID])
	assert.InDelta(t, 2.0, res.Metrics.HustleIncome[SurveyHustleID], 1e-9)
}

func TestSimulate_SurveyDailyLimit(t *testing.T) {
	cat := catalogWith(nil, map[string]*model.Hustle{
		SurveyHustleID: {ID: SurveyHustleID, SetupTime: 30, BaseIncome: 1, DailyLimit: intPtr(4)},
	})
	res, err := Simulate(cat, 1, 0, baseConfig(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Ledger[0].SurveyRuns)
	assert.InDelta(t, 2.0, res.Ledger[0].HoursSurvey, 1e-9)
}

func TestSimulate_ZeroDurationHustleNeverRuns(t *testing.T) {
	cat := catalogWith(nil, map[string]*model.Hustle{
		FreelanceHustleID: {ID: FreelanceHustleID, SetupTime: 0, BaseIncome: 1000},
	})
	res, err := Simulate(cat, 3, 0, baseConfig(), nil, nil)
	require.NoError(t, err)
	for _, row := range res.Ledger {
		assert.Zero(t, row.FreelanceRuns)
		assert.InDelta(t, 45.0, row.CashEnd, 1e-9)
	}
}

func TestSimulate_AssistantsAddHoursAndWages(t *testing.T) {
	cat := catalogWith(nil, map[string]*model.Hustle{
		FreelanceHustleID: {ID: FreelanceHustleID, SetupTime: 60, BaseIncome: 10},
	})
	res, err := Simulate(cat, 2, 1, baseConfig(), nil, nil)
	require.NoError(t, err)

	day1 := res.Ledger[0]
	assert.InDelta(t, 45.0-180.0, day1.CashStart, 1e-9, "hire cost is paid before day one")
	assert.Equal(t, 17, day1.FreelanceRuns)
	assert.InDelta(t, 24.0, day1.AssistantWages, 1e-9)
	assert.InDelta(t, -135.0+170.0-24.0, day1.CashEnd, 1e-9)
	assert.InDelta(t, day1.CashEnd, res.Ledger[1].CashStart, 1e-9)
}

func TestSimulate_UpgradesApplyToRun(t *testing.T) {
	cat := catalogWith(
		map[string]*model.Asset{"blog": {ID: "blog", BaseIncome: 10, Tags: []string{"web"}}},
		map[string]*model.Hustle{FreelanceHustleID: {ID: FreelanceHustleID, SetupTime: 60, BaseIncome: 10}},
		model.Modifier{Source: "coffee", Target: "state:time.bonus", Type: "flat", Formula: "60"},
		model.Modifier{Source: "seo", Target: "assets[tag=web].income", Type: "multiplier", Formula: "1 + 0.5"},
		model.Modifier{Source: "seo", Target: "hustle:freelance.income", Type: "flat", Formula: "0 + 2"},
	)
	res, err := Simulate(cat, 1, 0, baseConfig(), []string{"blog"}, []string{"coffee", "seo"})
	require.NoError(t, err)

	row := res.Ledger[0]
	assert.InDelta(t, 60.0, row.TimeBonusMinutes, 1e-9)
	assert.Equal(t, 15, row.FreelanceRuns)
	assert.InDelta(t, 15.0, row.AssetIncome, 1e-9)
	assert.InDelta(t, 15*12.0, row.HustleIncome, 1e-9)
}

func TestSimulate_TuningScalesCatalogValues(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"blog": {ID: "blog", SetupCost: 40, BaseIncome: 10, MaintenanceCost: 2},
	}, map[string]*model.Hustle{
		FreelanceHustleID: {ID: FreelanceHustleID, SetupTime: 60 * 14, BaseIncome: 10},
	})
	cfg := baseConfig()
	cfg.AssetTuning = map[string]model.AssetTuning{
		"blog": {IncomeMultiplier: 2, SetupCostMultiplier: 0.5, MaintenanceCostMultiplier: 0},
	}
	cfg.HustleIncomeMultipliers = map[string]float64{FreelanceHustleID: 3}

	res, err := Simulate(cat, 1, 0, cfg, []string{"blog"}, nil)
	require.NoError(t, err)
	row := res.Ledger[0]
	assert.InDelta(t, 20.0, row.AssetIncome, 1e-9)
	assert.InDelta(t, 2.0, row.MaintenanceSpend, 1e-9)
	assert.InDelta(t, 30.0, row.HustleIncome, 1e-9)
	assert.InDelta(t, 45.0-20.0-2.0+20.0+30.0, row.CashEnd, 1e-9)
}

func TestSimulate_StarterAssetFallback(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{"blog": {ID: "blog", BaseIncome: 1}}, nil)

	cfg := model.DefaultSimulationConfig()
	res, err := Simulate(cat, 1, 0, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog"}, res.Ledger[0].ActiveAssets)

	res, err = Simulate(cat, 1, 0, cfg, []string{}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Ledger[0].ActiveAssets, "an explicit empty selection builds nothing")
}

func TestSimulate_ConfigIsNotMutated(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{"blog": {ID: "blog", BaseIncome: 1}}, nil)
	cfg := model.DefaultSimulationConfig()
	cfg.AssetIDs = []string{"blog"}
	before := cfg.Clone()

	_, err := Simulate(cat, 3, 2, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, before, cfg)
}

func TestSimulate_InvalidInput(t *testing.T) {
	cat := catalogWith(nil, nil)

	_, err := Simulate(nil, 1, 0, baseConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Simulate(cat, -1, 0, baseConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Simulate(cat, 1, -2, baseConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	res, err := Simulate(cat, 0, 0, baseConfig(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Ledger)
	assert.Zero(t, res.Ledger.FinalCash())
}

func TestPlanAssets(t *testing.T) {
	cat := catalogWith(map[string]*model.Asset{
		"blog": {
			ID:              "blog",
			Name:            "Blog",
			SetupCost:       25,
			Schedule:        model.AssetSchedule{SetupDays: 3, SetupMinutesPerDay: 90},
			MaintenanceTime: 60,
			MaintenanceCost: 1,
			BaseIncome:      10,
		},
	}, nil,
		model.Modifier{Source: "kit", Target: "asset:blog.setup_time", Type: "multiplier", Formula: "0.5"},
		model.Modifier{Source: "kit", Target: "asset:blog.income", Type: "flat", Formula: "5"},
	)

	rows, eff, err := PlanAssets(cat, baseConfig(), []string{"blog", "missing"}, []string{"kit"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "blog", row.AssetID)
	assert.Equal(t, "Blog", row.Name)
	assert.Equal(t, 3, row.SetupDays)
	assert.InDelta(t, 0.75, row.SetupHoursPerDay, 1e-9)
	assert.InDelta(t, 1.0, row.MaintenanceHoursPerDay, 1e-9)
	assert.InDelta(t, 15.0, row.DailyIncome, 1e-9)
	assert.Equal(t, []string{"kit"}, row.UpgradeSources)
	assert.NotNil(t, eff.AssetEffects["blog"])

	_, _, err = PlanAssets(nil, baseConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
