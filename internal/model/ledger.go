package model

// LedgerRow is one simulated day.
type LedgerRow struct {
	Day                   int      `json:"day"`
	CashStart             float64  `json:"cash_start"`
	CashEnd               float64  `json:"cash_end"`
	HustleIncome          float64  `json:"hustle_income"`
	AssetIncome           float64  `json:"asset_income"`
	MaintenanceSpend      float64  `json:"maintenance_spend"`
	AssistantWages        float64  `json:"assistant_wages"`
	HoursFreelance        float64  `json:"hours_freelance"`
	HoursSurvey           float64  `json:"hours_survey"`
	HoursAssetSetup       float64  `json:"hours_asset_setup"`
	HoursAssetMaintenance float64  `json:"hours_asset_maintenance"`
	FreelanceRuns         int      `json:"freelance_runs"`
	SurveyRuns            int      `json:"survey_runs"`
	ActiveAssets          []string `json:"active_assets"`
	ActiveAssetCount      int      `json:"active_asset_count"`
	IdleAssetCount        int      `json:"idle_asset_count"`
	TimeBonusMinutes      float64  `json:"time_bonus_minutes"`
}

// Ledger is the append-only output of a run.
type Ledger []LedgerRow

// FinalCash returns the closing cash of the last day, or 0 for an empty ledger.
func (l Ledger) FinalCash() float64 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].CashEnd
}

// ClosingCash returns the closing cash series.
func (l Ledger) ClosingCash() []float64 {
	out := make([]float64, len(l))
	for i, r := range l {
		out[i] = r.CashEnd
	}
	return out
}

// Days returns the day numbers as floats, for curve fitting.
func (l Ledger) Days() []float64 {
	out := make([]float64, len(l))
	for i, r := range l {
		out[i] = float64(r.Day)
	}
	return out
}

// Metrics holds running totals of a run.
type Metrics struct {
	HustleIncome map[string]float64 `json:"hustle_income"`
	HustleRuns   map[string]int     `json:"hustle_runs"`
	AssetIncome  map[string]float64 `json:"asset_income"`
	TotalDays    int                `json:"total_days"`
}

// NewMetrics returns empty totals for a run of the given length.
func NewMetrics(days int) *Metrics {
	return &Metrics{
		HustleIncome: map[string]float64{},
		HustleRuns:   map[string]int{},
		AssetIncome:  map[string]float64{},
		TotalDays:    days,
	}
}

// DailyRates is the per-day view of Metrics.
type DailyRates struct {
	HustleIncomePerDay map[string]float64 `json:"hustle_income_per_day"`
	HustleRunsPerDay   map[string]float64 `json:"hustle_runs_per_day"`
	AssetIncomePerDay  map[string]float64 `json:"asset_income_per_day"`
}

// AsDaily divides every total by the number of simulated days.
func (m *Metrics) AsDaily() DailyRates {
	days := float64(m.TotalDays)
	if m.TotalDays <= 0 {
		days = 1
	}
	rates := DailyRates{
		HustleIncomePerDay: make(map[string]float64, len(m.HustleIncome)),
		HustleRunsPerDay:   make(map[string]float64, len(m.HustleRuns)),
		AssetIncomePerDay:  make(map[string]float64, len(m.AssetIncome)),
	}
	for k, v := range m.HustleIncome {
		rates.HustleIncomePerDay[k] = v / days
	}
	for k, v := range m.HustleRuns {
		rates.HustleRunsPerDay[k] = float64(v) / days
	}
	for k, v := range m.AssetIncome {
		rates.AssetIncomePerDay[k] = v / days
	}
	return rates
}

// AssetPlanRow is the effect-adjusted snapshot of one selected asset.
type AssetPlanRow struct {
	AssetID                string   `json:"asset_id"`
	Name                   string   `json:"name"`
	SetupCost              float64  `json:"setup_cost"`
	SetupDays              int      `json:"setup_days"`
	SetupHoursPerDay       float64  `json:"setup_hours_per_day"`
	MaintenanceHoursPerDay float64  `json:"maintenance_hours_per_day"`
	MaintenanceCost        float64  `json:"maintenance_cost"`
	DailyIncome            float64  `json:"daily_income"`
	UpgradeSources         []string `json:"upgrade_sources"`
}
