package model

import "sort"

// EntityEffect accumulates the modifiers touching one asset or hustle.
type EntityEffect struct {
	IncomeMult          float64             `json:"income_mult"`
	IncomeFlat          float64             `json:"income_flat"`
	SetupTimeMult       float64             `json:"setup_time_mult"`
	MaintenanceTimeMult float64             `json:"maintenance_time_mult"`
	Sources             map[string]struct{} `json:"-"`
}

// NewEntityEffect returns the identity effect.
func NewEntityEffect() *EntityEffect {
	return &EntityEffect{
		IncomeMult:          1,
		SetupTimeMult:       1,
		MaintenanceTimeMult: 1,
		Sources:             map[string]struct{}{},
	}
}

// AddSource records a contributing modifier source.
func (e *EntityEffect) AddSource(source string) {
	if e.Sources == nil {
		e.Sources = map[string]struct{}{}
	}
	e.Sources[source] = struct{}{}
}

// SourceList returns the contributing sources sorted.
func (e *EntityEffect) SourceList() []string {
	return setList(e.Sources)
}

// AdjustIncome applies the effect to a base income.
func (e *EntityEffect) AdjustIncome(base float64) float64 {
	return base*e.IncomeMult + e.IncomeFlat
}

// SkippedModifier records a modifier application that failed to evaluate.
type SkippedModifier struct {
	Modifier Modifier `json:"modifier"`
	EntityID string   `json:"entity_id,omitempty"`
	Err      error    `json:"-"`
	Reason   string   `json:"reason"`
}

// UpgradeEffects is the aggregate of every active modifier for one run.
type UpgradeEffects struct {
	AssetEffects     map[string]*EntityEffect `json:"asset_effects"`
	HustleEffects    map[string]*EntityEffect `json:"hustle_effects"`
	TimeBonusMinutes float64                  `json:"time_bonus_minutes"`
	TimeBonusSources map[string]struct{}      `json:"-"`
	Skipped          []SkippedModifier        `json:"skipped,omitempty"`
}

// NewUpgradeEffects returns an empty aggregate.
func NewUpgradeEffects() *UpgradeEffects {
	return &UpgradeEffects{
		AssetEffects:     map[string]*EntityEffect{},
		HustleEffects:    map[string]*EntityEffect{},
		TimeBonusSources: map[string]struct{}{},
	}
}

// Asset returns the effect of an asset, identity when absent.
func (u *UpgradeEffects) Asset(id string) *EntityEffect {
	if e, ok := u.AssetEffects[id]; ok {
		return e
	}
	return NewEntityEffect()
}

// Hustle returns the effect of a hustle, identity when absent.
func (u *UpgradeEffects) Hustle(id string) *EntityEffect {
	if e, ok := u.HustleEffects[id]; ok {
		return e
	}
	return NewEntityEffect()
}

// TimeBonusSourceList returns the sources of the global time bonus sorted.
func (u *UpgradeEffects) TimeBonusSourceList() []string {
	return setList(u.TimeBonusSources)
}

func setList(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
