package model

import "sort"

// QualityTier is one step of an asset's income curve.
type QualityTier struct {
	IncomeMin float64 `yaml:"income_min" json:"income_min"`
	IncomeMax float64 `yaml:"income_max" json:"income_max"`
}

// AssetSchedule describes how long an asset takes to build.
type AssetSchedule struct {
	SetupDays          int     `yaml:"setup_days" json:"setup_days"`
	SetupMinutesPerDay float64 `yaml:"setup_minutes_per_day" json:"setup_minutes_per_day"`
}

// Asset is a one-time-built, recurring-income entity.
type Asset struct {
	ID              string        `yaml:"id" json:"id"`
	Name            string        `yaml:"name" json:"name"`
	SetupCost       float64       `yaml:"setup_cost" json:"setup_cost"`
	Schedule        AssetSchedule `yaml:"schedule" json:"schedule"`
	MaintenanceTime float64       `yaml:"maintenance_time" json:"maintenance_time"` // minutes/day
	MaintenanceCost float64       `yaml:"maintenance_cost" json:"maintenance_cost"`
	BaseIncome      float64       `yaml:"base_income" json:"base_income"`
	QualityCurve    []QualityTier `yaml:"quality_curve" json:"quality_curve"`
	Tags            []string      `yaml:"tags" json:"tags"`
}

// AverageIncome returns the midpoint of quality tier zero, or BaseIncome when
// the asset has no curve.
func (a *Asset) AverageIncome() float64 {
	if len(a.QualityCurve) > 0 {
		tier := a.QualityCurve[0]
		return (tier.IncomeMin + tier.IncomeMax) / 2
	}
	return a.BaseIncome
}

// Hustle is a repeatable income action with no persistent state.
type Hustle struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	SetupTime  float64  `yaml:"setup_time" json:"setup_time"` // minutes per run
	SetupCost  float64  `yaml:"setup_cost" json:"setup_cost"`
	BaseIncome float64  `yaml:"base_income" json:"base_income"`
	DailyLimit *int     `yaml:"daily_limit" json:"daily_limit"` // nil = unlimited
	Tags       []string `yaml:"tags" json:"tags"`
}

// TrackSchedule describes the study commitment of a track.
type TrackSchedule struct {
	Days          int     `yaml:"days" json:"days"`
	MinutesPerDay float64 `yaml:"minutes_per_day" json:"minutes_per_day"`
}

// Track is an education entity.
type Track struct {
	ID        string        `yaml:"id" json:"id"`
	Name      string        `yaml:"name" json:"name"`
	SetupCost float64       `yaml:"setup_cost" json:"setup_cost"` // tuition
	Schedule  TrackSchedule `yaml:"schedule" json:"schedule"`
}

// StudyHours is the total time a track takes to complete.
func (t *Track) StudyHours() float64 {
	return float64(t.Schedule.Days) * t.Schedule.MinutesPerDay / 60
}

// Upgrade is a purchasable modifier source.
type Upgrade struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	Category   string  `yaml:"category" json:"category"`
	SetupCost  float64 `yaml:"setup_cost" json:"setup_cost"`
	Repeatable bool    `yaml:"repeatable" json:"repeatable"`
}

// ModifierType selects how a modifier's formula combines.
type ModifierType string

const (
	ModifierMultiplier ModifierType = "multiplier"
	ModifierFlat       ModifierType = "flat"
	ModifierAdd        ModifierType = "add"
)

// IsFlat reports whether the type adds rather than multiplies.
func (t ModifierType) IsFlat() bool {
	return t == ModifierFlat || t == ModifierAdd
}

// Modifier is a (source, target, type, formula) rule.
type Modifier struct {
	Source  string       `yaml:"source" json:"source"`
	Target  string       `yaml:"target" json:"target"`
	Type    ModifierType `yaml:"type" json:"type"`
	Formula string       `yaml:"formula" json:"formula"`
	Notes   string       `yaml:"notes" json:"notes,omitempty"`
}

// Catalog is the immutable economy dataset a run is evaluated against.
type Catalog struct {
	Assets    map[string]*Asset   `yaml:"assets" json:"assets"`
	Hustles   map[string]*Hustle  `yaml:"hustles" json:"hustles"`
	Tracks    map[string]*Track   `yaml:"tracks" json:"tracks"`
	Upgrades  map[string]*Upgrade `yaml:"upgrades" json:"upgrades"`
	Modifiers []Modifier          `yaml:"modifiers" json:"modifiers"`
}

// Asset looks up an asset definition.
func (c *Catalog) Asset(id string) (*Asset, bool) {
	a, ok := c.Assets[id]
	return a, ok && a != nil
}

// Hustle looks up a hustle definition.
func (c *Catalog) Hustle(id string) (*Hustle, bool) {
	h, ok := c.Hustles[id]
	return h, ok && h != nil
}

// AssetTags returns the tags of an asset, nil when unknown.
func (c *Catalog) AssetTags(id string) []string {
	if a, ok := c.Asset(id); ok {
		return a.Tags
	}
	return nil
}

// HustleTags returns the tags of a hustle, nil when unknown.
func (c *Catalog) HustleTags(id string) []string {
	if h, ok := c.Hustle(id); ok {
		return h.Tags
	}
	return nil
}

// TrackIDs returns track identifiers in sorted order.
func (c *Catalog) TrackIDs() []string {
	return sortedKeys(c.Tracks)
}

// AssetIDs returns asset identifiers in sorted order.
func (c *Catalog) AssetIDs() []string {
	return sortedKeys(c.Assets)
}

// HustleIDs returns hustle identifiers in sorted order.
func (c *Catalog) HustleIDs() []string {
	return sortedKeys(c.Hustles)
}

// UpgradeIDs returns upgrade identifiers in sorted order.
func (c *Catalog) UpgradeIDs() []string {
	return sortedKeys(c.Upgrades)
}

// ModifiersFrom returns the modifiers contributed by one source, in catalog order.
func (c *Catalog) ModifiersFrom(source string) []Modifier {
	var out []Modifier
	for _, m := range c.Modifiers {
		if m.Source == source {
			out = append(out, m)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
