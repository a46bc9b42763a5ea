// Package roi estimates the payback of education tracks against a baseline run.
//
// The estimate is first order: each track modifier is applied to the baseline
// per-day rates, no counterfactual run is simulated.
package roi

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"EconomyBench/internal/formula"
	"EconomyBench/internal/model"
	"EconomyBench/internal/selector"
)

// DefaultHorizonDays is the net-gain window used when none is given.
const DefaultHorizonDays = 30

const noImpact = "No direct baseline impact"

// Analyze produces one row per catalog track, sorted by ROI per study hour,
// highest first. Ties keep track ID order.
func Analyze(cat *model.Catalog, rates model.DailyRates, horizonDays int) []model.ROIRow {
	if cat == nil {
		return nil
	}
	b := newBaseline(cat, rates)

	rows := make([]model.ROIRow, 0, len(cat.Tracks))
	for _, id := range cat.TrackIDs() {
		track := cat.Tracks[id]
		if track == nil {
			continue
		}
		rows = append(rows, b.row(id, track, cat.ModifiersFrom(id), horizonDays))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ROIPerHour > rows[j].ROIPerHour
	})
	return rows
}

// AnalyzeMetrics is Analyze over the per-day view of a run's totals.
func AnalyzeMetrics(cat *model.Catalog, metrics *model.Metrics, horizonDays int) []model.ROIRow {
	if metrics == nil {
		metrics = model.NewMetrics(0)
	}
	return Analyze(cat, metrics.AsDaily(), horizonDays)
}

// baseline holds the selector scopes and rates a track is measured against.
type baseline struct {
	rates  model.DailyRates
	assets selector.Scope
	hustle selector.Scope
}

func newBaseline(cat *model.Catalog, rates model.DailyRates) baseline {
	return baseline{
		rates:  rates,
		assets: selector.Scope{IDs: sortedIDs(rates.AssetIncomePerDay), Tags: cat.AssetTags},
		hustle: selector.Scope{IDs: sortedIDs(unionKeys(rates.HustleIncomePerDay, rates.HustleRunsPerDay)), Tags: cat.HustleTags},
	}
}

func (b baseline) row(id string, track *model.Track, mods []model.Modifier, horizonDays int) model.ROIRow {
	var (
		incremental float64
		details     []string
	)
	for _, mod := range mods {
		delta, notes := b.contribution(mod)
		incremental += delta
		details = append(details, notes...)
	}

	studyHours := track.StudyHours()
	row := model.ROIRow{
		Track:            id,
		Tuition:          track.SetupCost,
		StudyHours:       studyHours,
		IncrementalDaily: incremental,
		PaybackDays:      math.Inf(1),
		Details:          noImpact,
	}
	// a track that lowers income never pays back
	if incremental > 0 {
		row.PaybackDays = track.SetupCost / incremental
	}
	if studyHours > 0 {
		row.ROIPerHour = incremental / studyHours
	}
	activeDays := max(0, horizonDays-track.Schedule.Days)
	row.NetGainHorizon = incremental*float64(activeDays) - track.SetupCost
	if len(details) > 0 {
		row.Details = strings.Join(details, "; ")
	}
	return row
}

// contribution returns the extra daily income one modifier adds to the
// baseline. Only income targets on assets and hustles count; anything the
// formula evaluator rejects contributes nothing.
func (b baseline) contribution(mod model.Modifier) (float64, []string) {
	target, ok := selector.ParseTarget(mod.Target)
	if !ok || target.Attribute != selector.AttrIncome {
		return 0, nil
	}
	eff, err := formula.Interpret(mod.Type, mod.Formula)
	if err != nil {
		return 0, nil
	}

	var (
		total float64
		notes []string
	)
	switch target.Kind {
	case selector.KindAsset:
		for _, id := range selector.Resolve(selector.KindAsset, target.Selector, b.assets).IDs {
			base := b.rates.AssetIncomePerDay[id]
			delta := eff.Increment(base)
			total += delta
			notes = append(notes, describe(id, eff, delta, 0, false))
		}
	case selector.KindHustle:
		for _, id := range selector.Resolve(selector.KindHustle, target.Selector, b.hustle).IDs {
			var delta, runs float64
			if eff.Kind == formula.Multiplier {
				delta = eff.Increment(b.rates.HustleIncomePerDay[id])
			} else {
				runs = b.rates.HustleRunsPerDay[id]
				delta = eff.Value * runs
			}
			total += delta
			notes = append(notes, describe(id, eff, delta, runs, true))
		}
	}
	return total, notes
}

func describe(id string, eff formula.Effect, delta, runs float64, perRun bool) string {
	switch {
	case eff.Kind == formula.Multiplier:
		return fmt.Sprintf("%s income %+.1f%% => $%.2f/day", id, (eff.Value-1)*100, delta)
	case perRun:
		return fmt.Sprintf("%s +$%.2f per run x %.2f => $%.2f/day", id, eff.Value, runs, delta)
	default:
		return fmt.Sprintf("%s +$%.2f/day", id, eff.Value)
	}
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

func unionKeys(a map[string]float64, b map[string]float64) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
