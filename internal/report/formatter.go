// Package report renders simulation output as text and CSV.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"EconomyBench/internal/calculator"
	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

// trailingDays is the window of the trailing cash average.
const trailingDays = 7

// RunSummary condenses one ledger for display.
type RunSummary struct {
	Days           int                   `json:"days"`
	Assistants     int                   `json:"assistants"`
	OpeningCash    float64               `json:"opening_cash"`
	FinalCash      float64               `json:"final_cash"`
	HighCash       float64               `json:"high_cash"`
	LowCash        float64               `json:"low_cash"`
	AvgDailyChange float64               `json:"avg_daily_change"`
	TrailingCash   float64               `json:"trailing_cash"`  // mean closing cash of the last trailingDays
	RangePosition  float64               `json:"range_position"` // final cash within [low, high], 0..1
	ActiveAssets   []string              `json:"active_assets"`
	Growth         *calculator.GrowthFit `json:"growth,omitempty"`
}

// Summarize derives a RunSummary from a ledger. The growth fit is omitted
// when cash never stays positive long enough to fit.
func Summarize(ledger model.Ledger, assistants int) RunSummary {
	s := RunSummary{Days: len(ledger), Assistants: assistants}
	if len(ledger) == 0 {
		return s
	}
	s.OpeningCash = ledger[0].CashStart
	s.FinalCash = ledger.FinalCash()
	s.HighCash, s.LowCash, _ = calculator.CashRange(ledger, 0)
	s.AvgDailyChange = calculator.AverageDailyChange(ledger)
	s.TrailingCash, _ = calculator.TrailingAverage(ledger.ClosingCash(), trailingDays)
	s.RangePosition, _ = calculator.RangePosition(s.FinalCash, s.HighCash, s.LowCash)
	s.ActiveAssets = ledger[len(ledger)-1].ActiveAssets
	if fit, err := calculator.FitLedger(ledger); err == nil {
		s.Growth = &fit
	}
	return s
}

// Money formats a cash amount with thousands separators.
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Days formats a payback period, "never" when infinite.
func Days(v float64) string {
	if math.IsInf(v, 1) {
		return "never"
	}
	return fmt.Sprintf("%.1f days", v)
}

// FormatRunSummary formats a run summary as plain text.
func FormatRunSummary(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Economy run | %d days, %d assistants\n\n", s.Days, s.Assistants)
	fmt.Fprintf(&b, "Opening cash: %s\n", Money(s.OpeningCash))
	fmt.Fprintf(&b, "Final cash:   %s\n", Money(s.FinalCash))
	fmt.Fprintf(&b, "Range:        %s .. %s\n", Money(s.LowCash), Money(s.HighCash))
	fmt.Fprintf(&b, "Avg change:   %s/day\n", Money(s.AvgDailyChange))
	fmt.Fprintf(&b, "%d-day avg:    %s\n", trailingDays, Money(s.TrailingCash))
	fmt.Fprintf(&b, "Range pos:    %.0f%%\n", s.RangePosition*100)
	if s.Growth != nil {
		fmt.Fprintf(&b, "Growth rate:  %+.2f%%/day (doubling %s)\n", s.Growth.Slope*100, Days(s.Growth.DoublingDays()))
	}
	if len(s.ActiveAssets) > 0 {
		fmt.Fprintf(&b, "Active assets: %s\n", strings.Join(s.ActiveAssets, ", "))
	}
	return b.String()
}

// FormatROITable formats the top n ROI rows; n <= 0 prints all.
func FormatROITable(rows []model.ROIRow, horizonDays, n int) string {
	if n <= 0 || n > len(rows) {
		n = len(rows)
	}
	var b strings.Builder
	b.WriteString("Education ROI\n\n")
	if n == 0 {
		b.WriteString("  no tracks\n")
		return b.String()
	}
	for i, r := range rows[:n] {
		fmt.Fprintf(&b, "%2d. %s: %s/day, %s/study hour, payback %s, %d-day net %s\n",
			i+1, r.Track, Money(r.IncrementalDaily), Money(r.ROIPerHour), Days(r.PaybackDays), horizonDays, Money(r.NetGainHorizon))
		fmt.Fprintf(&b, "    %s\n", r.Details)
	}
	return b.String()
}

// FormatAssetPlan formats the effect-adjusted asset snapshot.
func FormatAssetPlan(rows []model.AssetPlanRow) string {
	var b strings.Builder
	b.WriteString("Asset plan\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s (%s): cost %s, %d setup days at %.2fh, upkeep %.2fh + %s, earns %s/day\n",
			r.Name, r.AssetID, Money(r.SetupCost), r.SetupDays, r.SetupHoursPerDay,
			r.MaintenanceHoursPerDay, Money(r.MaintenanceCost), Money(r.DailyIncome))
		if len(r.UpgradeSources) > 0 {
			fmt.Fprintf(&b, "    upgrades: %s\n", strings.Join(r.UpgradeSources, ", "))
		}
	}
	return b.String()
}

// FormatAssistantScenarios formats the assistant sustainability table.
func FormatAssistantScenarios(results []scenario.AssistantResult) string {
	var b strings.Builder
	b.WriteString("Assistant sustainability\n\n")
	for _, r := range results {
		mark := "ok"
		if !r.Sustainable() {
			mark = "losing"
		}
		fmt.Fprintf(&b, "  %d assistants: %s/day, final %s, lowest %s [%s]\n",
			r.Assistants, Money(r.AvgDailyChange), Money(r.FinalCash), Money(r.LowestCash), mark)
	}
	return b.String()
}

// FormatSensitivity formats a sensitivity sweep.
func FormatSensitivity(parameter string, points []scenario.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sensitivity of %s\n\n", parameter)
	for _, p := range points {
		fmt.Fprintf(&b, "  %10.3f -> final %s (%s/day)\n", p.Value, Money(p.FinalCash), Money(p.AvgDailyChange))
	}
	return b.String()
}
