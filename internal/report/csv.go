package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

// LedgerColumns is the header of the ledger export.
var LedgerColumns = []string{
	"day", "cash_start", "cash_end", "hustle_income", "asset_income",
	"maintenance_spend", "assistant_wages", "hours_freelance", "hours_survey",
	"hours_asset_setup", "hours_asset_maintenance", "freelance_runs", "survey_runs",
	"active_assets", "active_asset_count", "idle_asset_count", "time_bonus_minutes",
}

// ROIColumns is the header of the ROI export.
var ROIColumns = []string{
	"track", "tuition", "study_hours", "incremental_daily", "roi_per_hour",
	"payback_days", "net_gain_horizon", "details",
}

var assetPlanColumns = []string{
	"asset", "name", "setup_cost", "setup_days", "setup_hours_per_day",
	"maintenance_hours_per_day", "maintenance_cost", "daily_income", "upgrade_sources",
}

var assistantColumns = []string{"assistants", "avg_daily_change", "final_cash", "lowest_cash"}

var sensitivityColumns = []string{"parameter", "value", "final_cash", "avg_daily_change"}

// FormatNumber renders a float for export: shortest round-trip form, "inf"
// for infinities.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteLedgerCSV writes one line per simulated day. Active asset IDs are
// joined with "|".
func WriteLedgerCSV(w io.Writer, ledger model.Ledger) error {
	rows := make([][]string, 0, len(ledger))
	for _, r := range ledger {
		rows = append(rows, []string{
			strconv.Itoa(r.Day),
			FormatNumber(r.CashStart),
			FormatNumber(r.CashEnd),
			FormatNumber(r.HustleIncome),
			FormatNumber(r.AssetIncome),
			FormatNumber(r.MaintenanceSpend),
			FormatNumber(r.AssistantWages),
			FormatNumber(r.HoursFreelance),
			FormatNumber(r.HoursSurvey),
			FormatNumber(r.HoursAssetSetup),
			FormatNumber(r.HoursAssetMaintenance),
			strconv.Itoa(r.FreelanceRuns),
			strconv.Itoa(r.SurveyRuns),
			strings.Join(r.ActiveAssets, "|"),
			strconv.Itoa(r.ActiveAssetCount),
			strconv.Itoa(r.IdleAssetCount),
			FormatNumber(r.TimeBonusMinutes),
		})
	}
	return writeAll(w, LedgerColumns, rows)
}

// WriteROICSV writes ranked ROI rows in their given order.
func WriteROICSV(w io.Writer, roiRows []model.ROIRow) error {
	rows := make([][]string, 0, len(roiRows))
	for _, r := range roiRows {
		rows = append(rows, []string{
			r.Track,
			FormatNumber(r.Tuition),
			FormatNumber(r.StudyHours),
			FormatNumber(r.IncrementalDaily),
			FormatNumber(r.ROIPerHour),
			FormatNumber(r.PaybackDays),
			FormatNumber(r.NetGainHorizon),
			r.Details,
		})
	}
	return writeAll(w, ROIColumns, rows)
}

// WriteAssetPlanCSV writes the asset snapshot table.
func WriteAssetPlanCSV(w io.Writer, plan []model.AssetPlanRow) error {
	rows := make([][]string, 0, len(plan))
	for _, r := range plan {
		rows = append(rows, []string{
			r.AssetID,
			r.Name,
			FormatNumber(r.SetupCost),
			strconv.Itoa(r.SetupDays),
			FormatNumber(r.SetupHoursPerDay),
			FormatNumber(r.MaintenanceHoursPerDay),
			FormatNumber(r.MaintenanceCost),
			FormatNumber(r.DailyIncome),
			strings.Join(r.UpgradeSources, "|"),
		})
	}
	return writeAll(w, assetPlanColumns, rows)
}

// WriteAssistantCSV writes the assistant sustainability summary.
func WriteAssistantCSV(w io.Writer, results []scenario.AssistantResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(r.Assistants),
			FormatNumber(r.AvgDailyChange),
			FormatNumber(r.FinalCash),
			FormatNumber(r.LowestCash),
		})
	}
	return writeAll(w, assistantColumns, rows)
}

// WriteSensitivityCSV writes the points of one sweep.
func WriteSensitivityCSV(w io.Writer, parameter string, points []scenario.Point) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			parameter,
			FormatNumber(p.Value),
			FormatNumber(p.FinalCash),
			FormatNumber(p.AvgDailyChange),
		})
	}
	return writeAll(w, sensitivityColumns, rows)
}
