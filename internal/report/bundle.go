package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

// Bundle is the full output of one report job.
type Bundle struct {
	Summary     RunSummary
	Ledger      model.Ledger
	ROI         []model.ROIRow
	HorizonDays int
	Plan        []model.AssetPlanRow
	Assistants  []scenario.AssistantResult
}

// Text renders every section of the bundle.
func (b *Bundle) Text() string {
	sections := []string{FormatRunSummary(b.Summary)}
	if len(b.Plan) > 0 {
		sections = append(sections, FormatAssetPlan(b.Plan))
	}
	sections = append(sections, FormatROITable(b.ROI, b.HorizonDays, 0))
	if len(b.Assistants) > 0 {
		sections = append(sections, FormatAssistantScenarios(b.Assistants))
	}
	return strings.Join(sections, "\n")
}

// WriteDir writes the CSV exports and text summary into dir, creating it if
// needed, and returns the written paths.
func (b *Bundle) WriteDir(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"daily_ledger.csv", func(w io.Writer) error { return WriteLedgerCSV(w, b.Ledger) }},
		{"education_roi.csv", func(w io.Writer) error { return WriteROICSV(w, b.ROI) }},
		{"asset_plan.csv", func(w io.Writer) error { return WriteAssetPlanCSV(w, b.Plan) }},
		{"assistant_summary.csv", func(w io.Writer) error { return WriteAssistantCSV(w, b.Assistants) }},
		{"summary.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, b.Text())
			return err
		}},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
