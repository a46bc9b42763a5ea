// Package recorder persists simulation runs for later analysis.
package recorder

import (
	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

// RunSnapshot holds everything needed to reproduce and inspect one run.
type RunSnapshot struct {
	ID         string // assigned by the recorder when empty
	Source     string // "cli", "cron" or "api"
	Days       int
	Assistants int
	Config     model.SimulationConfig
	AssetIDs   []string
	UpgradeIDs []string
	Ledger     model.Ledger
}

// Recorder persists historical data for analysis.
type Recorder interface {
	// RecordRun stores the run and its ledger and returns the run ID.
	RecordRun(snap *RunSnapshot) (string, error)
	RecordROI(runID string, rows []model.ROIRow) error
	RecordSensitivity(runID, parameter string, points []scenario.Point) error
	Close() error
}
