package recorder

import (
	"github.com/google/uuid"

	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(snap *RunSnapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	return snap.ID, nil
}

func (n *NoopRecorder) RecordROI(_ string, _ []model.ROIRow) error              { return nil }
func (n *NoopRecorder) RecordSensitivity(_, _ string, _ []scenario.Point) error { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
