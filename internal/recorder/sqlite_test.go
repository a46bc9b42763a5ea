package recorder

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "bench.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r := openTestRecorder(t)

	snap := &RunSnapshot{
		Source:     "cli",
		Days:       2,
		Assistants: 1,
		Config:     model.DefaultSimulationConfig(),
		AssetIDs:   []string{"blog"},
		Ledger: model.Ledger{
			{Day: 1, CashStart: -135, CashEnd: -100, ActiveAssets: []string{"blog"}},
			{Day: 2, CashStart: -100, CashEnd: -65, ActiveAssets: []string{"blog", "vlog"}},
		},
	}
	id, err := r.RecordRun(snap)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, snap.ID)

	var finalCash float64
	var source string
	require.NoError(t, r.db.QueryRow(`SELECT final_cash, source FROM runs WHERE id = ?`, id).Scan(&finalCash, &source))
	assert.Equal(t, -65.0, finalCash)
	assert.Equal(t, "cli", source)

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM ledger_rows WHERE run_id = ?`, id).Scan(&count))
	assert.Equal(t, 2, count)

	var active string
	require.NoError(t, r.db.QueryRow(`SELECT active_assets FROM ledger_rows WHERE run_id = ? AND day = 2`, id).Scan(&active))
	assert.Equal(t, "blog,vlog", active)

	_, err = r.RecordRun(snap)
	assert.Error(t, err, "duplicate run id")
}

func TestSQLiteRecorder_RecordROI(t *testing.T) {
	r := openTestRecorder(t)

	rows := []model.ROIRow{
		{Track: "seo", Tuition: 60, IncrementalDaily: 3, PaybackDays: 20},
		{Track: "idle", Tuition: 10, PaybackDays: math.Inf(1)},
	}
	require.NoError(t, r.RecordROI("run-1", rows))

	var payback sql.NullFloat64
	require.NoError(t, r.db.QueryRow(`SELECT payback_days FROM roi_rows WHERE track = 'seo'`).Scan(&payback))
	assert.True(t, payback.Valid)
	assert.Equal(t, 20.0, payback.Float64)

	var rank int
	require.NoError(t, r.db.QueryRow(`SELECT payback_days, ranking FROM roi_rows WHERE track = 'idle'`).Scan(&payback, &rank))
	assert.False(t, payback.Valid)
	assert.Equal(t, 2, rank)
}

func TestSQLiteRecorder_RecordSensitivity(t *testing.T) {
	r := openTestRecorder(t)

	points := []scenario.Point{{Value: 1, FinalCash: 10}, {Value: 2, FinalCash: 20}}
	require.NoError(t, r.RecordSensitivity("run-1", "starting_cash", points))

	var sum float64
	require.NoError(t, r.db.QueryRow(`SELECT SUM(final_cash) FROM sensitivity_points WHERE parameter = 'starting_cash'`).Scan(&sum))
	assert.Equal(t, 30.0, sum)
}

func TestOpen_FallsBackToNoop(t *testing.T) {
	rec := Open("", zerolog.Nop())
	require.IsType(t, &NoopRecorder{}, rec)

	id, err := rec.RecordRun(&RunSnapshot{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, rec.RecordROI(id, nil))
	assert.NoError(t, rec.Close())

	bad := Open(filepath.Join(t.TempDir(), "missing", "dir", "bench.db"), zerolog.Nop())
	assert.IsType(t, &NoopRecorder{}, bad)
}
