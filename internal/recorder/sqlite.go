package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"EconomyBench/internal/model"
	"EconomyBench/internal/scenario"
)

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while runs are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

// Open returns a SQLite recorder for dbPath, or a NoopRecorder when dbPath is
// empty or the database cannot be opened.
func Open(dbPath string, log zerolog.Logger) Recorder {
	if dbPath == "" {
		return NewNoopRecorder()
	}
	r, err := NewSQLiteRecorder(dbPath, log)
	if err != nil {
		log.Warn().Err(err).Str("path", dbPath).Msg("sqlite recorder unavailable, runs will not be stored")
		return NewNoopRecorder()
	}
	return r
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			source         TEXT,
			days           INTEGER,
			assistants     INTEGER,
			starting_cash  REAL,
			base_day_hours REAL,
			final_cash     REAL,
			asset_ids      TEXT,
			upgrade_ids    TEXT,
			config_json    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ledger_rows (
			run_id                  TEXT NOT NULL REFERENCES runs(id),
			day                     INTEGER NOT NULL,
			cash_start              REAL,
			cash_end                REAL,
			hustle_income           REAL,
			asset_income            REAL,
			maintenance_spend       REAL,
			assistant_wages         REAL,
			hours_freelance         REAL,
			hours_survey            REAL,
			hours_asset_setup       REAL,
			hours_asset_maintenance REAL,
			freelance_runs          INTEGER,
			survey_runs             INTEGER,
			active_assets           TEXT,
			active_asset_count      INTEGER,
			idle_asset_count        INTEGER,
			time_bonus_minutes      REAL,
			PRIMARY KEY (run_id, day)
		)`,

		`CREATE TABLE IF NOT EXISTS roi_rows (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			ranking           INTEGER,
			track             TEXT,
			tuition           REAL,
			study_hours       REAL,
			incremental_daily REAL,
			roi_per_hour      REAL,
			payback_days      REAL,
			net_gain_horizon  REAL,
			details           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_roi_run ON roi_rows(run_id)`,

		`CREATE TABLE IF NOT EXISTS sensitivity_points (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			parameter        TEXT,
			value            REAL,
			final_cash       REAL,
			avg_daily_change REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sensitivity_run ON sensitivity_points(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction under the recorder lock.
func (r *SQLiteRecorder) withTx(fn func(tx *sql.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	cfgJSON, err := json.Marshal(snap.Config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	err = r.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO runs
			(id, timestamp, source, days, assistants, starting_cash, base_day_hours,
			 final_cash, asset_ids, upgrade_ids, config_json)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			snap.ID, time.Now().Unix(), snap.Source, snap.Days, snap.Assistants,
			snap.Config.StartingCash, snap.Config.BaseDayHours, snap.Ledger.FinalCash(),
			strings.Join(snap.AssetIDs, ","), strings.Join(snap.UpgradeIDs, ","), string(cfgJSON),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO ledger_rows
			(run_id, day, cash_start, cash_end, hustle_income, asset_income,
			 maintenance_spend, assistant_wages, hours_freelance, hours_survey,
			 hours_asset_setup, hours_asset_maintenance, freelance_runs, survey_runs,
			 active_assets, active_asset_count, idle_asset_count, time_bonus_minutes)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare ledger insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range snap.Ledger {
			if _, err := stmt.Exec(
				snap.ID, row.Day, row.CashStart, row.CashEnd, row.HustleIncome, row.AssetIncome,
				row.MaintenanceSpend, row.AssistantWages, row.HoursFreelance, row.HoursSurvey,
				row.HoursAssetSetup, row.HoursAssetMaintenance, row.FreelanceRuns, row.SurveyRuns,
				strings.Join(row.ActiveAssets, ","), row.ActiveAssetCount, row.IdleAssetCount, row.TimeBonusMinutes,
			); err != nil {
				return fmt.Errorf("insert ledger day %d: %w", row.Day, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return snap.ID, nil
}

// RecordROI stores ranked rows. An infinite payback is stored as NULL.
func (r *SQLiteRecorder) RecordROI(runID string, rows []model.ROIRow) error {
	return r.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO roi_rows
			(run_id, ranking, track, tuition, study_hours, incremental_daily,
			 roi_per_hour, payback_days, net_gain_horizon, details)
			VALUES (?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare roi insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			payback := sql.NullFloat64{Float64: row.PaybackDays, Valid: !math.IsInf(row.PaybackDays, 0)}
			if _, err := stmt.Exec(
				runID, i+1, row.Track, row.Tuition, row.StudyHours, row.IncrementalDaily,
				row.ROIPerHour, payback, row.NetGainHorizon, row.Details,
			); err != nil {
				return fmt.Errorf("insert roi %s: %w", row.Track, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRecorder) RecordSensitivity(runID, parameter string, points []scenario.Point) error {
	return r.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO sensitivity_points
			(run_id, parameter, value, final_cash, avg_daily_change)
			VALUES (?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare sensitivity insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.Exec(runID, parameter, p.Value, p.FinalCash, p.AvgDailyChange); err != nil {
				return fmt.Errorf("insert sensitivity point: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
