package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StockScorer/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL UNIQUE,
			timestamp   INTEGER NOT NULL,
			duration_ms INTEGER,
			succeeded   INTEGER,
			failed      INTEGER,
			skipped     INTEGER,
			requests    INTEGER,
			aborted     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ticker_scores (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			rank           INTEGER,
			ticker         TEXT NOT NULL,
			source         TEXT,
			price          REAL,
			market_cap     REAL,
			eps            REAL,
			eps_growth     REAL,
			debt_equity    REAL,
			dividend_yield REAL,
			moat           INTEGER,
			growth         INTEGER,
			balance        INTEGER,
			valuation      INTEGER,
			sentiment      INTEGER,
			short_score    REAL,
			mid_score      REAL,
			long_score     REAL,
			state          TEXT,
			graham_value   REAL,
			upside         REAL,
			warnings       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_run ON ticker_scores(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_ticker ON ticker_scores(ticker)`,

		`CREATE TABLE IF NOT EXISTS ticker_failures (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ticker TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_run ON ticker_failures(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordRun stores the run and all of its per-ticker rows in one transaction.
func (r *SQLiteRecorder) RecordRun(rep *model.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(run_id, timestamp, duration_ms, succeeded, failed, skipped, requests, aborted)
		VALUES (?,?,?,?,?,?,?,?)`,
		rep.RunID, rep.Timestamp.Unix(), rep.Duration.Milliseconds(),
		rep.Succeeded, rep.Failed, rep.Skipped, rep.Requests, boolInt(rep.Aborted),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, res := range rep.Results {
		s := res.Snapshot
		var de sql.NullFloat64
		if s.DebtEquity != nil {
			de = sql.NullFloat64{Float64: *s.DebtEquity, Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO ticker_scores
			(run_id, rank, ticker, source, price, market_cap, eps, eps_growth, debt_equity, dividend_yield,
			 moat, growth, balance, valuation, sentiment,
			 short_score, mid_score, long_score, state, graham_value, upside, warnings)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			rep.RunID, i+1, s.Ticker, string(s.Source), s.Price, s.MarketCap, s.EPS, s.EPSGrowth, de, s.DividendYield,
			res.Scores.Moat, res.Scores.Growth, res.Scores.Balance, res.Scores.Valuation, res.Scores.Sentiment,
			res.Composite.Short, res.Composite.Mid, res.Composite.Long, string(res.State),
			res.Valuation.GrahamValue, res.Valuation.UpsidePct, strings.Join(res.Audit.Warnings, "; "),
		); err != nil {
			return fmt.Errorf("insert score %s: %w", s.Ticker, err)
		}
	}

	for _, f := range rep.Failures {
		if _, err := tx.Exec(`INSERT INTO ticker_failures (run_id, ticker, reason) VALUES (?,?,?)`,
			rep.RunID, f.Ticker, f.Reason,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first, with each run's top ticker by Mid score.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT r.run_id, r.timestamp, r.duration_ms, r.succeeded, r.failed, r.skipped,
			r.requests, r.aborted, COALESCE(t.ticker, ''), COALESCE(t.mid_score, 0)
		FROM runs r
		LEFT JOIN ticker_scores t ON t.run_id = r.run_id AND t.rank = 1
		ORDER BY r.timestamp DESC, r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s          RunSummary
			ts, durMs  int64
			abortedInt int
		)
		if err := rows.Scan(&s.RunID, &ts, &durMs, &s.Succeeded, &s.Failed, &s.Skipped,
			&s.Requests, &abortedInt, &s.TopTicker, &s.TopMid); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0).UTC()
		s.Duration = time.Duration(durMs) * time.Millisecond
		s.Aborted = abortedInt != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
