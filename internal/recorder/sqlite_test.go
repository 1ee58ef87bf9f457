package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScorer/internal/model"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "data", "scorer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func run(id string, ts time.Time, results ...model.TickerResult) *model.RunReport {
	return &model.RunReport{
		RunID:     id,
		Timestamp: ts,
		Duration:  1500 * time.Millisecond,
		Results:   results,
		Succeeded: len(results),
		Failures:  []model.TickerFailure{{Ticker: "BAD", Reason: "rate limited by provider"}},
		Failed:    1,
		Requests:  20,
	}
}

func result(ticker string, mid float64, de *float64) model.TickerResult {
	return model.TickerResult{
		Snapshot:  model.FinancialSnapshot{Ticker: ticker, Source: model.SourceLive, DebtEquity: de},
		Composite: model.CompositeScores{Mid: mid},
		State:     model.StateCold,
		Audit:     model.AuditRecord{Warnings: []string{"D/E ratio unavailable", "Market cap missing"}},
	}
}

func TestRecordRun(t *testing.T) {
	r := newTestRecorder(t)
	t0 := time.Date(2025, 1, 2, 22, 0, 0, 0, time.UTC)

	require.NoError(t, r.RecordRun(run("run-a", t0, result("MSFT", 14.1, model.Float(0.35)), result("AAPL", 12.4, nil))))
	require.NoError(t, r.RecordRun(run("run-b", t0.Add(24*time.Hour), result("NVDA", 15.2, nil))))

	runs, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].RunID)
	assert.Equal(t, "NVDA", runs[0].TopTicker)
	assert.Equal(t, "MSFT", runs[1].TopTicker)
	assert.Equal(t, 14.1, runs[1].TopMid)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, t0, runs[1].Timestamp)
	assert.EqualValues(t, 20, runs[1].Requests)

	var (
		count int
		de    sql.NullFloat64
		warn  string
	)
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM ticker_scores WHERE run_id = 'run-a'`).Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, r.db.QueryRow(`SELECT debt_equity, warnings FROM ticker_scores WHERE ticker = 'AAPL'`).Scan(&de, &warn))
	assert.False(t, de.Valid, "unknown D/E stored as NULL")
	assert.Equal(t, "D/E ratio unavailable; Market cap missing", warn)
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM ticker_failures`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestRecordRun_DuplicateRollsBack(t *testing.T) {
	r := newTestRecorder(t)
	rep := run("dup", time.Now(), result("AAPL", 12.4, nil))
	require.NoError(t, r.RecordRun(rep))
	assert.Error(t, r.RecordRun(rep))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM ticker_scores`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRecentRuns_Limit(t *testing.T) {
	r := newTestRecorder(t)
	base := time.Now().Truncate(time.Second)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.RecordRun(run(id, base.Add(time.Duration(i)*time.Minute))))
	}
	runs, err := r.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RunID)
	assert.Empty(t, runs[0].TopTicker)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&model.RunReport{}))
	runs, err := r.RecentRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
