package recorder

import (
	"time"

	"StockScorer/internal/model"
)

// RunSummary is one row of run history.
type RunSummary struct {
	RunID     string
	Timestamp time.Time
	Duration  time.Duration
	Succeeded int
	Failed    int
	Skipped   int
	Requests  int64
	Aborted   bool
	TopTicker string
	TopMid    float64
}

// Recorder persists run history for later analysis. Scoring never reads it back.
type Recorder interface {
	RecordRun(rep *model.RunReport) error
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
