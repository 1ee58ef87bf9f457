package model

import "time"

// TickerResult is a fully scored ticker.
type TickerResult struct {
	Snapshot  FinancialSnapshot
	Scores    SubScores
	Composite CompositeScores
	Valuation Valuation
	State     ActivityState
	Audit     AuditRecord

	// Position is the ticker's index in the run universe, used to break ranking ties.
	Position int
}

// TickerFailure records why a ticker produced no result.
type TickerFailure struct {
	Ticker string
	Reason string
}

// RunReport is the output of one batch evaluation.
type RunReport struct {
	RunID     string
	Timestamp time.Time
	Duration  time.Duration
	Results   []TickerResult // ranked by Mid composite, descending
	Failures  []TickerFailure
	Succeeded int
	Failed    int
	Skipped   int   // never attempted because the circuit breaker was open
	Requests  int64 // upstream requests made during the run
	Aborted   bool  // circuit breaker tripped
}
