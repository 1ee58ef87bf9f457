// Package runner evaluates a ticker universe in one batch: it fetches and
// normalizes each ticker, gates untrusted snapshots, scores them on a bounded
// worker pool and ranks the results.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"StockScorer/internal/collector"
	"StockScorer/internal/metrics"
	"StockScorer/internal/model"
	"StockScorer/internal/scoring"
)

const (
	DefaultWorkers          = 4
	DefaultFailureThreshold = 50
)

// ErrUntrusted is returned for a ticker whose snapshot lacks market cap or
// price and has no reference snapshot to fall back on.
var ErrUntrusted = errors.New("untrusted snapshot and no reference data")

// ReferenceSource supplies fallback snapshots for untrusted tickers.
type ReferenceSource interface {
	Lookup(ticker string) (model.FinancialSnapshot, bool)
}

// Runner holds the collaborators of a batch run. References and CapRanges
// may be nil interfaces; Metrics may be nil.
type Runner struct {
	Provider         collector.MarketDataProvider
	References       ReferenceSource
	CapRanges        scoring.CapRangeSource
	Workers          int
	FailureThreshold int
	Metrics          *metrics.Registry
	Now              func() time.Time
}

// New creates a Runner with default pool size and failure threshold.
func New(provider collector.MarketDataProvider, refs ReferenceSource, caps scoring.CapRangeSource) *Runner {
	return &Runner{
		Provider:         provider,
		References:       refs,
		CapRanges:        caps,
		Workers:          DefaultWorkers,
		FailureThreshold: DefaultFailureThreshold,
		Now:              time.Now,
	}
}

type outcome struct {
	result  *model.TickerResult
	failure *model.TickerFailure
}

// Run evaluates tickers and returns the ranked report. Tickers not started
// when the circuit breaker opens are skipped; results already computed are
// kept. A cancelled context stops dispatch and is returned alongside the
// partial report.
func (r *Runner) Run(ctx context.Context, tickers []string) (*model.RunReport, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	rep := &model.RunReport{RunID: uuid.NewString(), Timestamp: now()}
	logger := log.With().Str("run_id", rep.RunID).Logger()

	counting := collector.NewCountingProvider(r.Provider)
	coll := collector.NewCollector(counting)
	cb := r.newBreaker(rep.RunID)

	workers := max(1, r.Workers)
	sem := make(chan struct{}, workers)
	slots := make([]outcome, len(tickers))
	var (
		wg      sync.WaitGroup
		aborted atomic.Bool
	)

	logger.Info().Int("tickers", len(tickers)).Int("workers", workers).Msg("run started")

dispatch:
	for i, ticker := range tickers {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		if cb.State() == gobreaker.StateOpen {
			<-sem
			aborted.Store(true)
			break
		}
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			defer func() { <-sem }()
			slots[i] = r.guarded(ctx, cb, coll, i, ticker, &aborted)
		}(i, ticker)
	}
	wg.Wait()

	for i, o := range slots {
		switch {
		case o.result != nil:
			rep.Results = append(rep.Results, *o.result)
		case o.failure != nil:
			rep.Failures = append(rep.Failures, *o.failure)
		default:
			rep.Skipped++
			r.Metrics.Ticker("skipped")
			logger.Debug().Str("ticker", tickers[i]).Msg("ticker skipped")
		}
	}
	Rank(rep.Results)

	rep.Succeeded = len(rep.Results)
	rep.Failed = len(rep.Failures)
	rep.Requests = counting.Requests()
	rep.Aborted = aborted.Load()
	rep.Duration = now().Sub(rep.Timestamp)
	r.Metrics.ObserveRun(rep)

	ev := logger.Info()
	if rep.Aborted {
		ev = logger.Error()
	}
	ev.Int("succeeded", rep.Succeeded).
		Int("failed", rep.Failed).
		Int("skipped", rep.Skipped).
		Int64("requests", rep.Requests).
		Bool("aborted", rep.Aborted).
		Dur("duration", rep.Duration).
		Msg("run finished")

	if err := ctx.Err(); err != nil {
		return rep, fmt.Errorf("run interrupted: %w", err)
	}
	return rep, nil
}

// Rank orders results by Mid composite, descending, ties broken by universe position.
func Rank(results []model.TickerResult) {
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Composite.Mid != results[b].Composite.Mid {
			return results[a].Composite.Mid > results[b].Composite.Mid
		}
		return results[a].Position < results[b].Position
	})
}

// newBreaker trips once failures exceed the threshold while nothing has
// succeeded. It never half-opens within a run.
func (r *Runner) newBreaker(runID string) *gobreaker.CircuitBreaker {
	threshold := r.FailureThreshold
	if threshold < 1 {
		threshold = DefaultFailureThreshold
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "run-" + runID,
		Timeout: time.Hour,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return int(c.TotalFailures) > threshold && c.TotalSuccesses == 0
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("upstream provider looks unreachable, aborting remaining tickers")
		},
	})
}

func (r *Runner) guarded(ctx context.Context, cb *gobreaker.CircuitBreaker, coll *collector.Collector, pos int, ticker string, aborted *atomic.Bool) outcome {
	v, err := cb.Execute(func() (interface{}, error) {
		return r.evaluate(ctx, coll, ticker)
	})
	switch {
	case err == nil:
		res := v.(model.TickerResult)
		res.Position = pos
		if res.Snapshot.Source == model.SourceReference {
			r.Metrics.Ticker("reference")
		} else {
			r.Metrics.Ticker("live")
		}
		return outcome{result: &res}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		aborted.Store(true)
		return outcome{}
	default:
		r.Metrics.Ticker("failed")
		log.Warn().Err(err).Str("ticker", ticker).Msg("ticker failed")
		return outcome{failure: &model.TickerFailure{Ticker: ticker, Reason: err.Error()}}
	}
}

// Evaluate runs one ticker through collection, the validation gate and
// scoring, outside of any batch.
func (r *Runner) Evaluate(ctx context.Context, ticker string) (model.TickerResult, error) {
	return r.evaluate(ctx, collector.NewCollector(r.Provider), ticker)
}

func (r *Runner) evaluate(ctx context.Context, coll *collector.Collector, ticker string) (model.TickerResult, error) {
	snap, err := coll.Collect(ctx, ticker)
	if err != nil {
		return model.TickerResult{}, err
	}
	snap, err = r.gate(snap)
	if err != nil {
		return model.TickerResult{}, err
	}
	return scoring.Evaluate(snap, r.CapRanges), nil
}

// gate substitutes the registered reference snapshot for an untrusted one.
func (r *Runner) gate(snap model.FinancialSnapshot) (model.FinancialSnapshot, error) {
	if scoring.Trusted(snap) {
		return snap, nil
	}
	if r.References != nil {
		if ref, ok := r.References.Lookup(snap.Ticker); ok && scoring.Trusted(ref) {
			log.Warn().Str("ticker", snap.Ticker).
				Float64("market_cap", snap.MarketCap).
				Float64("price", snap.Price).
				Msg("data validation failed, using reference snapshot")
			return ref, nil
		}
	}
	return model.FinancialSnapshot{}, fmt.Errorf("%s: %w (market cap %.0f, price %.2f)",
		snap.Ticker, ErrUntrusted, snap.MarketCap, snap.Price)
}
