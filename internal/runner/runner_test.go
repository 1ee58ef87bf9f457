package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScorer/internal/collector"
	"StockScorer/internal/metrics"
	"StockScorer/internal/model"
	"StockScorer/internal/reference"
	"StockScorer/internal/scoring"
)

func liveRaw(marketCap, price float64) model.RawTickerData {
	return model.RawTickerData{
		Bar:     &model.OHLCV{Open: price, Close: price, Volume: 1_000_000},
		Details: &model.TickerDetails{Name: "Live Co", MarketCap: marketCap, SectorDescription: "Retail", SharesOutstanding: 1e9},
	}
}

func newRunner(t *testing.T, data map[string]model.RawTickerData, errs map[string]error) *Runner {
	t.Helper()
	refs, err := reference.Default()
	require.NoError(t, err)
	return New(&collector.MockProvider{Data: data, Errs: errs}, refs, refs)
}

func TestRun_FallbackAndDrop(t *testing.T) {
	r := newRunner(t, map[string]model.RawTickerData{"LIVE": liveRaw(60e9, 50)}, nil)

	rep, err := r.Run(context.Background(), []string{"LIVE", "AAPL", "NOPE"})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 1, rep.Failed)
	assert.False(t, rep.Aborted)
	assert.EqualValues(t, 15, rep.Requests)

	byTicker := map[string]model.TickerResult{}
	for _, res := range rep.Results {
		byTicker[res.Snapshot.Ticker] = res
	}
	apple := byTicker["AAPL"]
	assert.Equal(t, model.SourceReference, apple.Snapshot.Source)
	assert.Equal(t, 12.4, apple.Composite.Mid)
	assert.Contains(t, apple.Audit.Warnings, scoring.WarnReferenceData)
	assert.Equal(t, model.SourceLive, byTicker["LIVE"].Snapshot.Source)

	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "NOPE", rep.Failures[0].Ticker)
	assert.Contains(t, rep.Failures[0].Reason, ErrUntrusted.Error())
}

func TestRun_ReferenceNeverLeavesZeroes(t *testing.T) {
	// live market cap missing, price present
	raw := liveRaw(0, 300)
	r := newRunner(t, map[string]model.RawTickerData{"MSFT": raw}, nil)

	rep, err := r.Run(context.Background(), []string{"MSFT"})
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, 3.29e12, rep.Results[0].Snapshot.MarketCap)
	assert.Equal(t, 442.57, rep.Results[0].Snapshot.Price)
}

func TestRun_CircuitBreakerTrips(t *testing.T) {
	r := New(&collector.MockProvider{}, nil, nil)
	r.Workers = 1
	m := metrics.New()
	r.Metrics = m

	tickers := make([]string, 60)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%02d", i)
	}

	rep, err := r.Run(context.Background(), tickers)
	require.NoError(t, err)
	assert.True(t, rep.Aborted)
	assert.Equal(t, 51, rep.Failed)
	assert.Equal(t, 9, rep.Skipped)
	assert.Zero(t, rep.Succeeded)
	assert.EqualValues(t, 51*5, rep.Requests)
}

func TestRun_BreakerIgnoresFailuresAfterSuccess(t *testing.T) {
	data := map[string]model.RawTickerData{"OK": liveRaw(10e9, 20)}
	r := New(&collector.MockProvider{Data: data}, nil, nil)
	r.Workers = 1

	tickers := []string{"OK"}
	for i := 0; i < 60; i++ {
		tickers = append(tickers, fmt.Sprintf("T%02d", i))
	}

	rep, err := r.Run(context.Background(), tickers)
	require.NoError(t, err)
	assert.False(t, rep.Aborted)
	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, 60, rep.Failed)
	assert.Zero(t, rep.Skipped)
}

func TestRun_ThresholdConfigurable(t *testing.T) {
	r := New(&collector.MockProvider{}, nil, nil)
	r.Workers = 1
	r.FailureThreshold = 2

	rep, err := r.Run(context.Background(), []string{"A", "B", "C", "D", "E"})
	require.NoError(t, err)
	assert.True(t, rep.Aborted)
	assert.Equal(t, 3, rep.Failed)
	assert.Equal(t, 2, rep.Skipped)
}

func TestRun_RateLimitedIsSoft(t *testing.T) {
	data := map[string]model.RawTickerData{"A": liveRaw(10e9, 20), "C": liveRaw(10e9, 20)}
	errs := map[string]error{"B": collector.ErrRateLimited}
	r := New(&collector.MockProvider{Data: data, Errs: errs}, nil, nil)

	rep, err := r.Run(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Succeeded)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "B", rep.Failures[0].Ticker)
	assert.Contains(t, rep.Failures[0].Reason, collector.ErrRateLimited.Error())
}

func TestRun_DeterministicOrdering(t *testing.T) {
	data := map[string]model.RawTickerData{}
	tickers := []string{"S1", "BIG", "S2", "S3", "MID", "S4", "S5", "S6"}
	for _, tk := range tickers {
		data[tk] = liveRaw(5e9, 20)
	}
	data["BIG"] = liveRaw(3e12, 20)
	data["MID"] = liveRaw(300e9, 20)

	r := New(&collector.MockProvider{Data: data}, nil, nil)
	r.Workers = 4

	want := []string{"BIG", "MID", "S1", "S2", "S3", "S4", "S5", "S6"}
	for i := 0; i < 20; i++ {
		rep, err := r.Run(context.Background(), tickers)
		require.NoError(t, err)
		got := make([]string, 0, len(rep.Results))
		for _, res := range rep.Results {
			got = append(got, res.Snapshot.Ticker)
		}
		require.Equal(t, want, got)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(&collector.MockProvider{}, nil, nil)

	rep, err := r.Run(ctx, []string{"A", "B"})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.Zero(t, rep.Succeeded)
}

func TestRank(t *testing.T) {
	results := []model.TickerResult{
		{Position: 2, Composite: model.CompositeScores{Mid: 10}},
		{Position: 0, Composite: model.CompositeScores{Mid: 10}},
		{Position: 1, Composite: model.CompositeScores{Mid: 14.5}},
	}
	Rank(results)
	assert.Equal(t, []int{1, 0, 2}, []int{results[0].Position, results[1].Position, results[2].Position})
}

func TestEvaluate(t *testing.T) {
	r := newRunner(t, nil, nil)
	res, err := r.Evaluate(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 20, res.Scores.Growth)
	assert.Equal(t, model.SourceReference, res.Snapshot.Source)

	_, err = r.Evaluate(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUntrusted)
}
