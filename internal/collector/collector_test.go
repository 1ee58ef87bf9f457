package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScorer/internal/model"
)

func TestCollect_UsesAllCalls(t *testing.T) {
	mock := &MockProvider{Data: map[string]model.RawTickerData{
		"AMD": {
			Bar:     &model.OHLCV{Open: 120, Close: 119.42, Volume: 42_300_000},
			Details: &model.TickerDetails{Name: "Advanced Micro Devices", MarketCap: 193.5e9, SectorDescription: "Semiconductor Manufacturing", SharesOutstanding: 1.62e9},
			Filings: []model.QuarterlyFiling{
				{FiscalPeriod: "Q3", FiscalYear: 2025, IncomeStatement: model.IncomeStatement{NetIncome: 1.2e9},
					BalanceSheet: model.BalanceSheet{LongTermDebt: 2.2e9, Equity: 59e9}},
			},
			DailyBars: []model.OHLCV{{Volume: 40e6}, {Volume: 50e6}},
		},
	}}
	counting := NewCountingProvider(mock)

	snap, err := NewCollector(counting).Collect(context.Background(), "AMD")
	require.NoError(t, err)
	assert.Equal(t, "Advanced Micro Devices", snap.Name)
	assert.Equal(t, 193.5e9, snap.MarketCap)
	assert.Equal(t, 45e6, snap.AvgVolume)
	assert.Zero(t, snap.DividendYield)
	require.NotNil(t, snap.DebtEquity)
	assert.EqualValues(t, 5, counting.Requests())
}

func TestCollect_DegradesUpstreamFailures(t *testing.T) {
	mock := &MockProvider{Errs: map[string]error{"AAPL": errors.New("connection reset")}}
	snap, err := NewCollector(mock).Collect(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Zero(t, snap.Price)
	assert.Zero(t, snap.MarketCap)
	assert.Equal(t, "AAPL", snap.Name)
}

func TestCollect_NoDataIsEmpty(t *testing.T) {
	mock := &MockProvider{Errs: map[string]error{"AAPL": ErrNoData}}
	_, err := NewCollector(mock).Collect(context.Background(), "AAPL")
	assert.NoError(t, err)
}

func TestCollect_RateLimitedPropagates(t *testing.T) {
	mock := &MockProvider{Errs: map[string]error{"AAPL": ErrRateLimited}}
	counting := NewCountingProvider(mock)
	_, err := NewCollector(counting).Collect(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualValues(t, 1, counting.Requests(), "no further calls after a 429")
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := &MockProvider{Errs: map[string]error{"AAPL": errors.New("request aborted")}}
	_, err := NewCollector(mock).Collect(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockProvider_Limits(t *testing.T) {
	mock := &MockProvider{Data: map[string]model.RawTickerData{
		"X": {Dividends: make([]model.Dividend, 10)},
	}}
	divs, err := mock.GetDividendHistory(context.Background(), "X", DividendsLimit)
	require.NoError(t, err)
	assert.Len(t, divs, DividendsLimit)
}
