package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"StockScorer/internal/model"
)

// Request sizes for each upstream call.
const (
	FilingsLimit   = 5
	DividendsLimit = 4
	DailyBarsLimit = 30
)

// MockProvider returns controllable fixed data for development and testing.
// Tickers absent from Data yield empty results; Errs forces every call for a
// ticker to fail with the given error.
type MockProvider struct {
	Data map[string]model.RawTickerData
	Errs map[string]error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) lookup(ticker string) (model.RawTickerData, error) {
	if err := m.Errs[ticker]; err != nil {
		return model.RawTickerData{}, err
	}
	return m.Data[ticker], nil
}

func (m *MockProvider) GetPreviousDayBar(_ context.Context, ticker string) (*model.OHLCV, error) {
	raw, err := m.lookup(ticker)
	return raw.Bar, err
}

func (m *MockProvider) GetTickerDetails(_ context.Context, ticker string) (*model.TickerDetails, error) {
	raw, err := m.lookup(ticker)
	return raw.Details, err
}

func (m *MockProvider) GetQuarterlyFinancials(_ context.Context, ticker string, limit int, _ string) ([]model.QuarterlyFiling, error) {
	raw, err := m.lookup(ticker)
	return head(raw.Filings, limit), err
}

func (m *MockProvider) GetDividendHistory(_ context.Context, ticker string, limit int) ([]model.Dividend, error) {
	raw, err := m.lookup(ticker)
	return head(raw.Dividends, limit), err
}

func (m *MockProvider) GetDailyBars(_ context.Context, ticker string, limit int) ([]model.OHLCV, error) {
	raw, err := m.lookup(ticker)
	return head(raw.DailyBars, limit), err
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Collector fetches every record for a ticker and normalizes it.
type Collector struct {
	Provider MarketDataProvider
}

// NewCollector creates a new Collector.
func NewCollector(provider MarketDataProvider) *Collector {
	return &Collector{Provider: provider}
}

// Collect fetches the raw records for ticker and returns the normalized
// snapshot. Upstream failures degrade to empty records; only a rate limit or
// a cancelled context is returned as an error.
func (c *Collector) Collect(ctx context.Context, ticker string) (model.FinancialSnapshot, error) {
	raw := model.RawTickerData{Ticker: ticker}
	var err error

	if raw.Bar, err = fetch(ctx, c, ticker, "previous day bar", func() (*model.OHLCV, error) {
		return c.Provider.GetPreviousDayBar(ctx, ticker)
	}); err != nil {
		return model.FinancialSnapshot{}, err
	}
	if raw.Details, err = fetch(ctx, c, ticker, "ticker details", func() (*model.TickerDetails, error) {
		return c.Provider.GetTickerDetails(ctx, ticker)
	}); err != nil {
		return model.FinancialSnapshot{}, err
	}
	if raw.Filings, err = fetch(ctx, c, ticker, "quarterly financials", func() ([]model.QuarterlyFiling, error) {
		return c.Provider.GetQuarterlyFinancials(ctx, ticker, FilingsLimit, "desc")
	}); err != nil {
		return model.FinancialSnapshot{}, err
	}
	if raw.Dividends, err = fetch(ctx, c, ticker, "dividends", func() ([]model.Dividend, error) {
		return c.Provider.GetDividendHistory(ctx, ticker, DividendsLimit)
	}); err != nil {
		return model.FinancialSnapshot{}, err
	}
	if raw.DailyBars, err = fetch(ctx, c, ticker, "daily bars", func() ([]model.OHLCV, error) {
		return c.Provider.GetDailyBars(ctx, ticker, DailyBarsLimit)
	}); err != nil {
		return model.FinancialSnapshot{}, err
	}

	return Normalize(raw), nil
}

func fetch[T any](ctx context.Context, c *Collector, ticker, call string, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err == nil {
		return v, nil
	}
	var zero T
	switch {
	case errors.Is(err, ErrRateLimited):
		return zero, fmt.Errorf("%s %s: %w", ticker, call, err)
	case ctx.Err() != nil:
		return zero, ctx.Err()
	case errors.Is(err, ErrNoData):
		log.Debug().Str("ticker", ticker).Str("call", call).Msg("no upstream data")
	default:
		log.Warn().Err(err).
			Str("ticker", ticker).
			Str("call", call).
			Str("provider", c.Provider.Name()).
			Msg("upstream call failed, continuing with empty data")
	}
	return zero, nil
}
