package collector

import (
	"context"
	"sync/atomic"

	"StockScorer/internal/model"
)

// CountingProvider counts the upstream requests made through it. A fresh one
// wraps the provider for every run, so the count is run-scoped.
type CountingProvider struct {
	Inner MarketDataProvider
	n     atomic.Int64
}

func NewCountingProvider(inner MarketDataProvider) *CountingProvider {
	return &CountingProvider{Inner: inner}
}

// Requests returns the number of calls made so far.
func (c *CountingProvider) Requests() int64 { return c.n.Load() }

func (c *CountingProvider) Name() string { return c.Inner.Name() }

func (c *CountingProvider) GetPreviousDayBar(ctx context.Context, ticker string) (*model.OHLCV, error) {
	c.n.Add(1)
	return c.Inner.GetPreviousDayBar(ctx, ticker)
}

func (c *CountingProvider) GetTickerDetails(ctx context.Context, ticker string) (*model.TickerDetails, error) {
	c.n.Add(1)
	return c.Inner.GetTickerDetails(ctx, ticker)
}

func (c *CountingProvider) GetQuarterlyFinancials(ctx context.Context, ticker string, limit int, order string) ([]model.QuarterlyFiling, error) {
	c.n.Add(1)
	return c.Inner.GetQuarterlyFinancials(ctx, ticker, limit, order)
}

func (c *CountingProvider) GetDividendHistory(ctx context.Context, ticker string, limit int) ([]model.Dividend, error) {
	c.n.Add(1)
	return c.Inner.GetDividendHistory(ctx, ticker, limit)
}

func (c *CountingProvider) GetDailyBars(ctx context.Context, ticker string, limit int) ([]model.OHLCV, error) {
	c.n.Add(1)
	return c.Inner.GetDailyBars(ctx, ticker, limit)
}
