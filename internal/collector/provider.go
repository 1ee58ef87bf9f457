package collector

import (
	"context"
	"errors"

	"StockScorer/internal/model"
)

var (
	// ErrRateLimited is returned when the provider answers HTTP 429.
	// The ticker is skipped for the run; it is never retried.
	ErrRateLimited = errors.New("rate limited by provider")

	// ErrNoData means the provider has nothing for the request.
	ErrNoData = errors.New("no data")
)

// MarketDataProvider defines the upstream calls the normalizer consumes.
// A call with nothing to return yields a nil/empty result and a nil error.
type MarketDataProvider interface {
	GetPreviousDayBar(ctx context.Context, ticker string) (*model.OHLCV, error)
	GetTickerDetails(ctx context.Context, ticker string) (*model.TickerDetails, error)
	GetQuarterlyFinancials(ctx context.Context, ticker string, limit int, order string) ([]model.QuarterlyFiling, error)
	GetDividendHistory(ctx context.Context, ticker string, limit int) ([]model.Dividend, error)
	GetDailyBars(ctx context.Context, ticker string, limit int) ([]model.OHLCV, error)
	Name() string
}
