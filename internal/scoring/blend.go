package scoring

import (
	"github.com/shopspring/decimal"

	"StockScorer/internal/model"
)

// compositePlaces is the number of decimals composites are reported with.
// Rounding is half away from zero on the exact decimal sum.
const compositePlaces = 1

// Weights is a horizon's weight vector over the five factors.
type Weights struct {
	Moat      decimal.Decimal
	Growth    decimal.Decimal
	Balance   decimal.Decimal
	Valuation decimal.Decimal
	Sentiment decimal.Decimal
}

func w(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	ShortWeights = Weights{Growth: w("0.30"), Sentiment: w("0.25"), Valuation: w("0.20"), Moat: w("0.15"), Balance: w("0.10")}
	MidWeights   = Weights{Moat: w("0.25"), Valuation: w("0.25"), Growth: w("0.20"), Balance: w("0.15"), Sentiment: w("0.15")}
	LongWeights  = Weights{Moat: w("0.30"), Balance: w("0.25"), Valuation: w("0.20"), Growth: w("0.15"), Sentiment: w("0.10")}
)

// Sum returns the total weight; every horizon sums to exactly 1.
func (wt Weights) Sum() decimal.Decimal {
	return decimal.Sum(wt.Moat, wt.Growth, wt.Balance, wt.Valuation, wt.Sentiment)
}

// Exact returns the unrounded weighted sum of the sub-scores.
func (wt Weights) Exact(s model.SubScores) decimal.Decimal {
	term := func(score int, weight decimal.Decimal) decimal.Decimal {
		return decimal.NewFromInt(int64(score)).Mul(weight)
	}
	return decimal.Sum(
		term(s.Moat, wt.Moat),
		term(s.Growth, wt.Growth),
		term(s.Balance, wt.Balance),
		term(s.Valuation, wt.Valuation),
		term(s.Sentiment, wt.Sentiment),
	)
}

// Apply returns the weighted sum rounded to one decimal.
func (wt Weights) Apply(s model.SubScores) float64 {
	f, _ := wt.Exact(s).Round(compositePlaces).Float64()
	return f
}

// Blend computes the Short, Mid and Long composites.
func Blend(s model.SubScores) model.CompositeScores {
	return model.CompositeScores{
		Short: ShortWeights.Apply(s),
		Mid:   MidWeights.Apply(s),
		Long:  LongWeights.Apply(s),
	}
}
