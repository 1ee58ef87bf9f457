package scoring

import "StockScorer/internal/model"

// Graham formula constants: V = EPS × (8.5 + 2g), g clamped to [0, 15].
const (
	grahamBase      = 8.5
	grahamGrowthMax = 15.0
)

// GrahamValue returns the intrinsic value estimate, or 0 when EPS is not positive.
func GrahamValue(eps, epsGrowth float64) float64 {
	if eps <= 0 {
		return 0
	}
	g := clamp(epsGrowth, 0, grahamGrowthMax)
	return eps * (grahamBase + 2*g)
}

// UpsidePct is the percentage gap between value and price, 0 when price is not positive.
func UpsidePct(value, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return (value - price) / price * 100
}

// Estimate computes the displayed Graham value and upside.
func Estimate(eps, price, epsGrowth float64) model.Valuation {
	v := GrahamValue(eps, epsGrowth)
	return model.Valuation{GrahamValue: v, UpsidePct: UpsidePct(v, price)}
}

func valuationRung(eps, price, epsGrowth float64) Rung {
	if eps <= 0 || price <= 0 {
		return ValuationUndefined
	}
	return ValuationLadder.Lookup(Estimate(eps, price, epsGrowth).UpsidePct)
}
