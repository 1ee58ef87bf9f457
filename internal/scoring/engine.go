package scoring

import "StockScorer/internal/model"

// Evaluate runs the scorers, the valuation estimator, the activity classifier,
// the blender and the audit builder over one snapshot. It is pure: the same
// snapshot always yields the same result.
func Evaluate(snap model.FinancialSnapshot, ranges CapRangeSource) model.TickerResult {
	scores := model.SubScores{
		Moat:      ScoreMoat(snap.MarketCap),
		Growth:    ScoreGrowth(snap.EPSGrowth),
		Balance:   ScoreBalance(snap.DebtEquity),
		Valuation: ScoreValuation(snap.EPS, snap.Price, snap.EPSGrowth),
		Sentiment: ScoreSentiment(snap.DividendYield, snap.Sector, snap.EPSGrowth),
	}
	return model.TickerResult{
		Snapshot:  snap,
		Scores:    scores,
		Composite: Blend(scores),
		Valuation: Estimate(snap.EPS, snap.Price, snap.EPSGrowth),
		State:     ClassifyActivity(snap.Volume, snap.AvgVolume, snap.ChangePct),
		Audit:     BuildAudit(snap, ranges),
	}
}

// Trusted reports whether a snapshot has the minimum data scoring relies on.
func Trusted(snap model.FinancialSnapshot) bool {
	return snap.MarketCap != 0 && snap.Price != 0
}
