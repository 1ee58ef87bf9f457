package scoring

import (
	"fmt"

	"StockScorer/internal/model"
)

// Warning texts attached to an AuditRecord.
const (
	WarnReferenceData = "Using reference data - upstream data unavailable"
	WarnDENull        = "D/E ratio unavailable"
	WarnDEZero        = "D/E is exactly 0, data may be missing"
	WarnEPSLargeCap   = "EPS is 0 for large-cap stock"
	WarnMarketCap     = "Market cap missing"
	WarnDebtZero      = "Total debt is 0, only equity data available"
)

// Market-cap sanity tolerance around the expected range.
const (
	largeCapThreshold = 50e9
	capRangeLowSlack  = 0.5
	capRangeHighSlack = 2.0
)

// CapRangeSource supplies expected market-cap ranges for known tickers.
type CapRangeSource interface {
	ExpectedCapRange(ticker string) (model.CapRange, bool)
}

// BuildAudit explains every sub-score of snap using the same ladders the
// scorers use, and collects data-quality warnings. ranges may be nil.
func BuildAudit(snap model.FinancialSnapshot, ranges CapRangeSource) model.AuditRecord {
	moat := moatRung(snap.MarketCap)
	growth := growthRung(snap.EPSGrowth)
	balance := balanceRung(snap.DebtEquity)
	valuation := valuationRung(snap.EPS, snap.Price, snap.EPSGrowth)
	sentiment := sentimentParts(snap.DividendYield, snap.Sector, snap.EPSGrowth)
	est := Estimate(snap.EPS, snap.Price, snap.EPSGrowth)

	deInput := "D/E Ratio: N/A"
	if snap.DebtEquity != nil {
		deInput = fmt.Sprintf("D/E Ratio: %.2f", *snap.DebtEquity)
	}

	grahamFormula := "Graham value not computed"
	if snap.EPS > 0 && snap.Price > 0 {
		grahamFormula = fmt.Sprintf("EPS × (8.5 + 2 × min(15, %.1f%%)) = $%.2f, upside %.1f%%",
			snap.EPSGrowth, est.GrahamValue, est.UpsidePct)
	}

	tech := "no"
	if sentiment.Tech > 0 {
		tech = "yes"
	}
	breakdown := fmt.Sprintf("Base(%d) + Div(+%d) + Tech(+%d) + Growth(+%d) = %d",
		sentimentBase, sentiment.Dividend.Score, sentiment.Tech, sentiment.Momentum.Score, sentiment.Raw)
	if sentiment.Raw != sentiment.Score {
		breakdown += fmt.Sprintf(", clamped to %d", sentiment.Score)
	}
	sentimentInput := fmt.Sprintf("Div Yield: %.2f%%, Sector: %s, Growth: %.1f%%",
		snap.DividendYield, snap.Sector, snap.EPSGrowth)

	return model.AuditRecord{
		Moat: model.FactorAudit{
			Factor:  model.FactorMoat,
			Input:   fmt.Sprintf("Market Cap: $%.1fB", snap.MarketCap/1e9),
			Bracket: moat.Label,
			Formula: "Market cap size brackets",
			Score:   moat.Score,
		},
		Growth: model.FactorAudit{
			Factor:  model.FactorGrowth,
			Input:   fmt.Sprintf("EPS Growth: %.1f%%", snap.EPSGrowth),
			Bracket: growth.Label,
			Formula: "EPS growth rate brackets, growth clamped to [-50%, 100%]",
			Score:   growth.Score,
		},
		Balance: model.FactorAudit{
			Factor:  model.FactorBalance,
			Input:   deInput,
			Bracket: balance.Label,
			Formula: "Debt/Equity ratio brackets",
			Score:   balance.Score,
		},
		Valuation: model.FactorAudit{
			Factor:  model.FactorValuation,
			Input:   fmt.Sprintf("EPS: $%.2f, Price: $%.2f", snap.EPS, snap.Price),
			Bracket: valuation.Label,
			Formula: grahamFormula,
			Score:   valuation.Score,
		},
		Sentiment: model.FactorAudit{
			Factor:  model.FactorSentiment,
			Input:   sentimentInput,
			Bracket: fmt.Sprintf("Div %s, Tech %s, Growth %s", sentiment.Dividend.Label, tech, sentiment.Momentum.Label),
			Formula: breakdown,
			Score:   sentiment.Score,
		},
		RawDebt:     snap.TotalDebt,
		RawEquity:   snap.TotalEquity,
		GrahamValue: est.GrahamValue,
		UpsidePct:   est.UpsidePct,
		Warnings:    warnings(snap, ranges),
	}
}

func warnings(snap model.FinancialSnapshot, ranges CapRangeSource) []string {
	var out []string
	if snap.Source == model.SourceReference {
		out = append(out, WarnReferenceData)
	}
	switch {
	case snap.DebtEquity == nil:
		out = append(out, WarnDENull)
	case *snap.DebtEquity == 0:
		out = append(out, WarnDEZero)
	}
	if snap.EPS == 0 && snap.MarketCap > largeCapThreshold {
		out = append(out, WarnEPSLargeCap)
	}
	if snap.MarketCap == 0 {
		out = append(out, WarnMarketCap)
	}
	if snap.TotalDebt == 0 && snap.TotalEquity > 0 {
		out = append(out, WarnDebtZero)
	}
	if ranges != nil {
		if r, ok := ranges.ExpectedCapRange(snap.Ticker); ok {
			if snap.MarketCap < r.Low*capRangeLowSlack || snap.MarketCap > r.High*capRangeHighSlack {
				out = append(out, fmt.Sprintf("Market cap $%.0fB outside expected range $%.0fB-$%.0fB",
					snap.MarketCap/1e9, r.Low/1e9, r.High/1e9))
			}
		}
	}
	return out
}
