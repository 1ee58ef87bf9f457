package scoring

import (
	"math"
	"strings"
)

// Growth clamp bounds applied before the growth bracket lookup.
const (
	growthFloor   = -50.0
	growthCeiling = 100.0
)

// Sentiment composition.
const (
	sentimentBase = 8
	sentimentMin  = 1
	sentimentMax  = 20
	techBonus     = 2
)

// TechKeywords are matched case-insensitively as substrings of the sector description.
var TechKeywords = []string{"COMPUTER", "SOFTWARE", "SEMICONDUCTOR", "ELECTRONIC", "TECH"}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func moatRung(marketCap float64) Rung {
	return MoatLadder.Lookup(marketCap)
}

func growthRung(epsGrowth float64) Rung {
	return GrowthLadder.Lookup(clamp(epsGrowth, growthFloor, growthCeiling))
}

func balanceRung(debtEquity *float64) Rung {
	if debtEquity == nil || *debtEquity < 0 || math.IsNaN(*debtEquity) {
		return BalanceUnknown
	}
	return BalanceLadder.Lookup(*debtEquity)
}

// ScoreMoat scores competitive durability from market capitalization.
func ScoreMoat(marketCap float64) int { return moatRung(marketCap).Score }

// ScoreGrowth scores EPS growth after clamping it to [-50, 100].
func ScoreGrowth(epsGrowth float64) int { return growthRung(epsGrowth).Score }

// ScoreBalance scores leverage. A nil or negative ratio is unknown and scores 10.
func ScoreBalance(debtEquity *float64) int { return balanceRung(debtEquity).Score }

// ScoreValuation scores Graham upside; 10 when EPS or price is not positive.
func ScoreValuation(eps, price, epsGrowth float64) int {
	return valuationRung(eps, price, epsGrowth).Score
}

// IsTechSector reports whether the sector description names a technology industry.
func IsTechSector(sector string) bool {
	upper := strings.ToUpper(sector)
	for _, kw := range TechKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// SentimentParts is the additive breakdown of the sentiment score.
type SentimentParts struct {
	Dividend Rung
	Tech     int
	Momentum Rung
	Raw      int // before clamping
	Score    int
}

func sentimentParts(dividendYield float64, sector string, epsGrowth float64) SentimentParts {
	p := SentimentParts{
		Dividend: DividendBonus.Lookup(dividendYield),
		Momentum: MomentumBonus.Lookup(epsGrowth),
	}
	if IsTechSector(sector) {
		p.Tech = techBonus
	}
	p.Raw = sentimentBase + p.Dividend.Score + p.Tech + p.Momentum.Score
	p.Score = min(sentimentMax, max(sentimentMin, p.Raw))
	return p
}

// ScoreSentiment combines dividend yield, a tech-sector bonus and unclamped
// growth momentum on top of a base of 8, clamped to [1, 20].
func ScoreSentiment(dividendYield float64, sector string, epsGrowth float64) int {
	return sentimentParts(dividendYield, sector, epsGrowth).Score
}
