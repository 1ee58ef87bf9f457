package model

// Factor names, in the order they appear in reports.
const (
	FactorMoat      = "Moat"
	FactorGrowth    = "Growth"
	FactorBalance   = "Balance"
	FactorValuation = "Valuation"
	FactorSentiment = "Sentiment"
)

// SubScores holds the five integer factor scores of one ticker.
type SubScores struct {
	Moat      int
	Growth    int
	Balance   int
	Valuation int
	Sentiment int
}

// CompositeScores are the horizon blends of SubScores, rounded to one decimal.
type CompositeScores struct {
	Short float64
	Mid   float64
	Long  float64
}

// ActivityState is a qualitative trading-intensity label.
type ActivityState string

const (
	StateHot    ActivityState = "HOT"
	StateWarm   ActivityState = "WARM"
	StateCold   ActivityState = "COLD"
	StateFrozen ActivityState = "FROZEN"
)

// Valuation is the Graham estimate exposed for display, independent of the bracket score.
type Valuation struct {
	GrahamValue float64
	UpsidePct   float64
}
