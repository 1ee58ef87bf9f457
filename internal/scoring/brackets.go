package scoring

// Cmp is the comparison a rung applies to its bound.
type Cmp int

const (
	AtLeast Cmp = iota // v >= Bound
	Above              // v >  Bound
	Below              // v <  Bound
)

// Rung is one tier of a Ladder.
type Rung struct {
	Cmp   Cmp
	Bound float64
	Score int
	Label string
}

func (r Rung) matches(v float64) bool {
	switch r.Cmp {
	case AtLeast:
		return v >= r.Bound
	case Above:
		return v > r.Bound
	case Below:
		return v < r.Bound
	}
	return false
}

// Ladder is an ordered bracket table. Rungs are tried top-down and the first
// match wins; Floor applies when nothing matches (including NaN input).
// The same Ladder drives both a score and its audit label.
type Ladder struct {
	Rungs []Rung
	Floor Rung
}

// Lookup returns the rung selected for v.
func (l Ladder) Lookup(v float64) Rung {
	for _, r := range l.Rungs {
		if r.matches(v) {
			return r
		}
	}
	return l.Floor
}

// Min and Max return the score range covered by the ladder.
func (l Ladder) Min() int {
	m := l.Floor.Score
	for _, r := range l.Rungs {
		if r.Score < m {
			m = r.Score
		}
	}
	return m
}

func (l Ladder) Max() int {
	m := l.Floor.Score
	for _, r := range l.Rungs {
		if r.Score > m {
			m = r.Score
		}
	}
	return m
}

// MoatLadder maps market capitalization to the moat score.
var MoatLadder = Ladder{
	Rungs: []Rung{
		{AtLeast, 2e12, 20, "$2T+"},
		{AtLeast, 1e12, 19, "$1T+"},
		{AtLeast, 500e9, 18, "$500B+"},
		{AtLeast, 200e9, 17, "$200B+"},
		{AtLeast, 100e9, 16, "$100B+"},
		{AtLeast, 50e9, 14, "$50B+"},
		{AtLeast, 20e9, 12, "$20B+"},
		{AtLeast, 10e9, 10, "$10B+"},
		{AtLeast, 5e9, 8, "$5B+"},
		{AtLeast, 1e9, 6, "$1B+"},
	},
	Floor: Rung{Score: 4, Label: "<$1B"},
}

// GrowthLadder maps clamped EPS growth (percent) to the growth score.
var GrowthLadder = Ladder{
	Rungs: []Rung{
		{AtLeast, 50, 20, "≥50%"},
		{AtLeast, 35, 18, "35-50%"},
		{AtLeast, 25, 16, "25-35%"},
		{AtLeast, 15, 14, "15-25%"},
		{AtLeast, 10, 12, "10-15%"},
		{AtLeast, 5, 10, "5-10%"},
		{AtLeast, 0, 8, "0-5%"},
		{AtLeast, -10, 6, "-10-0%"},
		{AtLeast, -25, 4, "-25--10%"},
	},
	Floor: Rung{Score: 2, Label: "<-25%"},
}

// BalanceLadder maps a known, non-negative debt/equity ratio to the balance score.
var BalanceLadder = Ladder{
	Rungs: []Rung{
		{Below, 0.1, 20, "<0.1"},
		{Below, 0.3, 18, "0.1-0.3"},
		{Below, 0.5, 16, "0.3-0.5"},
		{Below, 0.7, 14, "0.5-0.7"},
		{Below, 1.0, 12, "0.7-1.0"},
		{Below, 1.5, 10, "1.0-1.5"},
		{Below, 2.0, 8, "1.5-2.0"},
		{Below, 3.0, 6, "2.0-3.0"},
	},
	Floor: Rung{Score: 4, Label: "≥3.0"},
}

// BalanceUnknown applies when D/E is nil or negative.
var BalanceUnknown = Rung{Score: 10, Label: "Unknown"}

// ValuationLadder maps Graham upside (percent) to the valuation score.
var ValuationLadder = Ladder{
	Rungs: []Rung{
		{AtLeast, 100, 20, "≥100% upside"},
		{AtLeast, 60, 18, "60-100% upside"},
		{AtLeast, 40, 16, "40-60% upside"},
		{AtLeast, 20, 14, "20-40% upside"},
		{AtLeast, 10, 12, "10-20% upside"},
		{AtLeast, 0, 10, "0-10% upside"},
		{AtLeast, -20, 8, "-20-0% upside"},
		{AtLeast, -40, 6, "-40--20% upside"},
	},
	Floor: Rung{Score: 4, Label: "<-40% upside"},
}

// ValuationUndefined applies when EPS or price is not positive.
var ValuationUndefined = Rung{Score: 10, Label: "Undefined (EPS or price ≤ 0)"}

// DividendBonus is the sentiment increment for dividend yield (percent).
var DividendBonus = Ladder{
	Rungs: []Rung{
		{AtLeast, 4, 5, "≥4%"},
		{AtLeast, 3, 4, "3-4%"},
		{AtLeast, 2, 3, "2-3%"},
		{AtLeast, 1, 2, "1-2%"},
		{Above, 0, 1, "0-1%"},
	},
	Floor: Rung{Score: 0, Label: "none"},
}

// MomentumBonus is the sentiment increment for unclamped EPS growth (percent).
var MomentumBonus = Ladder{
	Rungs: []Rung{
		{AtLeast, 25, 3, "≥25%"},
		{AtLeast, 15, 2, "15-25%"},
		{AtLeast, 5, 1, "5-15%"},
	},
	Floor: Rung{Score: 0, Label: "<5%"},
}

// VolumeActivity scores volume relative to its baseline.
var VolumeActivity = Ladder{
	Rungs: []Rung{
		{Above, 2.5, 3, ">2.5x"},
		{Above, 1.5, 2, ">1.5x"},
		{Above, 1.0, 1, ">1.0x"},
		{Below, 0.5, -1, "<0.5x"},
	},
	Floor: Rung{Score: 0, Label: "normal"},
}

// MoveActivity scores the absolute day change (percent).
var MoveActivity = Ladder{
	Rungs: []Rung{
		{Above, 5, 3, ">5%"},
		{Above, 3, 2, ">3%"},
		{Above, 1.5, 1, ">1.5%"},
	},
	Floor: Rung{Score: 0, Label: "quiet"},
}
