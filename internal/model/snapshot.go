package model

// SnapshotSource tells where a snapshot's numbers came from.
type SnapshotSource string

const (
	SourceLive      SnapshotSource = "LIVE"
	SourceReference SnapshotSource = "REFERENCE"
)

// FinancialSnapshot is the canonical per-ticker input to scoring.
// It is rebuilt from scratch on every run.
type FinancialSnapshot struct {
	Ticker    string
	Name      string
	Sector    string
	LogoURL   string
	Homepage  string
	Source    SnapshotSource
	Price     float64
	Change    float64
	ChangePct float64
	Volume    float64
	AvgVolume float64
	MarketCap float64

	EPS       float64 // annualized from the latest quarter
	EPSGrowth float64 // percent, year over year, unclamped

	// DebtEquity is nil when the ratio is unknown, which is not the same as zero.
	DebtEquity  *float64
	TotalDebt   float64
	TotalEquity float64

	DividendYield  float64 // percent
	AnnualDividend float64
}

// Float returns a pointer to v, for building snapshots with a known D/E.
func Float(v float64) *float64 { return &v }

// CapRange is the expected market-cap band for a known ticker.
type CapRange struct {
	Low  float64
	High float64
}
