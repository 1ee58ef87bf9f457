package collector

import (
	"math"

	"StockScorer/internal/calculator"
	"StockScorer/internal/model"
)

const (
	unknownSector = "Unknown"

	// quartersPerYear annualizes quarterly net income.
	quartersPerYear = 4

	// Cap on the noncurrent-liabilities debt proxy, as a share of total liabilities.
	liabilitiesDebtShare = 0.5
)

// Normalize maps raw provider records into a FinancialSnapshot. Missing
// records leave zero values; it never fails.
func Normalize(raw model.RawTickerData) model.FinancialSnapshot {
	snap := model.FinancialSnapshot{
		Ticker: raw.Ticker,
		Name:   raw.Ticker,
		Sector: unknownSector,
		Source: model.SourceLive,
	}

	if b := raw.Bar; b != nil {
		snap.Price = b.Close
		snap.Volume = b.Volume
		snap.Change, snap.ChangePct = calculator.DayChange(*b)
	}

	var shares float64
	if d := raw.Details; d != nil {
		if d.Name != "" {
			snap.Name = d.Name
		}
		if d.SectorDescription != "" {
			snap.Sector = d.SectorDescription
		}
		snap.MarketCap = d.MarketCap
		snap.LogoURL = d.LogoURL
		snap.Homepage = d.HomepageURL
		shares = d.SharesOutstanding
	}

	if len(raw.Filings) > 0 {
		latest := raw.Filings[0]
		snap.EPS = annualizedEPS(latest.IncomeStatement.NetIncome, shares)
		snap.EPSGrowth = epsGrowth(snap.EPS, latest, raw.Filings, shares)
		snap.TotalDebt, snap.TotalEquity, snap.DebtEquity = leverage(latest.BalanceSheet)
	}

	for _, d := range raw.Dividends {
		snap.AnnualDividend += d.CashAmount
	}
	if snap.Price > 0 {
		snap.DividendYield = snap.AnnualDividend / snap.Price * 100
	}

	snap.AvgVolume = calculator.AverageVolume(raw.DailyBars)
	return scrub(snap)
}

func annualizedEPS(netIncome, shares float64) float64 {
	if shares <= 0 || netIncome == 0 {
		return 0
	}
	return netIncome * quartersPerYear / shares
}

// epsGrowth compares against the same fiscal period one year earlier, using
// the current share count for both quarters.
func epsGrowth(currentEPS float64, latest model.QuarterlyFiling, filings []model.QuarterlyFiling, shares float64) float64 {
	if latest.FiscalPeriod == "" {
		return 0
	}
	for _, f := range filings {
		if f.FiscalPeriod != latest.FiscalPeriod || f.FiscalYear != latest.FiscalYear-1 {
			continue
		}
		prior := annualizedEPS(f.IncomeStatement.NetIncome, shares)
		if prior == 0 {
			return 0
		}
		return (currentEPS - prior) / math.Abs(prior) * 100
	}
	return 0
}

// leverage returns financial debt, equity and their ratio. The ratio is nil
// when equity is not positive.
func leverage(bs model.BalanceSheet) (debt, equity float64, ratio *float64) {
	debt = bs.LongTermDebt + bs.CurrentDebt
	if debt == 0 && bs.NoncurrentLiabilities > 0 {
		debt = math.Min(bs.NoncurrentLiabilities, liabilitiesDebtShare*bs.TotalLiabilities)
	}
	equity = bs.Equity
	if equity == 0 {
		equity = bs.StockholdersEquity
	}
	if equity > 0 {
		ratio = model.Float(debt / equity)
	}
	return debt, equity, ratio
}

// scrub replaces non-finite values with 0 and enforces non-negative price and market cap.
func scrub(s model.FinancialSnapshot) model.FinancialSnapshot {
	for _, f := range []*float64{
		&s.Price, &s.Change, &s.ChangePct, &s.Volume, &s.AvgVolume, &s.MarketCap,
		&s.EPS, &s.EPSGrowth, &s.TotalDebt, &s.TotalEquity, &s.DividendYield, &s.AnnualDividend,
	} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	if s.DebtEquity != nil && (math.IsNaN(*s.DebtEquity) || math.IsInf(*s.DebtEquity, 0)) {
		s.DebtEquity = nil
	}
	s.Price = math.Max(s.Price, 0)
	s.MarketCap = math.Max(s.MarketCap, 0)
	return s
}
