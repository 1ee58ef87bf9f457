package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TickerDetails is the reference record for a listed company.
type TickerDetails struct {
	Name              string
	MarketCap         float64
	SectorDescription string
	SharesOutstanding float64
	LogoURL           string
	HomepageURL       string
}

// IncomeStatement holds the income-statement lines used for EPS.
type IncomeStatement struct {
	NetIncome float64
	Revenue   float64
}

// BalanceSheet holds the balance-sheet lines used for debt/equity.
type BalanceSheet struct {
	LongTermDebt          float64
	CurrentDebt           float64
	NoncurrentLiabilities float64
	TotalLiabilities      float64
	Equity                float64
	StockholdersEquity    float64
}

// QuarterlyFiling is one quarterly financial statement.
type QuarterlyFiling struct {
	FiscalPeriod    string // "Q1".."Q4"
	FiscalYear      int
	FilingDate      string
	IncomeStatement IncomeStatement
	BalanceSheet    BalanceSheet
}

// Dividend is a single cash dividend payment.
type Dividend struct {
	CashAmount float64
}

// RawTickerData bundles everything fetched upstream for one ticker.
// Nil pointers and empty slices mean the provider had no data.
type RawTickerData struct {
	Ticker    string
	Bar       *OHLCV
	Details   *TickerDetails
	Filings   []QuarterlyFiling // most recent first
	Dividends []Dividend        // most recent first
	DailyBars []OHLCV
}
