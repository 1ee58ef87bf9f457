// Package report turns a RunReport into the published JSON document and
// plain-text tables.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"StockScorer/internal/model"
)

// TimestampLayout is the format of Document.Updated.
const TimestampLayout = "2006-01-02 15:04 UTC"

// Document is the JSON report consumed by the dashboard.
type Document struct {
	Updated   string    `json:"updated"`
	RunID     string    `json:"run_id"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Requests  int64     `json:"requests"`
	Aborted   bool      `json:"aborted"`
	Stocks    []Stock   `json:"stocks"`
	Failures  []Failure `json:"failures"`
}

// Failure is a dropped ticker.
type Failure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Stock is one flattened, display-rounded ticker record.
type Stock struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Source    string  `json:"source"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
	AvgVolume int64   `json:"avg_volume"`
	MarketCap float64 `json:"market_cap"`
	Sector    string  `json:"sector"`
	LogoURL   string  `json:"logo_url"`
	Homepage  string  `json:"homepage"`

	EPS            float64  `json:"eps"`
	EPSGrowth      float64  `json:"eps_growth"`
	DebtEquity     *float64 `json:"debt_equity"`
	DividendYield  float64  `json:"dividend_yield"`
	AnnualDividend float64  `json:"annual_dividend"`
	TotalDebt      float64  `json:"total_debt"`
	TotalEquity    float64  `json:"total_equity"`

	GrahamValue float64 `json:"graham_value"`
	Upside      float64 `json:"upside"`

	Moat      int `json:"moat"`
	Growth    int `json:"growth"`
	Balance   int `json:"balance"`
	Valuation int `json:"valuation"`
	Sentiment int `json:"sentiment"`

	ShortScore float64 `json:"short_score"`
	MidScore   float64 `json:"mid_score"`
	LongScore  float64 `json:"long_score"`

	State string `json:"state"`
	Audit Audit  `json:"audit"`
}

// FactorAudit is the JSON form of model.FactorAudit.
type FactorAudit struct {
	Input   string `json:"input"`
	Bracket string `json:"bracket"`
	Formula string `json:"formula"`
	Score   int    `json:"score"`
}

type BalanceAudit struct {
	FactorAudit
	RawDebt   float64 `json:"raw_debt"`
	RawEquity float64 `json:"raw_equity"`
}

type ValuationAudit struct {
	FactorAudit
	GrahamValue float64 `json:"graham_value"`
	UpsidePct   float64 `json:"upside_pct"`
}

// Audit is the per-stock audit block.
type Audit struct {
	Moat      FactorAudit    `json:"moat"`
	Growth    FactorAudit    `json:"growth"`
	Balance   BalanceAudit   `json:"balance"`
	Valuation ValuationAudit `json:"valuation"`
	Sentiment FactorAudit    `json:"sentiment"`
	Warnings  []string       `json:"warnings"`
}

// round returns v rounded half away from zero to places decimals.
func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func factor(a model.FactorAudit) FactorAudit {
	return FactorAudit{Input: a.Input, Bracket: a.Bracket, Formula: a.Formula, Score: a.Score}
}

// Build flattens rep, keeping its ranking.
func Build(rep *model.RunReport) Document {
	doc := Document{
		Updated:   rep.Timestamp.UTC().Format(TimestampLayout),
		RunID:     rep.RunID,
		Succeeded: rep.Succeeded,
		Failed:    rep.Failed,
		Skipped:   rep.Skipped,
		Requests:  rep.Requests,
		Aborted:   rep.Aborted,
		Stocks:    make([]Stock, 0, len(rep.Results)),
		Failures:  make([]Failure, 0, len(rep.Failures)),
	}
	for _, res := range rep.Results {
		doc.Stocks = append(doc.Stocks, Flatten(res))
	}
	for _, f := range rep.Failures {
		doc.Failures = append(doc.Failures, Failure{Ticker: f.Ticker, Reason: f.Reason})
	}
	return doc
}

// Flatten converts one result to its display row.
func Flatten(res model.TickerResult) Stock {
	s := res.Snapshot
	st := Stock{
		Ticker:    s.Ticker,
		Name:      s.Name,
		Source:    string(s.Source),
		Price:     round(s.Price, 2),
		Change:    round(s.Change, 2),
		ChangePct: round(s.ChangePct, 2),
		Volume:    int64(s.Volume),
		AvgVolume: int64(s.AvgVolume),
		MarketCap: s.MarketCap,
		Sector:    s.Sector,
		LogoURL:   s.LogoURL,
		Homepage:  s.Homepage,

		EPS:            round(s.EPS, 2),
		EPSGrowth:      round(s.EPSGrowth, 1),
		DividendYield:  round(s.DividendYield, 2),
		AnnualDividend: round(s.AnnualDividend, 2),
		TotalDebt:      s.TotalDebt,
		TotalEquity:    s.TotalEquity,

		GrahamValue: round(res.Valuation.GrahamValue, 2),
		Upside:      round(res.Valuation.UpsidePct, 1),

		Moat:      res.Scores.Moat,
		Growth:    res.Scores.Growth,
		Balance:   res.Scores.Balance,
		Valuation: res.Scores.Valuation,
		Sentiment: res.Scores.Sentiment,

		ShortScore: res.Composite.Short,
		MidScore:   res.Composite.Mid,
		LongScore:  res.Composite.Long,

		State: string(res.State),
	}
	if s.DebtEquity != nil {
		de := round(*s.DebtEquity, 2)
		st.DebtEquity = &de
	}

	a := res.Audit
	st.Audit = Audit{
		Moat:   factor(a.Moat),
		Growth: factor(a.Growth),
		Balance: BalanceAudit{
			FactorAudit: factor(a.Balance),
			RawDebt:     a.RawDebt,
			RawEquity:   a.RawEquity,
		},
		Valuation: ValuationAudit{
			FactorAudit: factor(a.Valuation),
			GrahamValue: round(a.GrahamValue, 2),
			UpsidePct:   round(a.UpsidePct, 1),
		},
		Sentiment: factor(a.Sentiment),
		Warnings:  append([]string{}, a.Warnings...),
	}
	return st
}

// WriteJSON writes doc to path through a temporary file and rename, so
// readers never observe a partial document.
func WriteJSON(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}
