package model

// FactorAudit explains how one sub-score was reached.
type FactorAudit struct {
	Factor  string
	Input   string
	Bracket string
	Formula string
	Score   int
}

// AuditRecord is the per-ticker explanation of every sub-score plus data-quality warnings.
type AuditRecord struct {
	Moat      FactorAudit
	Growth    FactorAudit
	Balance   FactorAudit
	Valuation FactorAudit
	Sentiment FactorAudit

	// Raw values shown next to the balance and valuation brackets.
	RawDebt     float64
	RawEquity   float64
	GrahamValue float64
	UpsidePct   float64

	Warnings []string
}

// Factors returns the five factor audits in report order.
func (a AuditRecord) Factors() []FactorAudit {
	return []FactorAudit{a.Moat, a.Growth, a.Balance, a.Valuation, a.Sentiment}
}
