package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockScorer/internal/model"
	"StockScorer/internal/recorder"
)

func sampleRun() *model.RunReport {
	return &model.RunReport{
		RunID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
		Timestamp: time.Date(2025, 1, 2, 22, 0, 0, 0, time.UTC),
		Duration:  42 * time.Second,
		Results: []model.TickerResult{
			{
				Snapshot:  model.FinancialSnapshot{Ticker: "NVDA", Name: "NVIDIA Corporation", Price: 118.42, MarketCap: 2.89e12},
				Composite: model.CompositeScores{Short: 16.6, Mid: 15.7, Long: 15.4},
				Valuation: model.Valuation{GrahamValue: 113.19, UpsidePct: -4.4},
				State:     model.StateHot,
			},
			{
				Snapshot:  model.FinancialSnapshot{Ticker: "AAPL", Price: 237.59, Source: model.SourceReference},
				Composite: model.CompositeScores{Short: 12, Mid: 12.4, Long: 12.6},
				State:     model.StateCold,
				Audit: model.AuditRecord{
					Moat:     model.FactorAudit{Factor: model.FactorMoat, Input: "Market Cap: $3580.0B", Bracket: "$2T+", Score: 20},
					Warnings: []string{"Using reference data - upstream data unavailable"},
				},
			},
		},
		Failures:  []model.TickerFailure{{Ticker: "X<Y", Reason: "rate limited by provider"}},
		Succeeded: 2,
		Failed:    1,
		Requests:  1234,
	}
}

func TestFormatRunSummary(t *testing.T) {
	msg := FormatRunSummary(sampleRun(), 1)
	assert.Contains(t, msg, "2025-01-02 22:00 UTC")
	assert.Contains(t, msg, "1. <b>NVDA</b> $118.42 🔥")
	assert.NotContains(t, msg, "AAPL")
	assert.Contains(t, msg, "✅ 2 scored | ❌ 1 failed")
	assert.Contains(t, msg, "⚠️ 1 with warnings | 1,234 requests | 42s")
	assert.Contains(t, msg, "X&lt;Y")
	assert.NotContains(t, msg, "aborted")

	rep := sampleRun()
	rep.Aborted = true
	assert.Contains(t, FormatRunSummary(rep, 5), "Run aborted")
}

func TestFormatTop(t *testing.T) {
	assert.Contains(t, FormatTop(nil, 5), "No results yet")
	msg := FormatTop(sampleRun(), 5)
	assert.Contains(t, msg, "Top 2 by Mid score")
	assert.Contains(t, msg, "2. <b>AAPL</b> $237.59 ❄️ (ref)")
	assert.Contains(t, msg, "M 12.4")
}

func TestFormatTicker(t *testing.T) {
	msg := FormatTicker(sampleRun().Results[1])
	assert.Contains(t, msg, "<b>Moat 20</b> · $2T+")
	assert.Contains(t, msg, "Short 12.0 | Mid 12.4 | Long 12.6")
	assert.Contains(t, msg, "Using reference data")
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)
	assert.Contains(t, FormatStatus(nil, nil, now), "No run since startup.")

	history := []recorder.RunSummary{{Timestamp: now.Add(-time.Hour), Succeeded: 9, Failed: 1, TopTicker: "NVDA", TopMid: 15.7}}
	msg := FormatStatus(sampleRun(), history, now)
	assert.Contains(t, msg, "1 hour ago")
	assert.Contains(t, msg, "(0f8fad5b)")
	assert.Contains(t, msg, "top NVDA 15.7")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("line of text\n", 500)
	out := truncate(long, maxMessageLen)
	assert.LessOrEqual(t, len(out), maxMessageLen)
	assert.True(t, strings.HasSuffix(out, "\n…"))
}

func TestTruncate_KeepsMarkupValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"closes open tag", "<b>hello world</b>", 12, "<b>h</b>\n…"},
		{"drops cut entity", "fish &amp; chips", 12, "fish \n…"},
		{"drops cut tag", `see <a href="x">link</a>`, 14, "see \n…"},
		{"keeps whole lines", "<b>one</b>\n<i>two</i>", 16, "<b>one</b>\n…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, out)
			assert.LessOrEqual(t, len(out), tt.n)
		})
	}

	long := "<b>" + strings.Repeat("x", 5000) + "</b>"
	out := truncate(long, maxMessageLen)
	assert.LessOrEqual(t, len(out), maxMessageLen)
	assert.True(t, strings.HasSuffix(out, "</b>\n…"))
}
