package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"StockScorer/internal/model"
	"StockScorer/internal/recorder"
	"StockScorer/internal/report"
)

// stateIcon marks activity states in chat messages.
var stateIcon = map[model.ActivityState]string{
	model.StateHot:    "🔥",
	model.StateWarm:   "🌤",
	model.StateCold:   "❄️",
	model.StateFrozen: "🧊",
}

// FormatRunSummary formats the outcome of a run with its top n tickers.
func FormatRunSummary(rep *model.RunReport, n int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StockScorer run</b> | %s\n\n", rep.Timestamp.UTC().Format("2006-01-02 15:04 UTC")))
	if rep.Aborted {
		b.WriteString("⛔️ <b>Run aborted:</b> market data provider looks unreachable\n\n")
	}
	b.WriteString(formatTop(rep.Results, n))

	warned := 0
	for _, res := range rep.Results {
		if len(res.Audit.Warnings) > 0 {
			warned++
		}
	}
	b.WriteString(fmt.Sprintf("\n✅ %d scored | ❌ %d failed", rep.Succeeded, rep.Failed))
	if rep.Skipped > 0 {
		b.WriteString(fmt.Sprintf(" | ⏭ %d skipped", rep.Skipped))
	}
	b.WriteString(fmt.Sprintf("\n⚠️ %d with warnings | %s requests | %s\n",
		warned, humanize.Comma(rep.Requests), rep.Duration.Round(time.Second)))

	for _, f := range rep.Failures {
		b.WriteString(fmt.Sprintf("  • %s: %s\n", html.EscapeString(f.Ticker), html.EscapeString(f.Reason)))
	}
	return b.String()
}

// FormatTop lists the n best tickers by Mid composite.
func FormatTop(rep *model.RunReport, n int) string {
	if rep == nil || len(rep.Results) == 0 {
		return "No results yet. Send /run to start a run."
	}
	return fmt.Sprintf("🏆 <b>Top %d by Mid score</b>\n\n%s", min(n, len(rep.Results)), formatTop(rep.Results, n))
}

func formatTop(results []model.TickerResult, n int) string {
	var b strings.Builder
	for i, res := range results {
		if i >= n {
			break
		}
		s := res.Snapshot
		ref := ""
		if s.Source == model.SourceReference {
			ref = " (ref)"
		}
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> %s %s%s\n", i+1, html.EscapeString(s.Ticker),
			report.FormatPrice(s.Price), stateIcon[res.State], ref))
		b.WriteString(fmt.Sprintf("   S %.1f | M %.1f | L %.1f | Graham %s (%+.1f%%)\n",
			res.Composite.Short, res.Composite.Mid, res.Composite.Long,
			report.FormatPrice(res.Valuation.GrahamValue), res.Valuation.UpsidePct))
	}
	return b.String()
}

// FormatTicker formats the audit trail of one ticker.
func FormatTicker(res model.TickerResult) string {
	var b strings.Builder
	s := res.Snapshot

	b.WriteString(fmt.Sprintf("🔎 <b>%s</b> %s\n", html.EscapeString(s.Ticker), html.EscapeString(s.Name)))
	b.WriteString(fmt.Sprintf("%s | cap %s | vol %s | %s %s\n\n",
		report.FormatPrice(s.Price), report.FormatMarketCap(s.MarketCap), report.FormatVolume(s.Volume),
		stateIcon[res.State], res.State))

	for _, f := range res.Audit.Factors() {
		b.WriteString(fmt.Sprintf("<b>%s %d</b> · %s\n", f.Factor, f.Score, html.EscapeString(f.Bracket)))
		b.WriteString(fmt.Sprintf("  %s\n  <i>%s</i>\n", html.EscapeString(f.Input), html.EscapeString(f.Formula)))
	}
	b.WriteString(fmt.Sprintf("\nShort %.1f | Mid %.1f | Long %.1f\n", res.Composite.Short, res.Composite.Mid, res.Composite.Long))

	if len(res.Audit.Warnings) > 0 {
		b.WriteString("\n⚠️ <b>Warnings</b>\n")
		for _, w := range res.Audit.Warnings {
			b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(w)))
		}
	}
	return b.String()
}

// FormatStatus formats the latest run and the recorded history.
func FormatStatus(last *model.RunReport, history []recorder.RunSummary, now time.Time) string {
	var b strings.Builder
	b.WriteString("📦 <b>StockScorer status</b>\n\n")
	if last == nil {
		b.WriteString("No run since startup.\n")
	} else {
		b.WriteString(fmt.Sprintf("Last run: %s (%s)\n", humanize.RelTime(last.Timestamp, now, "ago", "from now"), last.RunID[:min(8, len(last.RunID))]))
		b.WriteString(fmt.Sprintf("Scored %d, failed %d, aborted %v\n", last.Succeeded, last.Failed, last.Aborted))
	}
	if len(history) > 0 {
		b.WriteString("\n<b>History</b>\n")
		for _, h := range history {
			top := "-"
			if h.TopTicker != "" {
				top = fmt.Sprintf("%s %.1f", html.EscapeString(h.TopTicker), h.TopMid)
			}
			b.WriteString(fmt.Sprintf("  %s  ✅%d ❌%d  top %s\n", h.Timestamp.Format("01-02 15:04"), h.Succeeded, h.Failed, top))
		}
	}
	return b.String()
}
