package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"StockScorer/internal/model"
)

// FormatMarketCap renders a capitalization as $3.58T, $193.5B or $12.0M.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	}
	return "$" + humanize.Comma(int64(v))
}

// FormatVolume renders a share volume as 48.5M, 5.2K or a plain count.
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	}
	return humanize.Comma(int64(v))
}

// FormatPrice renders a price with thousands separators and two decimals.
func FormatPrice(v float64) string {
	return "$" + humanize.CommafWithDigits(round(v, 2), 2)
}

// WriteTable prints the ranked results of rep as an aligned table.
func WriteTable(w io.Writer, rep *model.RunReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tTICKER\tPRICE\tCAP\tM\tG\tB\tV\tS\tSHORT\tMID\tLONG\tSTATE\tSRC\t")
	for i, res := range rep.Results {
		s := res.Snapshot
		src := "live"
		if s.Source == model.SourceReference {
			src = "ref"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.1f\t%.1f\t%.1f\t%s\t%s\t\n",
			i+1, s.Ticker, FormatPrice(s.Price), FormatMarketCap(s.MarketCap),
			res.Scores.Moat, res.Scores.Growth, res.Scores.Balance, res.Scores.Valuation, res.Scores.Sentiment,
			res.Composite.Short, res.Composite.Mid, res.Composite.Long, res.State, src)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d scored, %d failed, %d skipped, %s upstream requests",
		rep.Succeeded, rep.Failed, rep.Skipped, humanize.Comma(rep.Requests))
	if rep.Aborted {
		fmt.Fprint(w, " (aborted: provider unreachable)")
	}
	fmt.Fprintln(w)
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Ticker, f.Reason)
	}
	return nil
}

// WriteAudit prints the audit trail of one result.
func WriteAudit(w io.Writer, res model.TickerResult) error {
	s := res.Snapshot
	fmt.Fprintf(w, "%s  %s  (%s)\n", s.Ticker, s.Name, s.Sector)
	fmt.Fprintf(w, "Price %s  Cap %s  Volume %s  State %s  Source %s\n\n",
		FormatPrice(s.Price), FormatMarketCap(s.MarketCap), FormatVolume(s.Volume), res.State, s.Source)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTOR\tSCORE\tINPUT\tBRACKET\tFORMULA")
	for _, f := range res.Audit.Factors() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", f.Factor, f.Score, f.Input, f.Bracket, f.Formula)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nGraham value %s, upside %.1f%%\n", FormatPrice(res.Valuation.GrahamValue), res.Valuation.UpsidePct)
	fmt.Fprintf(w, "Composite  Short %.1f  Mid %.1f  Long %.1f\n", res.Composite.Short, res.Composite.Mid, res.Composite.Long)
	if len(res.Audit.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:\n  - %s\n", strings.Join(res.Audit.Warnings, "\n  - "))
	}
	return nil
}
