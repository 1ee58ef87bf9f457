package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rec := openRecorder(cfg.Database.SQLitePath)
		defer rec.Close()

		runs, err := rec.RecentRuns(historyLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tWHEN\tSCORED\tFAILED\tSKIPPED\tREQUESTS\tTOP\t")
		for _, r := range runs {
			top := "-"
			if r.TopTicker != "" {
				top = fmt.Sprintf("%s %.1f", r.TopTicker, r.TopMid)
			}
			aborted := ""
			if r.Aborted {
				aborted = " (aborted)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s%s\t\n", r.RunID[:min(8, len(r.RunID))],
				humanize.Time(r.Timestamp), r.Succeeded, r.Failed, r.Skipped,
				humanize.Comma(r.Requests), top, aborted)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to list")
}
