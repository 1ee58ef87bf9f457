package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockScorer/internal/report"
)

var (
	runTickers    []string
	runOutput     string
	runNoRecord   bool
	runShowAudits bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score the configured universe once",
	Long: `Fetch, validate and score every ticker of the universe, print the ranked
table, write the JSON report and append the run to the history database.

Examples:
  scorer run
  scorer run --tickers NVDA,AMD --output out/data.json
  scorer run --offline --audit`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&runTickers, "tickers", nil, "Override the configured universe")
	runCmd.Flags().StringVar(&runOutput, "output", "", "JSON report path (defaults to report.json_path)")
	runCmd.Flags().BoolVar(&runNoRecord, "no-record", false, "Do not append the run to the history database")
	runCmd.Flags().BoolVar(&runShowAudits, "audit", false, "Print the audit trail of every ticker")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := newRunner(cfg, nil)
	if err != nil {
		return err
	}

	tickers := cfg.Universe.Tickers
	if len(runTickers) > 0 {
		tickers = tickers[:0:0]
		for _, t := range runTickers {
			tickers = append(tickers, strings.ToUpper(strings.TrimSpace(t)))
		}
	}

	// An interrupted run still returns the tickers finished so far; they are
	// written out before the interruption is reported.
	rep, runErr := r.Run(cmd.Context(), tickers)
	if rep == nil {
		return runErr
	}
	if runErr != nil {
		log.Warn().Err(runErr).Int("succeeded", rep.Succeeded).Msg("run interrupted, keeping partial results")
	}

	out := cmd.OutOrStdout()
	if err := report.WriteTable(out, rep); err != nil {
		return err
	}
	if runShowAudits {
		for _, res := range rep.Results {
			fmt.Fprintln(out)
			if err := report.WriteAudit(out, res); err != nil {
				return err
			}
		}
	}

	path := runOutput
	if path == "" {
		path = cfg.Report.JSONPath
	}
	if err := report.WriteJSON(path, report.Build(rep)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info().Str("path", path).Msg("report written")

	if !runNoRecord {
		rec := openRecorder(cfg.Database.SQLitePath)
		defer rec.Close()
		if err := rec.RecordRun(rep); err != nil {
			log.Error().Err(err).Msg("record run")
		}
	}

	if rep.Aborted {
		fmt.Fprintln(os.Stderr, "run aborted: market data provider looks unreachable")
	}
	return runErr
}
