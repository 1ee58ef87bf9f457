package main

import (
	"strings"

	"github.com/spf13/cobra"

	"StockScorer/internal/report"
)

var explainCmd = &cobra.Command{
	Use:   "explain TICKER",
	Short: "Score one ticker and print its audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := newRunner(cfg, nil)
		if err != nil {
			return err
		}
		res, err := r.Evaluate(cmd.Context(), strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		return report.WriteAudit(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
