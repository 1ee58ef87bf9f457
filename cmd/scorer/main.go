package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockScorer/internal/collector"
	"StockScorer/internal/config"
	"StockScorer/internal/metrics"
	"StockScorer/internal/recorder"
	"StockScorer/internal/reference"
	"StockScorer/internal/runner"
)

var (
	configPath string
	offline    bool
)

var rootCmd = &cobra.Command{
	Use:   "scorer",
	Short: "Multi-factor stock scoring engine",
	Long: `scorer rates a universe of equities on five fundamental factors (moat, growth,
balance sheet, valuation, sentiment), blends them into Short/Mid/Long composite
scores and keeps an audit trail explaining every number.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return nil
	},
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Score from reference data only, without calling the market data provider")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the configuration and sets the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if offline && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = "offline"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	return cfg, nil
}

// newRunner wires the provider, reference tables and metrics into a Runner.
func newRunner(cfg *config.Config, reg *metrics.Registry) (*runner.Runner, error) {
	refs, err := reference.Load(cfg.Reference.Path)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	var provider collector.MarketDataProvider
	if offline {
		provider = &collector.MockProvider{}
	} else {
		provider = collector.NewPolygonProvider(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy,
			cfg.Provider.RatePerMinute, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
	}
	log.Info().Str("provider", provider.Name()).Int("references", len(refs.References)).Msg("data source ready")

	r := runner.New(provider, refs, refs)
	r.Workers = cfg.Runner.Workers
	r.FailureThreshold = cfg.Runner.FailureThreshold
	r.Metrics = reg
	return r, nil
}

// openRecorder opens the SQLite run history, falling back to a noop recorder.
func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
