package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockScorer/internal/metrics"
	"StockScorer/internal/notifier"
	"StockScorer/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled scoring with Telegram commands and a metrics endpoint",
	Long: `Run the scoring batch on the configured cron schedule. When a Telegram bot
token is configured, run summaries are sent to the chat and the bot answers
/run, /top, /explain TICKER and /status. Prometheus metrics are served on
metrics.listen_addr when set. Set RUN_ON_START=true to run once immediately.`,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	log.Info().Msg("StockScorer starting...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	reg := metrics.New()
	r, err := newRunner(cfg, reg)
	if err != nil {
		return err
	}

	rec := openRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	var (
		sender scheduler.Sender
		tn     *notifier.TelegramNotifier
	)
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, r, cfg.Universe.Tickers, cfg.Report.JSONPath, rec, sender)
	if err := sched.Register(cfg.Schedule.RunCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.Metrics.ListenAddr).Msg("metrics server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("metrics endpoint listening")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing a run now")
		if err := sched.RunAsync(); err != nil {
			log.Error().Err(err).Msg("startup run failed")
		}
	}

	log.Info().Str("cron", cfg.Schedule.RunCron).Int("tickers", len(cfg.Universe.Tickers)).
		Msg("StockScorer is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	return nil
}
