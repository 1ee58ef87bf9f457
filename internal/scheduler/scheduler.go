package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockScorer/internal/model"
	"StockScorer/internal/notifier"
	"StockScorer/internal/recorder"
	"StockScorer/internal/report"
	"StockScorer/internal/runner"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("a run is already in progress")

const (
	defaultTopN  = 10
	historyLimit = 5
	sendRetries  = 3
)

// Sender delivers chat messages. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the scoring batch on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Runner     *runner.Runner
	Tickers    []string
	ReportPath string
	Recorder   recorder.Recorder
	Notifier   Sender // nil disables notifications
	TopN       int
	Ctx        context.Context

	runMu sync.Mutex
	runs  sync.WaitGroup
	mu    sync.RWMutex
	last  *model.RunReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r *runner.Runner, tickers []string, reportPath string, rec recorder.Recorder, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Runner:     r,
		Tickers:    tickers,
		ReportPath: reportPath,
		Recorder:   rec,
		Notifier:   sender,
		TopN:       defaultTopN,
		Ctx:        ctx,
	}
}

// Register schedules the batch run.
func (s *Scheduler) Register(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.scheduledRun); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Wait()
	log.Info().Msg("scheduler stopped")
}

// Wait blocks until runs started by RunAsync have finished.
func (s *Scheduler) Wait() {
	s.runs.Wait()
}

// Last returns the most recent run report, nil before the first run.
func (s *Scheduler) Last() *model.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Scheduler) scheduledRun() {
	if _, err := s.RunNow(); err != nil {
		log.Error().Err(err).Msg("scheduled run failed")
	}
}

// RunNow executes one batch run: score the universe, write the JSON report,
// record the run and send the summary. Only one run is active at a time.
func (s *Scheduler) RunNow() (*model.RunReport, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()
	return s.run()
}

// RunAsync starts a batch run in the background and returns at once.
// A failed run is reported to the chat.
func (s *Scheduler) RunAsync() error {
	if !s.runMu.TryLock() {
		return ErrRunInProgress
	}
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		defer s.runMu.Unlock()
		if _, err := s.run(); err != nil {
			log.Error().Err(err).Msg("requested run failed")
			s.trySend("❌ Run failed: " + html.EscapeString(err.Error()))
		}
	}()
	return nil
}

func (s *Scheduler) run() (*model.RunReport, error) {
	rep, err := s.Runner.Run(s.Ctx, s.Tickers)
	if err != nil {
		return rep, err
	}

	s.mu.Lock()
	s.last = rep
	s.mu.Unlock()

	if s.ReportPath != "" {
		if err := report.WriteJSON(s.ReportPath, report.Build(rep)); err != nil {
			log.Error().Err(err).Str("path", s.ReportPath).Msg("write report")
		} else {
			log.Info().Str("path", s.ReportPath).Msg("report written")
		}
	}
	if s.Recorder != nil {
		if err := s.Recorder.RecordRun(rep); err != nil {
			log.Error().Err(err).Str("run_id", rep.RunID).Msg("record run")
		}
	}
	s.trySend(notifier.FormatRunSummary(rep, s.TopN))
	return rep, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return help
	}
	// Telegram appends @botname to commands in group chats.
	cmd, _, _ := strings.Cut(fields[0], "@")

	switch cmd {
	case "/run":
		if err := s.RunAsync(); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return fmt.Sprintf("⏳ Run started for %d tickers. The summary follows when it finishes.", len(s.Tickers))
	case "/top":
		return notifier.FormatTop(s.Last(), s.TopN)
	case "/explain":
		if len(fields) < 2 {
			return "Usage: /explain TICKER"
		}
		res, err := s.Runner.Evaluate(s.Ctx, strings.ToUpper(fields[1]))
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatTicker(res)
	case "/status":
		var history []recorder.RunSummary
		if s.Recorder != nil {
			var err error
			if history, err = s.Recorder.RecentRuns(historyLimit); err != nil {
				log.Error().Err(err).Msg("load run history")
			}
		}
		return notifier.FormatStatus(s.Last(), history, time.Now())
	default:
		return help
	}
}

const help = "Available commands:\n• /run - score the universe now\n• /top - best tickers of the last run\n• /explain TICKER - audit trail of one ticker\n• /status - recent runs"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
