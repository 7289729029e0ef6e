package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TrendSentry/internal/model"
	"TrendSentry/internal/notifier"
	"TrendSentry/internal/recorder"
	"TrendSentry/internal/scanner"
)

// Scheduler drives scan cycles on a cron schedule and serves Telegram
// commands. A failing or panicking cycle is logged and swallowed so
// the next trigger still fires.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Ctx      context.Context

	mu   sync.Mutex
	last *model.ScanResult
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Notifier: tn,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register registers the recurring scan task.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.runCycle); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunScanNow executes a scan cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("scan cycle panicked")
		}
	}()

	res, err := s.Scanner.Run(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("scan cycle failed")
		return
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	if len(res.Findings) == 0 {
		log.Info().Int("checked", res.SymbolsChecked).Msg("no new signals")
	} else {
		header := notifier.Header(res)
		for _, block := range notifier.BuildBlocks(header, res.Findings, notifier.MaxBlockSize) {
			// Delivery failure is non-fatal; the finding is not requeued.
			if err := s.Notifier.SendWithRetry(s.Ctx, block, 3); err != nil {
				log.Error().Err(err).Msg("send notification")
			}
		}
		log.Info().Int("findings", len(res.Findings)).Msg("alerts sent")
	}

	if err := s.Recorder.RecordScan(res); err != nil {
		log.Error().Err(err).Msg("record scan")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		go s.runCycle()
		return "Scan started."
	case "/status":
		s.mu.Lock()
		last := s.last
		s.mu.Unlock()
		if last == nil {
			return "No scan has completed yet."
		}
		return fmt.Sprintf("Last scan: %s (%s, %s)\nSymbols checked: %d\nFindings: %d",
			last.FinishedAt.UTC().Format("2006-01-02 15:04 UTC"),
			last.Interval, last.Mode, last.SymbolsChecked, len(last.Findings))
	default:
		return "Available commands:\n• /scan — run a scan now\n• /status — show the last scan summary"
	}
}
