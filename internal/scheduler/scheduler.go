// Package scheduler drives the proactive reminder loop: a cron tick once per
// minute asks the secretary for due records and forwards each line to a
// notifier. Matching stays pure in the stores; this package owns the
// once-per-minute cadence the minute-equality predicate is designed for.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tarius/internal/logging"
)

// DefaultSchedule fires at the top of every minute.
const DefaultSchedule = "* * * * *"

// DueSource produces notification lines for records due at now.
type DueSource interface {
	PollDue(now time.Time) []string
}

// Notifier delivers one reminder line to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NopNotifier discards reminders. Used in tests and when proactive reminders
// are disabled.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) error { return nil }

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, message string) error

func (f NotifierFunc) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

// Config holds scheduler configuration.
type Config struct {
	Enabled  bool
	Schedule string // cron expression; DefaultSchedule when empty
}

// Scheduler runs the due-reminder tick on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	source   DueSource
	notifier Notifier
	config   Config
	logger   logging.Logger
	now      func() time.Time

	mu       sync.Mutex
	entryID  cron.EntryID
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a Scheduler polling source and delivering through notifier.
func New(cfg Config, source DueSource, notifier Notifier, logger logging.Logger) *Scheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		source:   source,
		notifier: notifier,
		config:   cfg,
		logger:   logging.OrNop(logger),
		now:      time.Now,
		stopped:  make(chan struct{}),
	}
}

// WithClock overrides the wall clock passed to PollDue.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start registers the tick and starts cron. Disabled schedulers return
// immediately. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Reminder scheduler disabled by config")
		return nil
	}

	s.mu.Lock()
	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.tick(ctx)
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.entryID = entryID
	s.cron.Start()
	s.mu.Unlock()

	s.logger.Info("Reminder scheduler started (schedule=%s)", s.config.Schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Reminder scheduler stopping...")
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		close(s.stopped)
		s.logger.Info("Reminder scheduler stopped")
	})
}

// Done returns a channel closed once the scheduler has fully stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.stopped
}

// Tick runs one due scan immediately. The cron entry calls this every
// minute; tests call it directly.
func (s *Scheduler) Tick(ctx context.Context) {
	s.tick(ctx)
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	lines := s.source.PollDue(now)
	if len(lines) == 0 {
		return
	}

	s.logger.Debug("Due scan at %s surfaced %d record(s)", now.Format("15:04"), len(lines))
	for _, line := range lines {
		if err := s.notifier.Notify(ctx, line); err != nil {
			s.logger.Warn("Failed to deliver reminder %q: %v", line, err)
		}
	}
}
