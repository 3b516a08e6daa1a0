package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fretscout/fretscout/internal/notify"
)

// Scheduler runs the alert poll on a fixed interval.
type Scheduler struct {
	cron     *cron.Cron
	engine   *Engine
	notifier notify.Notifier
	log      *slog.Logger
}

// NewScheduler creates a Scheduler polling saved alerts every interval.
func NewScheduler(
	eng *Engine,
	n notify.Notifier,
	pollInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		engine:   eng,
		notifier: n,
		log:      log,
	}

	if _, err := c.AddFunc("@every "+pollInterval.String(), s.runPoll); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runPoll() {
	ctx := context.Background()
	s.log.Info("scheduled alert poll starting")
	if err := s.engine.PollAlerts(ctx, s.notifier); err != nil {
		s.log.Error("scheduled alert poll failed", "error", err)
	}
}
