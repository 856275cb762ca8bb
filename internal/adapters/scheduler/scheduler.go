// Package scheduler runs the periodic maintenance jobs: the expiry sweep with
// statistics refresh, and change-log pruning.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher clears an expired alert and recomputes statistics.
type Refresher interface {
	SweepAndRefresh(ctx context.Context) error
}

// Pruner drops change-log entries older than before.
type Pruner interface {
	PruneChanges(ctx context.Context, before time.Time) (int64, error)
}

// Defaults
const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultChangeRetention = 24 * time.Hour
	PruneSpec              = "@hourly"
	jobTimeout             = time.Minute
)

// Scheduler owns a cron runner with the module's jobs registered.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	pruner    Pruner
	retention time.Duration
	now       func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPruner registers the hourly change-log pruning job.
func WithPruner(p Pruner, retention time.Duration) Option {
	return func(s *Scheduler) {
		s.pruner = p
		if retention > 0 {
			s.retention = retention
		}
	}
}

// WithClock overrides time.Now for the prune cutoff.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New registers the refresh job every interval and, when a pruner is given,
// the pruning job every hour.
// PRE: refresher != nil
func New(refresher Refresher, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		retention: DefaultChangeRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() { s.refresh(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	if s.pruner != nil {
		if _, err := s.cron.AddFunc(PruneSpec, func() { s.prune(context.Background()) }); err != nil {
			return nil, fmt.Errorf("schedule prune: %w", err)
		}
	}
	return s, nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

// Run starts the jobs and blocks until ctx is done, then waits for any
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	slog.Info("scheduler_event", "event", "started", "jobs", s.Jobs())
	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.Info("scheduler_event", "event", "stopped")
	return nil
}

func (s *Scheduler) refresh(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()
	if err := s.refresher.SweepAndRefresh(ctx); err != nil {
		slog.Error("scheduler_event", "event", "refresh_failed", "error", err)
	}
}

func (s *Scheduler) prune(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()
	cutoff := s.now().Add(-s.retention)
	n, err := s.pruner.PruneChanges(ctx, cutoff)
	if err != nil {
		slog.Error("scheduler_event", "event", "prune_failed", "error", err)
		return
	}
	slog.Debug("scheduler_event", "event", "changes_pruned", "rows", n, "before", cutoff)
}
