package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/frugal-feed/internal/feed"
	"github.com/orgball2608/frugal-feed/pkg/logger"
)

type Opts struct {
	Store    feed.Store
	Logger   logger.Logger
	Interval time.Duration
	// Timeout bounds a single scheduled refresh. Defaults to Interval.
	Timeout time.Duration
	Clock   clockwork.Clock
}

// Scheduler refreshes the feed on a fixed interval.
type Scheduler struct {
	store     feed.Store
	logger    logger.Logger
	interval  time.Duration
	timeout   time.Duration
	scheduler gocron.Scheduler
}

func New(opts Opts) (*Scheduler, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", opts.Interval)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = opts.Interval
	}

	schedOpts := []gocron.SchedulerOption{}
	if opts.Clock != nil {
		schedOpts = append(schedOpts, gocron.WithClock(opts.Clock))
	}
	s, err := gocron.NewScheduler(schedOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	return &Scheduler{
		store:     opts.Store,
		logger:    opts.Logger.WithComponent("FeedScheduler"),
		interval:  opts.Interval,
		timeout:   opts.Timeout,
		scheduler: s,
	}, nil
}

// Start schedules the refresh job. The job stops once ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.logger.Info("Context cancelled, skipping scheduled refresh")
				return
			}

			refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if err := s.store.Refresh(refreshCtx); err != nil {
				s.logger.Warn("Scheduled refresh failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("feed-refresh"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	s.scheduler.Start()
	s.logger.Info("Scheduled feed refresh", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down refresh scheduler: %w", err)
	}
	return nil
}
