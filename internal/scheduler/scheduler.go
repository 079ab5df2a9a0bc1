// Package scheduler runs the periodic eviction sweep of the article cache.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper applies the cache eviction rules.
type Sweeper interface {
	Sweep(ctx context.Context) (expired, trimmed int64, err error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
	log       *slog.Logger
}

// New creates a new scheduler instance
func New(sweeper Sweeper, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		interval:  interval,
		log:       log,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(s.interval).Do(s.runSweep)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, trimmed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.log.Error("scheduled cache sweep failed", "error", err)
		return
	}
	s.log.Info("scheduled cache sweep completed", "expired", expired, "trimmed", trimmed)
}
