package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weatherdash/internal/weather"
)

const jobTimeout = 30 * time.Second

// Scheduler periodically prunes idle sessions and, optionally, regenerates live ones.
type Scheduler struct {
	scheduler          *gocron.Scheduler
	service            *weather.Service
	logger             *zap.Logger
	pruneInterval      time.Duration
	regenerateInterval time.Duration
}

// New creates a new Scheduler. A regenerateInterval <= 0 disables regeneration.
func New(service *weather.Service, pruneInterval, regenerateInterval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:          s,
		service:            service,
		logger:             logger,
		pruneInterval:      pruneInterval,
		regenerateInterval: regenerateInterval,
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.pruneInterval
	if interval <= 0 {
		interval = time.Minute
	}

	if _, err := s.scheduler.Every(interval).Do(s.prune); err != nil {
		return err
	}

	if s.regenerateInterval > 0 {
		// Skip the immediate run; sessions are generated fresh on creation.
		if _, err := s.scheduler.Every(s.regenerateInterval).WaitForSchedule().Do(s.regenerate); err != nil {
			return err
		}
	} else {
		s.logger.Info("scheduler: regeneration disabled")
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.service.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduler: prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("scheduler: pruned idle sessions", zap.Int("count", n))
	}
}

func (s *Scheduler) regenerate() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.logger.Info("scheduler: running regeneration job")
	n, err := s.service.RegenerateAll(ctx)
	if err != nil {
		s.logger.Error("scheduler: regeneration failed", zap.Error(err), zap.Int("regenerated", n))
		return
	}
	s.logger.Info("scheduler: completed regeneration job", zap.Int("regenerated", n))
}
