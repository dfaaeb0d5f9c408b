package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-queries/internal/logger"
	"github.com/i474232898/weather-queries/internal/weather"
)

// Refresher re-fetches the stored series of every query.
type Refresher interface {
	RefreshQueries(ctx context.Context) (weather.RefreshResult, error)
}

// Scheduler periodically refreshes stored queries.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. A non-positive interval disables it.
func New(interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   5 * time.Minute,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logger.Info("scheduler: refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.Infof("scheduler: refreshing stored queries every %s", s.interval)
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.refresher.RefreshQueries(ctx)
	if err != nil {
		logger.Error(err)
		return
	}

	logger.WithFields(logger.Fields{
		"refreshed":  res.Refreshed,
		"superseded": res.Superseded,
		"failed":     res.Failed,
		"took":       time.Since(started).String(),
	}).Info("scheduler: refresh completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
