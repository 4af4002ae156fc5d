package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-chat/internal/metrics"
)

// Maintainer is a store with a periodic housekeeping step. It returns the
// number of stored records.
type Maintainer interface {
	Maintain(ctx context.Context) (int, error)
}

// Scheduler periodically runs store maintenance.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     Maintainer
	interval  time.Duration
}

// New creates a new Scheduler.
func New(store Maintainer, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A non-positive interval disables maintenance.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Info().Msg("scheduler: maintenance disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs one maintenance pass.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.Maintain(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: store maintenance failed")
		return
	}
	metrics.StoredRecords.Set(float64(n))
	log.Debug().Int("records", n).Msg("scheduler: store maintenance completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
