package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/hill02252024/hk-7day-typhoon/internal/pipeline"
)

// Scheduler periodically runs the full forecast pipeline.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *pipeline.Pipeline
	interval  time.Duration
}

// New creates a Scheduler running the pipeline at the given interval.
func New(p *pipeline.Pipeline, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pipeline:  p,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 360
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running forecast pipeline")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		s.pipeline.RunAll(ctx)
		log.Println("scheduler: forecast pipeline completed")
	})
	if err != nil {
		return err
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
