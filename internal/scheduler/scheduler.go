// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler creates a scheduler whose specs include a seconds field.
// Each run gets its own context bounded by timeout.
func NewScheduler(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
	}
}

// Add registers job under name on spec, e.g. "0 30 3 * * *".
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	logrus.WithFields(logrus.Fields{"job": name, "spec": spec}).Info("cron job scheduled")
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx = logging.WithRequestID(ctx, "cron-"+name)

	log := logging.NewLogger(ctx).With("job", name)
	start := time.Now()
	if err := job(ctx); err != nil {
		log.LogError("cron", err)
		return
	}
	log.LogInfof("cron", "completed in %s", time.Since(start))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
