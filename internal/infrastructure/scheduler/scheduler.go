package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BillingRunner is the slice of BillingUseCase the scheduler drives.
type BillingRunner interface {
	RunDueCharges(ctx context.Context) (int, error)
}

// Scheduler runs recurring billing on a fixed interval.
type Scheduler struct {
	runner   BillingRunner
	interval time.Duration
	logger   zerolog.Logger
}

// New creates a new Scheduler.
func New(runner BillingRunner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval == 0 {
		interval = time.Hour
	}

	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start runs billing immediately and then on every tick until the context
// is cancelled. Failed runs are logged and retried on the next tick; due
// charges stay due, so nothing is lost.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("billing scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("billing scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	billed, err := s.runner.RunDueCharges(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("billing run failed")
		return
	}

	if billed > 0 {
		s.logger.Info().Int("billed", billed).Msg("billing run billed charges")
	}
}
