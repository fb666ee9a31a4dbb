// Package scheduler runs the thirsty-plant reminder check on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/logging"
)

// Scheduler runs a ReminderChecker on a six-field cron spec.
type Scheduler struct {
	cron    *cron.Cron
	checker *ReminderChecker
	spec    string
	sched   cron.Schedule
}

// NewScheduler validates spec and creates a scheduler.
func NewScheduler(checker *ReminderChecker, spec string) (*Scheduler, error) {
	sched, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).Parse(spec)
	if err != nil {
		return nil, errors.NewUserErrorWithField("schedule", spec,
			"Invalid reminder schedule: "+err.Error(),
			"Use a six-field cron spec with seconds, e.g. '0 0 9 * * *'",
		).WithCause(err)
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		checker: checker,
		spec:    spec,
		sched:   sched,
	}, nil
}

// Start schedules the check. Each run gets ctx, so cancelling it aborts
// deliveries in flight.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.checker.Check(ctx); err != nil {
			logging.ErrorContext(ctx, "reminder check failed", logging.KeyError, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}
	s.cron.Start()
	logging.Info("reminder scheduler started", "schedule", s.spec, "next", s.NextRun())
	return nil
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logging.Info("reminder scheduler stopped")
}

// RunOnce runs the check immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (*CheckResult, error) {
	return s.checker.Check(ctx)
}

// NextRun returns when the check runs next after now.
func (s *Scheduler) NextRun() time.Time {
	return s.sched.Next(time.Now())
}
