package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the reminder and housekeeping jobs on cron expressions
type Scheduler struct {
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler evaluating expressions in loc
func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{}))),
	}
}

// AddReminder runs svc.RunOnce on spec. Missed runs are not made up.
func (s *Scheduler) AddReminder(spec string, svc *Service) error {
	return s.AddJob("project_reminder", spec, func(ctx context.Context) error {
		_, err := svc.RunOnce(ctx)
		return err
	})
}

// AddJob registers a named job; its errors are logged
func (s *Scheduler) AddJob(name, spec string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(context.Background()); err != nil {
			logrus.WithField("job", name).WithError(err).Error("Scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// Start begins firing jobs in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.cron.Start()
	logrus.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop prevents new runs and waits for running jobs, or until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		logrus.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logrus.WithFields(pairs(keysAndValues)).Debug(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logrus.WithFields(pairs(keysAndValues)).WithError(err).Error(msg)
}

func pairs(kv []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
