package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type stubTrainer struct {
	calls atomic.Int32
}

func (s *stubTrainer) Retrain(ctx context.Context) error {
	s.calls.Add(1)
	return nil
}

type stubRefresher struct {
	calls atomic.Int32
}

func (s *stubRefresher) Refresh(ctx context.Context) error {
	s.calls.Add(1)
	return nil
}

func newTestScheduler(trainer Trainer, refresher OddsRefresher) *Scheduler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewScheduler(trainer, refresher, logger)
}

// TestScheduleJobs tests job registration
func TestScheduleJobs(t *testing.T) {
	s := newTestScheduler(&stubTrainer{}, &stubRefresher{})

	if err := s.ScheduleRetraining("0 3 * * *"); err != nil {
		t.Fatalf("expected no error scheduling retraining, got: %v", err)
	}
	if err := s.ScheduleOddsRefresh("*/15 * * * *"); err != nil {
		t.Fatalf("expected no error scheduling odds refresh, got: %v", err)
	}
	if s.JobCount() != 2 {
		t.Errorf("expected 2 jobs, got %d", s.JobCount())
	}
}

// TestScheduleInvalidCron tests rejection of malformed cron expressions
func TestScheduleInvalidCron(t *testing.T) {
	s := newTestScheduler(&stubTrainer{}, &stubRefresher{})

	if err := s.ScheduleRetraining("not a cron"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

// TestScheduleWithoutDependencies tests missing collaborators
func TestScheduleWithoutDependencies(t *testing.T) {
	s := newTestScheduler(nil, nil)

	if err := s.ScheduleRetraining("0 3 * * *"); err == nil {
		t.Error("expected error scheduling retraining without trainer")
	}
	if err := s.ScheduleOddsRefresh("*/15 * * * *"); err == nil {
		t.Error("expected error scheduling refresh without refresher")
	}
}

// TestStartWithoutJobs tests that starting an empty scheduler fails
func TestStartWithoutJobs(t *testing.T) {
	s := newTestScheduler(&stubTrainer{}, &stubRefresher{})

	if err := s.Start(); err == nil {
		t.Error("expected error starting scheduler with no jobs")
	}
}

// TestStartStopLifecycle tests the run state transitions
func TestStartStopLifecycle(t *testing.T) {
	s := newTestScheduler(&stubTrainer{}, &stubRefresher{})

	if err := s.ScheduleRetraining("0 3 * * *"); err != nil {
		t.Fatalf("failed to schedule: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("expected scheduler to be running")
	}

	// Second start must fail
	if err := s.Start(); err == nil {
		t.Error("expected error starting twice")
	}

	// Scheduling while running must fail
	if err := s.ScheduleOddsRefresh("*/15 * * * *"); err == nil {
		t.Error("expected error scheduling while running")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("failed to stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("expected scheduler to be stopped")
	}

	// Stopping again is a no-op
	if err := s.Stop(); err != nil {
		t.Errorf("expected no error stopping twice, got: %v", err)
	}
}

// TestRefreshJobRuns tests that a scheduled job actually fires
func TestRefreshJobRuns(t *testing.T) {
	refresher := &stubRefresher{}
	s := newTestScheduler(&stubTrainer{}, refresher)

	// @every is supported by robfig/cron and lets the test run fast
	if err := s.ScheduleOddsRefresh("@every 100ms"); err != nil {
		t.Fatalf("failed to schedule: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer s.Stop()

	deadline := time.After(3 * time.Second)
	for refresher.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("refresh job never fired")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
