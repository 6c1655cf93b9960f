package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when stopping a scheduler that never started
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// SweepRunner runs one chargeback sweep pass
type SweepRunner interface {
	RunSweep(ctx context.Context) error
}

// SweepRunnerFunc adapts a function to the SweepRunner interface
type SweepRunnerFunc func(ctx context.Context) error

// RunSweep calls the wrapped function
func (f SweepRunnerFunc) RunSweep(ctx context.Context) error {
	return f(ctx)
}

// DailySchedule is a once-a-day run time parsed from a cron expression
type DailySchedule struct {
	Hour   int
	Minute int
}

// ParseDailySchedule parses a five-field cron expression of the form
// "M H * * *". Only daily schedules with fixed minute and hour are
// supported; anything else is rejected.
func ParseDailySchedule(expr string) (DailySchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return DailySchedule{}, fmt.Errorf("invalid cron expression %q: expected 5 fields", expr)
	}
	if fields[2] != "*" || fields[3] != "*" || fields[4] != "*" {
		return DailySchedule{}, fmt.Errorf("unsupported cron expression %q: only daily schedules are supported", expr)
	}

	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return DailySchedule{}, fmt.Errorf("invalid cron minute %q", fields[0])
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return DailySchedule{}, fmt.Errorf("invalid cron hour %q", fields[1])
	}

	return DailySchedule{Hour: hour, Minute: minute}, nil
}

// SweepSchedulerConfig holds configuration for the sweep scheduler
type SweepSchedulerConfig struct {
	Schedule DailySchedule

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultSweepSchedulerConfig returns a 3am daily schedule checked every minute
func DefaultSweepSchedulerConfig() SweepSchedulerConfig {
	return SweepSchedulerConfig{
		Schedule:      DailySchedule{Hour: 3, Minute: 0},
		CheckInterval: time.Minute,
	}
}

// SweepScheduler runs the collections chargeback sweep once a day
type SweepScheduler struct {
	config SweepSchedulerConfig
	runner SweepRunner
	logger *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewSweepScheduler creates a new sweep scheduler
func NewSweepScheduler(config SweepSchedulerConfig, runner SweepRunner, logger *zap.Logger) *SweepScheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &SweepScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the scheduler
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sweep scheduler started",
		zap.Int("hour", s.config.Schedule.Hour),
		zap.Int("minute", s.config.Schedule.Minute),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop stops the scheduler and waits for an in-flight sweep to finish
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the sweep
func (s *SweepScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun runs the sweep when the scheduled time arrives
func (s *SweepScheduler) checkAndRun(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	// Skip if we already ran today
	s.mu.Lock()
	if s.lastRunDate == currentDate {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if now.Hour() != s.config.Schedule.Hour || now.Minute() != s.config.Schedule.Minute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.logger.Info("Triggering scheduled chargeback sweep")
	if err := s.runner.RunSweep(ctx); err != nil {
		s.logger.Error("Scheduled chargeback sweep failed", zap.Error(err))
	}
}

// TriggerNow runs the sweep immediately, outside the daily schedule
func (s *SweepScheduler) TriggerNow(ctx context.Context) error {
	s.logger.Info("Triggering manual chargeback sweep")
	return s.runner.RunSweep(ctx)
}
