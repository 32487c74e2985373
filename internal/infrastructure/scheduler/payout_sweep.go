// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleEntryFinder lists revenue entries whose payouts lag the entry and that have no open job
type StaleEntryFinder interface {
	FindStalePayouts(ctx context.Context, limit int) ([]finance.RevenueEntry, error)
}

// RecomputeJobFactory builds recompute jobs with the configured retry budget
type RecomputeJobFactory interface {
	NewJob(entryID uuid.UUID, reason string) *finance.PayoutRecomputeJob
}

// RecomputeJobSaver persists new recompute jobs
type RecomputeJobSaver interface {
	Save(ctx context.Context, job *finance.PayoutRecomputeJob) error
}

// PayoutSweepConfig holds the sweep schedule
type PayoutSweepConfig struct {
	// CronSpec is a standard five-field cron expression or a descriptor such as "@daily"
	CronSpec string
	// Limit bounds the entries enqueued per run
	Limit int
	// Timeout bounds a single run
	Timeout time.Duration
}

// DefaultPayoutSweepConfig runs the sweep at 03:00 every night
func DefaultPayoutSweepConfig() PayoutSweepConfig {
	return PayoutSweepConfig{
		CronSpec: "0 3 * * *",
		Limit:    500,
		Timeout:  10 * time.Minute,
	}
}

// SweepResult summarizes one sweep run
type SweepResult struct {
	Found    int
	Enqueued int
	Failed   int
}

// PayoutConsistencySweep finds entries whose payouts are missing or stale and enqueues a
// recompute job for each. It never touches payouts itself; the recompute processor does.
type PayoutConsistencySweep struct {
	entries StaleEntryFinder
	factory RecomputeJobFactory
	jobs    RecomputeJobSaver
	config  PayoutSweepConfig
	logger  *zap.Logger

	cron    *cron.Cron
	entryID cron.EntryID
	running atomic.Bool
}

// NewPayoutConsistencySweep validates the schedule and creates the sweep
func NewPayoutConsistencySweep(
	entries StaleEntryFinder,
	factory RecomputeJobFactory,
	jobs RecomputeJobSaver,
	config PayoutSweepConfig,
	logger *zap.Logger,
) (*PayoutConsistencySweep, error) {
	defaults := DefaultPayoutSweepConfig()
	if config.CronSpec == "" {
		config.CronSpec = defaults.CronSpec
	}
	if config.Limit <= 0 {
		config.Limit = defaults.Limit
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &PayoutConsistencySweep{
		entries: entries,
		factory: factory,
		jobs:    jobs,
		config:  config,
		logger:  logger,
		cron:    cron.New(cron.WithLogger(cronLogger{logger: logger.Sugar()})),
	}
	id, err := s.cron.AddFunc(config.CronSpec, s.scheduledRun)
	if err != nil {
		return nil, fmt.Errorf("%w: cron spec %q: %v", ErrInvalidConfig, config.CronSpec, err)
	}
	s.entryID = id
	return s, nil
}

// Start begins firing on the schedule
func (s *PayoutConsistencySweep) Start() {
	s.cron.Start()
	s.logger.Info("payout consistency sweep scheduled",
		zap.String("cron_spec", s.config.CronSpec),
		zap.Time("next_run", s.NextRun()),
	)
}

// Stop stops the schedule and waits for a run in progress, or for ctx
func (s *PayoutConsistencySweep) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("payout consistency sweep stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun returns the next scheduled run, or the zero time before Start
func (s *PayoutConsistencySweep) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *PayoutConsistencySweep) scheduledRun() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepRunning) {
		s.logger.Error("payout consistency sweep failed", zap.Error(err))
	}
}

// RunOnce performs one sweep. Failing to enqueue one entry does not stop the others;
// the next run picks it up again.
func (s *PayoutConsistencySweep) RunOnce(ctx context.Context) (SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return SweepResult{}, ErrSweepRunning
	}
	defer s.running.Store(false)

	var (
		result SweepResult
		err    error
	)
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: "payout_sweep",
	}, func(ctx context.Context) {
		result, err = s.sweep(ctx)
	})
	return result, err
}

func (s *PayoutConsistencySweep) sweep(ctx context.Context) (SweepResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "consistency_sweep")
	defer span.End()

	stale, err := s.entries.FindStalePayouts(ctx, s.config.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return SweepResult{}, fmt.Errorf("find stale payouts: %w", err)
	}

	result := SweepResult{Found: len(stale)}
	for i := range stale {
		entry := &stale[i]
		job := s.factory.NewJob(entry.ID, finance.RecomputeReasonSweep)
		if err := s.jobs.Save(ctx, job); err != nil {
			result.Failed++
			s.logger.Warn("failed to enqueue recompute job",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Enqueued++
	}

	telemetry.SetAttributes(span, "found", result.Found, "enqueued", result.Enqueued)
	if result.Found > 0 {
		s.logger.Info("payout consistency sweep enqueued recomputes",
			zap.Int("found", result.Found),
			zap.Int("enqueued", result.Enqueued),
			zap.Int("failed", result.Failed),
		)
	}
	telemetry.SetOK(span)
	return result, nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
