package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// PayoutMetrics records payout engine activity: recomputes, failures,
// check audits, rate table saves and the recompute backlog.
type PayoutMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	payoutsComputedTotal *Counter
	payoutLinesTotal     *Counter
	payoutAmountTotal    *Counter
	recomputeFailures    *Counter
	checkAuditsTotal     *Counter
	rateSavesTotal       *Counter

	recomputeJobs      *Gauge
	stalePayoutEntries *Gauge
	backlogProvider    RecomputeBacklogProvider
	collectInterval    time.Duration

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// RecomputeBacklogProvider supplies the recompute backlog for periodic collection.
// It keeps the telemetry layer independent of the finance domain.
type RecomputeBacklogProvider interface {
	// RecomputeJobCounts returns the number of recompute jobs per status
	RecomputeJobCounts(ctx context.Context) (map[string]int64, error)
	// StalePayoutEntryCount returns the number of entries whose payouts lag their version
	StalePayoutEntryCount(ctx context.Context) (int64, error)
}

// PayoutMetricsConfig holds configuration for payout metrics.
type PayoutMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 1 minute
	BacklogProvider RecomputeBacklogProvider
}

// RateSaveOutcome labels a rate table save attempt.
type RateSaveOutcome string

const (
	RateSaveAccepted RateSaveOutcome = "accepted"
	RateSaveRejected RateSaveOutcome = "rejected"
)

// NewPayoutMetrics creates the payout instruments on cfg.Meter.
func NewPayoutMetrics(cfg PayoutMetricsConfig) (*PayoutMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PayoutMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		backlogProvider: cfg.BacklogProvider,
		collectInterval: cfg.CollectInterval,
		stopChan:        make(chan struct{}),
	}

	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&pm.payoutsComputedTotal, "carehouse_payouts_computed_total", "Completed payout recomputes", "{recomputes}"},
		{&pm.payoutLinesTotal, "carehouse_payout_lines_total", "Payout rows written by recomputes", "{payouts}"},
		{&pm.payoutAmountTotal, "carehouse_payout_amount_cents_total", "Payout amount written by recomputes, in cents", "{cents}"},
		{&pm.recomputeFailures, "carehouse_recompute_failures_total", "Failed payout recompute attempts", "{failures}"},
		{&pm.checkAuditsTotal, "carehouse_check_audits_total", "Check audits by outcome", "{audits}"},
		{&pm.rateSavesTotal, "carehouse_rate_saves_total", "Rate table save attempts", "{saves}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	pm.recomputeJobs, err = NewGauge(cfg.Meter,
		"carehouse_recompute_jobs",
		"Recompute jobs by status",
		"{jobs}",
	)
	if err != nil {
		return nil, err
	}
	pm.stalePayoutEntries, err = NewGauge(cfg.Meter,
		"carehouse_stale_payout_entries",
		"Revenue entries whose payouts lag the entry version",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordPayoutsComputed records a successful recompute that wrote lines rows totalling total.
func (pm *PayoutMetrics) RecordPayoutsComputed(ctx context.Context, reason string, lines int, total decimal.Decimal) {
	pm.payoutsComputedTotal.Inc(ctx, AttrReason.String(reason))
	pm.payoutLinesTotal.Add(ctx, int64(lines), AttrReason.String(reason))
	pm.payoutAmountTotal.Add(ctx, total.Shift(2).Round(0).IntPart(), AttrReason.String(reason))
}

// RecordRecomputeFailure records a failed attempt; dead marks a job out of retries.
func (pm *PayoutMetrics) RecordRecomputeFailure(ctx context.Context, reason string, dead bool) {
	pm.recomputeFailures.Inc(ctx, AttrReason.String(reason), AttrDead.Bool(dead))
}

// RecordAudit records one check audit result.
func (pm *PayoutMetrics) RecordAudit(ctx context.Context, status string) {
	pm.checkAuditsTotal.Inc(ctx, AttrStatus.String(status))
}

// RecordRateSave records a rate table save attempt.
func (pm *PayoutMetrics) RecordRateSave(ctx context.Context, outcome RateSaveOutcome) {
	pm.rateSavesTotal.Inc(ctx, AttrOutcome.String(string(outcome)))
}

// StartPeriodicCollection samples the recompute backlog every interval until Stop or ctx is done.
// A zero interval uses the configured CollectInterval. It is non-blocking and only starts once.
func (pm *PayoutMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	pm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = pm.collectInterval
		}
		if interval <= 0 {
			interval = time.Minute
		}
		go pm.runPeriodicCollection(ctx, interval)
	})
}

func (pm *PayoutMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pm.CollectBacklog(ctx)
	for {
		select {
		case <-pm.stopChan:
			pm.logger.Info("Stopping periodic payout metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.CollectBacklog(ctx)
		}
	}
}

// CollectBacklog records the backlog gauges once.
func (pm *PayoutMetrics) CollectBacklog(ctx context.Context) {
	if pm.backlogProvider == nil {
		return
	}

	counts, err := pm.backlogProvider.RecomputeJobCounts(ctx)
	if err != nil {
		pm.logger.Warn("Failed to count recompute jobs", zap.Error(err))
	} else {
		for status, n := range counts {
			pm.recomputeJobs.Record(ctx, n, AttrStatus.String(status))
		}
	}

	stale, err := pm.backlogProvider.StalePayoutEntryCount(ctx)
	if err != nil {
		pm.logger.Warn("Failed to count stale payout entries", zap.Error(err))
		return
	}
	pm.stalePayoutEntries.Record(ctx, stale)
}

// Stop stops the periodic collection.
func (pm *PayoutMetrics) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
}

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = &MetricsError{Op: "NewPayoutMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
