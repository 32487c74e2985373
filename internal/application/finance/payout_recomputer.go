package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecomputeConfig tunes retries of failed recompute jobs
type RecomputeConfig struct {
	MaxRetries  int
	BaseBackoff time.Duration
	// InlineGrace is how long the background processor leaves a freshly enqueued job
	// to the request that enqueued it
	InlineGrace time.Duration
}

// DefaultRecomputeConfig returns the default retry configuration
func DefaultRecomputeConfig() RecomputeConfig {
	return RecomputeConfig{
		MaxRetries:  finance.DefaultRecomputeMaxRetries,
		BaseBackoff: finance.DefaultRecomputeBaseBackoff,
		InlineGrace: 30 * time.Second,
	}
}

// PayoutRecomputeError reports that an entry was saved but its payouts could not be
// recomputed yet. The entry write stands; a recompute job stays queued for retry.
type PayoutRecomputeError struct {
	EntryID uuid.UUID
	JobID   uuid.UUID
	Err     error
}

func (e *PayoutRecomputeError) Error() string {
	return fmt.Sprintf("payouts for revenue entry %s are pending recompute: %v", e.EntryID, e.Err)
}

func (e *PayoutRecomputeError) Unwrap() error {
	return e.Err
}

// Code returns the warning code surfaced to API clients
func (e *PayoutRecomputeError) Code() string {
	return shared.CodeRecomputePending
}

// PayoutRecomputer executes the idempotent "recompute payouts for entry X" command
type PayoutRecomputer struct {
	txScope        TransactionScope
	jobRepo        finance.PayoutRecomputeJobRepository
	config         RecomputeConfig
	eventPublisher shared.EventPublisher
	metrics        *telemetry.PayoutMetrics
	logger         *zap.Logger
}

// NewPayoutRecomputer creates a new PayoutRecomputer
func NewPayoutRecomputer(
	txScope TransactionScope,
	jobRepo finance.PayoutRecomputeJobRepository,
	config RecomputeConfig,
	logger *zap.Logger,
) *PayoutRecomputer {
	defaults := DefaultRecomputeConfig()
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.BaseBackoff <= 0 {
		config.BaseBackoff = defaults.BaseBackoff
	}
	if config.InlineGrace <= 0 {
		config.InlineGrace = defaults.InlineGrace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayoutRecomputer{
		txScope: txScope,
		jobRepo: jobRepo,
		config:  config,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher for PayoutsRecomputed events
func (r *PayoutRecomputer) SetEventPublisher(publisher shared.EventPublisher) {
	r.eventPublisher = publisher
}

// SetMetrics sets the payout metrics recorder
func (r *PayoutRecomputer) SetMetrics(m *telemetry.PayoutMetrics) {
	r.metrics = m
}

// NewJob creates a job with the configured retry budget
func (r *PayoutRecomputer) NewJob(entryID uuid.UUID, reason string) *finance.PayoutRecomputeJob {
	job := finance.NewPayoutRecomputeJob(entryID, reason)
	job.MaxRetries = r.config.MaxRetries
	return job
}

// NewInlineJob creates a job the caller runs right away. The background processor
// ignores it until the inline grace period has passed.
func (r *PayoutRecomputer) NewInlineJob(entryID uuid.UUID, reason string) *finance.PayoutRecomputeJob {
	job := r.NewJob(entryID, reason)
	job.DeferUntil(time.Now().Add(r.config.InlineGrace))
	return job
}

// Run recomputes the payouts of the job's entry. In one transaction it locks the entry,
// reads the rate rows of its (house, service code) pair and the staff roster, replaces
// the entry's payout set, stamps the entry's payouts version and completes the job.
// Running it again for the same entry state yields the same payout set. A job whose
// entry is gone completes as a no-op.
//
// On failure the job is marked failed (or dead) with backoff and the error is returned;
// nothing written by the attempt survives.
func (r *PayoutRecomputer) Run(ctx context.Context, job *finance.PayoutRecomputeJob) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "recompute")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntryID, job.RevenueEntryID.String(),
		telemetry.SpanAttrJobID, job.ID.String(),
		telemetry.SpanAttrReason, job.Reason,
	)

	done := *job
	done.MarkCompleted()

	var (
		payouts []finance.Payout
		version int
		missing bool
	)
	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.RevenueEntryRepo().FindByIDForUpdate(ctx, job.RevenueEntryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// The job row went with the entry
				missing = true
				return nil
			}
			return err
		}

		payouts, err = recomputeEntry(ctx, repos, entry)
		if err != nil {
			return err
		}
		version = entry.Version
		return repos.RecomputeJobRepo().Save(ctx, &done)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		r.fail(ctx, job, err)
		return err
	}
	*job = done

	if missing {
		r.logger.Info("revenue entry gone, recompute job completed as no-op",
			zap.String("job_id", job.ID.String()),
			zap.String("entry_id", job.RevenueEntryID.String()),
		)
		return nil
	}

	event := finance.NewPayoutsRecomputedEvent(job.RevenueEntryID, version, payouts)
	if r.metrics != nil {
		r.metrics.RecordPayoutsComputed(ctx, job.Reason, len(payouts), event.PayoutTotal)
	}
	r.logger.Debug("payouts recomputed",
		zap.String("entry_id", job.RevenueEntryID.String()),
		zap.Int("version", version),
		zap.Int("lines", len(payouts)),
		zap.String("total", event.PayoutTotal.StringFixed(2)),
	)
	if r.eventPublisher != nil {
		if err := r.eventPublisher.Publish(ctx, event); err != nil {
			r.logger.Warn("failed to publish payouts recomputed event", zap.Error(err))
		}
	}
	telemetry.SetOK(span)
	return nil
}

// fail records a failed attempt on the job outside the rolled back transaction
func (r *PayoutRecomputer) fail(ctx context.Context, job *finance.PayoutRecomputeJob, cause error) {
	job.MarkFailed(cause.Error(), r.config.BaseBackoff)
	dead := job.Status == finance.RecomputeJobDead

	fields := []zap.Field{
		zap.String("job_id", job.ID.String()),
		zap.String("entry_id", job.RevenueEntryID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(cause),
	}
	if dead {
		r.logger.Error("payout recompute dead-lettered", fields...)
	} else {
		r.logger.Warn("payout recompute failed, will retry", append(fields, zap.Timep("next_retry_at", job.NextRetryAt))...)
	}
	if r.metrics != nil {
		r.metrics.RecordRecomputeFailure(ctx, job.Reason, dead)
	}

	// The request context may be the thing that failed
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.jobRepo.Save(saveCtx, job); err != nil {
		r.logger.Error("failed to record recompute failure",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

// recomputeEntry computes and stores the payout set of a locked entry
func recomputeEntry(ctx context.Context, repos TransactionalRepositories, entry *finance.RevenueEntry) ([]finance.Payout, error) {
	key := finance.RateKey{HouseID: entry.HouseID, ServiceCodeID: entry.ServiceCodeID}
	rates, err := repos.PayoutRateRepo().FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	roster, err := repos.StaffRepo().FindRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staff roster: %w", err)
	}

	lines := finance.ComputePayouts(
		entry.AmountMoney(),
		entry.HouseID,
		entry.ServiceCodeID,
		finance.NewRateTable(rates),
		directory.Refs(roster),
	)
	payouts := finance.PayoutsFromLines(entry.ID, lines)

	if err := repos.PayoutRepo().ReplaceForEntry(ctx, entry.ID, payouts); err != nil {
		return nil, fmt.Errorf("replace payouts: %w", err)
	}
	if err := repos.RevenueEntryRepo().MarkPayoutsComputed(ctx, entry.ID, entry.Version); err != nil {
		return nil, fmt.Errorf("mark payouts computed: %w", err)
	}
	entry.PayoutsVersion = entry.Version
	return payouts, nil
}
