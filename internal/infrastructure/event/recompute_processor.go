package event

import (
	"context"
	"sync"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/infrastructure/logger"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecomputeJobQueue is the part of the job repository the processor drives
type RecomputeJobQueue interface {
	FindReady(ctx context.Context, now time.Time, limit int) ([]*finance.PayoutRecomputeJob, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseStale(ctx context.Context, before time.Time) (int64, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RecomputeRunner executes one recompute job and records its outcome on the job
type RecomputeRunner interface {
	Run(ctx context.Context, job *finance.PayoutRecomputeJob) error
}

// RecomputeProcessorConfig holds configuration for the recompute processor
type RecomputeProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// StaleAfter releases PROCESSING jobs whose worker died mid-run
	StaleAfter       time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultRecomputeProcessorConfig returns default configuration
func DefaultRecomputeProcessorConfig() RecomputeProcessorConfig {
	return RecomputeProcessorConfig{
		BatchSize:        50,
		PollInterval:     5 * time.Second,
		StaleAfter:       5 * time.Minute,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// RecomputeProcessor retries payout recomputes in the background. Each poll it returns
// abandoned jobs to the queue, claims ready jobs one by one and runs them.
type RecomputeProcessor struct {
	queue  RecomputeJobQueue
	runner RecomputeRunner
	config RecomputeProcessorConfig
	logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRecomputeProcessor creates a new recompute processor
func NewRecomputeProcessor(
	queue RecomputeJobQueue,
	runner RecomputeRunner,
	config RecomputeProcessorConfig,
	log *zap.Logger,
) *RecomputeProcessor {
	defaults := DefaultRecomputeProcessorConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = defaults.StaleAfter
	}
	if config.CleanupRetention <= 0 {
		config.CleanupRetention = defaults.CleanupRetention
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RecomputeProcessor{
		queue:  queue,
		runner: runner,
		config: config,
		logger: log,
	}
}

// Start starts the background loops
func (p *RecomputeProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.cleanupLoop(ctx)
	}

	p.logger.Info("recompute processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for the job in flight to finish, or for ctx
func (p *RecomputeProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("recompute processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *RecomputeProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch runs one poll and returns the number of jobs that completed
func (p *RecomputeProcessor) ProcessBatch(ctx context.Context) int {
	now := time.Now()
	released, err := p.queue.ReleaseStale(ctx, now.Add(-p.config.StaleAfter))
	if err != nil {
		p.logger.Error("failed to release stale recompute jobs", zap.Error(err))
	} else if released > 0 {
		p.logger.Warn("released stale recompute jobs", zap.Int64("count", released))
	}

	jobs, err := p.queue.FindReady(ctx, now, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find ready recompute jobs", zap.Error(err))
		return 0
	}

	completed := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		if p.processJob(ctx, job) {
			completed++
		}
	}
	return completed
}

// processJob claims and runs one job. The runner persists the outcome itself.
func (p *RecomputeProcessor) processJob(ctx context.Context, job *finance.PayoutRecomputeJob) bool {
	claimed, err := p.queue.Claim(ctx, job.ID)
	if err != nil {
		p.logger.Error("failed to claim recompute job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return false
	}
	if !claimed {
		return false
	}
	if err := job.MarkProcessing(); err != nil {
		return false
	}

	jobCtx, jobLog := logger.WithJobID(ctx, p.logger, job.ID.String())
	jobCtx, jobLog = logger.WithEntryID(jobCtx, jobLog, job.RevenueEntryID.String())
	var runErr error
	telemetry.WithProfilingLabels(jobCtx, map[string]string{
		telemetry.ProfilingLabelOperation: "payout_recompute",
	}, func(ctx context.Context) {
		runErr = p.runner.Run(ctx, job)
	})
	if runErr != nil {
		// Already recorded on the job by the runner
		jobLog.Debug("recompute attempt failed",
			zap.String("status", string(job.Status)),
			zap.Int("retry_count", job.RetryCount),
		)
		return false
	}
	return true
}

func (p *RecomputeProcessor) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cleanup(ctx)
		}
	}
}

// Cleanup deletes finished jobs older than the retention window
func (p *RecomputeProcessor) Cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.queue.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to clean up recompute jobs", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("cleaned up finished recompute jobs",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
