package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RecomputeJobStatus represents the status of a payout recompute job
type RecomputeJobStatus string

const (
	RecomputeJobPending    RecomputeJobStatus = "PENDING"
	RecomputeJobProcessing RecomputeJobStatus = "PROCESSING"
	RecomputeJobCompleted  RecomputeJobStatus = "COMPLETED"
	RecomputeJobFailed     RecomputeJobStatus = "FAILED"
	RecomputeJobDead       RecomputeJobStatus = "DEAD"
	RecomputeJobCancelled  RecomputeJobStatus = "CANCELLED"
)

// OpenRecomputeJobStatuses are the statuses of jobs that still owe a recompute
var OpenRecomputeJobStatuses = []RecomputeJobStatus{
	RecomputeJobPending,
	RecomputeJobProcessing,
	RecomputeJobFailed,
}

// Default retry configuration
const (
	DefaultRecomputeMaxRetries  = 5
	DefaultRecomputeBaseBackoff = 2 * time.Second
)

// Reasons a recompute job is enqueued
const (
	RecomputeReasonCreated = "entry_created"
	RecomputeReasonUpdated = "entry_updated"
	RecomputeReasonManual  = "manual"
	RecomputeReasonSweep   = "consistency_sweep"
)

// PayoutRecomputeJob is the durable "recompute payouts for entry X" command. It is
// written in the same transaction as the entry and completed in the same transaction
// as the payout replace, so a crash between the two phases leaves a job to retry.
type PayoutRecomputeJob struct {
	ID             uuid.UUID
	RevenueEntryID uuid.UUID
	Reason         string
	Status         RecomputeJobStatus
	RetryCount     int
	MaxRetries     int
	LastError      string
	NextRetryAt    *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPayoutRecomputeJob creates a pending job for the entry
func NewPayoutRecomputeJob(entryID uuid.UUID, reason string) *PayoutRecomputeJob {
	now := time.Now()
	return &PayoutRecomputeJob{
		ID:             uuid.New(),
		RevenueEntryID: entryID,
		Reason:         reason,
		Status:         RecomputeJobPending,
		MaxRetries:     DefaultRecomputeMaxRetries,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsOpen reports whether the job still owes a recompute
func (j *PayoutRecomputeJob) IsOpen() bool {
	for _, s := range OpenRecomputeJobStatuses {
		if j.Status == s {
			return true
		}
	}
	return false
}

// IsReady reports whether the processor may pick the job up now
func (j *PayoutRecomputeJob) IsReady(now time.Time) bool {
	switch j.Status {
	case RecomputeJobPending, RecomputeJobFailed:
		return j.NextRetryAt == nil || !j.NextRetryAt.After(now)
	}
	return false
}

// DeferUntil hides a pending job from the background processor until t. The request
// that enqueued the job runs it inline; the processor only takes over if that never finishes.
func (j *PayoutRecomputeJob) DeferUntil(t time.Time) {
	if j.Status != RecomputeJobPending {
		return
	}
	j.NextRetryAt = &t
	j.UpdatedAt = time.Now()
}

// MarkProcessing marks the job as claimed by a worker
func (j *PayoutRecomputeJob) MarkProcessing() error {
	if j.Status != RecomputeJobPending && j.Status != RecomputeJobFailed {
		return errors.New("can only process pending or failed recompute jobs")
	}
	j.Status = RecomputeJobProcessing
	j.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted marks the job as done
func (j *PayoutRecomputeJob) MarkCompleted() {
	now := time.Now()
	j.Status = RecomputeJobCompleted
	j.CompletedAt = &now
	j.NextRetryAt = nil
	j.LastError = ""
	j.UpdatedAt = now
}

// MarkFailed records the failure and schedules the next attempt with exponential backoff.
// After MaxRetries failures the job is dead-lettered.
func (j *PayoutRecomputeJob) MarkFailed(errMsg string, baseBackoff time.Duration) {
	if baseBackoff <= 0 {
		baseBackoff = DefaultRecomputeBaseBackoff
	}
	j.RetryCount++
	j.LastError = errMsg
	j.UpdatedAt = time.Now()

	if j.RetryCount >= j.MaxRetries {
		j.Status = RecomputeJobDead
		j.NextRetryAt = nil
		return
	}
	j.Status = RecomputeJobFailed
	backoff := baseBackoff * time.Duration(1<<uint(j.RetryCount-1))
	next := time.Now().Add(backoff)
	j.NextRetryAt = &next
}

// Cancel closes an open job whose entry no longer needs it
func (j *PayoutRecomputeJob) Cancel() {
	j.Status = RecomputeJobCancelled
	j.NextRetryAt = nil
	j.UpdatedAt = time.Now()
}

// ResetForRetry puts a dead job back in the queue
func (j *PayoutRecomputeJob) ResetForRetry() error {
	if j.Status != RecomputeJobDead {
		return errors.New("can only retry dead recompute jobs")
	}
	j.Status = RecomputeJobPending
	j.RetryCount = 0
	j.LastError = ""
	j.NextRetryAt = nil
	j.UpdatedAt = time.Now()
	return nil
}
