package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayoutRecomputeJobRepository implements PayoutRecomputeJobRepository using GORM
type GormPayoutRecomputeJobRepository struct {
	db *gorm.DB
}

// NewGormPayoutRecomputeJobRepository creates a new GormPayoutRecomputeJobRepository
func NewGormPayoutRecomputeJobRepository(db *gorm.DB) *GormPayoutRecomputeJobRepository {
	return &GormPayoutRecomputeJobRepository{db: db}
}

// Save creates or updates a job
func (r *GormPayoutRecomputeJobRepository) Save(ctx context.Context, job *finance.PayoutRecomputeJob) error {
	return r.db.WithContext(ctx).Save(models.PayoutRecomputeJobModelFromDomain(job)).Error
}

// FindByID finds a job by its ID
func (r *GormPayoutRecomputeJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.PayoutRecomputeJob, error) {
	var model models.PayoutRecomputeJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindReady finds pending jobs and failed jobs due for retry, oldest first
func (r *GormPayoutRecomputeJobRepository) FindReady(ctx context.Context, now time.Time, limit int) ([]*finance.PayoutRecomputeJob, error) {
	var jobModels []models.PayoutRecomputeJobModel
	query := r.db.WithContext(ctx).
		Where("status IN ?", []finance.RecomputeJobStatus{finance.RecomputeJobPending, finance.RecomputeJobFailed}).
		Where("(next_retry_at IS NULL OR next_retry_at <= ?)", now).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobModels).Error; err != nil {
		return nil, err
	}
	jobs := make([]*finance.PayoutRecomputeJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = jobModels[i].ToDomain()
	}
	return jobs, nil
}

// Claim moves a pending or failed job to PROCESSING. The conditional update lets
// exactly one worker win.
func (r *GormPayoutRecomputeJobRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PayoutRecomputeJobModel{}).
		Where("id = ? AND status IN ?", id, []finance.RecomputeJobStatus{finance.RecomputeJobPending, finance.RecomputeJobFailed}).
		Updates(map[string]interface{}{
			"status":     finance.RecomputeJobProcessing,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseStale returns PROCESSING jobs untouched since before to PENDING
func (r *GormPayoutRecomputeJobRepository) ReleaseStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.PayoutRecomputeJobModel{}).
		Where("status = ? AND updated_at < ?", finance.RecomputeJobProcessing, before).
		Updates(map[string]interface{}{
			"status":        finance.RecomputeJobPending,
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		})
	return result.RowsAffected, result.Error
}

// HasOpenJob reports whether the entry has a pending, processing or failed job
func (r *GormPayoutRecomputeJobRepository) HasOpenJob(ctx context.Context, entryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PayoutRecomputeJobModel{}).
		Where("revenue_entry_id = ? AND status IN ?", entryID, finance.OpenRecomputeJobStatuses).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CancelOpenForEntry cancels every open job of the entry
func (r *GormPayoutRecomputeJobRepository) CancelOpenForEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.PayoutRecomputeJobModel{}).
		Where("revenue_entry_id = ? AND status IN ?", entryID, finance.OpenRecomputeJobStatuses).
		Updates(map[string]interface{}{
			"status":        finance.RecomputeJobCancelled,
			"next_retry_at": nil,
			"updated_at":    time.Now(),
		}).Error
}

// CountByStatus returns the number of jobs per status
func (r *GormPayoutRecomputeJobRepository) CountByStatus(ctx context.Context) (map[finance.RecomputeJobStatus]int64, error) {
	type statusCount struct {
		Status finance.RecomputeJobStatus
		Count  int64
	}

	var results []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.PayoutRecomputeJobModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[finance.RecomputeJobStatus]int64, len(results))
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// DeleteFinishedBefore removes completed and cancelled jobs last touched before cutoff.
// Dead jobs stay until an operator retries them.
func (r *GormPayoutRecomputeJobRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]finance.RecomputeJobStatus{finance.RecomputeJobCompleted, finance.RecomputeJobCancelled}, cutoff).
		Delete(&models.PayoutRecomputeJobModel{})
	return result.RowsAffected, result.Error
}

var _ finance.PayoutRecomputeJobRepository = (*GormPayoutRecomputeJobRepository)(nil)
