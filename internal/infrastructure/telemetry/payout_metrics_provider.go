package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormRecomputeBacklogProvider implements RecomputeBacklogProvider with aggregate queries
// against the recompute job and revenue entry tables.
type GormRecomputeBacklogProvider struct {
	db *gorm.DB
}

// NewGormRecomputeBacklogProvider creates a new GormRecomputeBacklogProvider.
func NewGormRecomputeBacklogProvider(db *gorm.DB) *GormRecomputeBacklogProvider {
	return &GormRecomputeBacklogProvider{db: db}
}

// RecomputeJobCounts returns the number of recompute jobs per status.
func (p *GormRecomputeBacklogProvider) RecomputeJobCounts(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("payout_recompute_jobs").
		Select("status, COUNT(*) AS total").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// StalePayoutEntryCount returns the number of entries whose payouts trail the entry version.
func (p *GormRecomputeBacklogProvider) StalePayoutEntryCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("revenue_entries").
		Where("payouts_version < version").
		Count(&count).Error
	return count, err
}
