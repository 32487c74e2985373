package persistence

import (
	"context"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayoutRepository implements PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByEntry finds the payouts of one revenue entry
func (r *GormPayoutRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]finance.Payout, error) {
	var payoutModels []models.PayoutModel
	if err := r.db.WithContext(ctx).
		Where("revenue_entry_id = ?", entryID).
		Order("created_at ASC, id ASC").
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return payoutsToDomain(payoutModels), nil
}

// FindByEntries finds the payouts of the given revenue entries
func (r *GormPayoutRepository) FindByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]finance.Payout, error) {
	if len(entryIDs) == 0 {
		return []finance.Payout{}, nil
	}
	var payoutModels []models.PayoutModel
	if err := r.db.WithContext(ctx).
		Where("revenue_entry_id IN ?", entryIDs).
		Order("revenue_entry_id ASC, created_at ASC, id ASC").
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return payoutsToDomain(payoutModels), nil
}

// FindAll finds payouts matching the filter
func (r *GormPayoutRepository) FindAll(ctx context.Context, filter finance.PayoutFilter) ([]finance.Payout, error) {
	var payoutModels []models.PayoutModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PayoutModel{}), filter)
	query = applyOrder(query, filter.Filter, "payouts", PayoutSortFields, "created_at")
	if err := applyPagination(query, filter.Filter).Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return payoutsToDomain(payoutModels), nil
}

// Count counts payouts matching the filter
func (r *GormPayoutRepository) Count(ctx context.Context, filter finance.PayoutFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PayoutModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceForEntry deletes the entry's payouts and inserts the given set.
// Callers run it inside the recompute transaction.
func (r *GormPayoutRepository) ReplaceForEntry(ctx context.Context, entryID uuid.UUID, payouts []finance.Payout) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("revenue_entry_id = ?", entryID).Delete(&models.PayoutModel{}).Error; err != nil {
		return err
	}
	if len(payouts) == 0 {
		return nil
	}
	payoutModels := make([]models.PayoutModel, len(payouts))
	for i, p := range payouts {
		payoutModels[i] = models.PayoutModelFromDomain(p)
		payoutModels[i].RevenueEntryID = entryID
	}
	return db.Create(&payoutModels).Error
}

// DeleteByEntry deletes every payout of the entry
func (r *GormPayoutRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("revenue_entry_id = ?", entryID).
		Delete(&models.PayoutModel{}).Error
}

// applyFilterWithoutPagination filters by staff and by the service date of the payout's entry
func (r *GormPayoutRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.PayoutFilter) *gorm.DB {
	if filter.StaffID != nil {
		query = query.Where("payouts.staff_id = ?", *filter.StaffID)
	}
	if filter.From != nil || filter.To != nil {
		query = query.Joins("JOIN revenue_entries ON revenue_entries.id = payouts.revenue_entry_id")
		if filter.From != nil {
			query = query.Where("revenue_entries.date >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("revenue_entries.date <= ?", *filter.To)
		}
	}
	return query
}

func payoutsToDomain(payoutModels []models.PayoutModel) []finance.Payout {
	payouts := make([]finance.Payout, len(payoutModels))
	for i, model := range payoutModels {
		payouts[i] = model.ToDomain()
	}
	return payouts
}

var _ finance.PayoutRepository = (*GormPayoutRepository)(nil)
