package persistence

import (
	"context"
	"errors"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRevenueEntryRepository implements RevenueEntryRepository using GORM
type GormRevenueEntryRepository struct {
	db *gorm.DB
}

// NewGormRevenueEntryRepository creates a new GormRevenueEntryRepository
func NewGormRevenueEntryRepository(db *gorm.DB) *GormRevenueEntryRepository {
	return &GormRevenueEntryRepository{db: db}
}

// FindByID finds a revenue entry by its ID
func (r *GormRevenueEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.RevenueEntry, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a revenue entry and locks its row until the transaction ends
func (r *GormRevenueEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.RevenueEntry, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormRevenueEntryRepository) findOne(query *gorm.DB, id uuid.UUID) (*finance.RevenueEntry, error) {
	var model models.RevenueEntryModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds revenue entries matching the filter
func (r *GormRevenueEntryRepository) FindAll(ctx context.Context, filter finance.RevenueEntryFilter) ([]finance.RevenueEntry, error) {
	var entryModels []models.RevenueEntryModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RevenueEntryModel{}), filter)
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(entryModels), nil
}

// Count counts revenue entries matching the filter
func (r *GormRevenueEntryRepository) Count(ctx context.Context, filter finance.RevenueEntryFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.RevenueEntryModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByCheckNumber finds entries whose check number equals checkNumber exactly
func (r *GormRevenueEntryRepository) FindByCheckNumber(ctx context.Context, checkNumber string) ([]finance.RevenueEntry, error) {
	var entryModels []models.RevenueEntryModel
	if err := r.db.WithContext(ctx).
		Where("check_number = ?", checkNumber).
		Order("date ASC, id ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(entryModels), nil
}

// FindByCheckNumbers finds entries attributed to any of the given check numbers
func (r *GormRevenueEntryRepository) FindByCheckNumbers(ctx context.Context, checkNumbers []string) ([]finance.RevenueEntry, error) {
	if len(checkNumbers) == 0 {
		return []finance.RevenueEntry{}, nil
	}
	var entryModels []models.RevenueEntryModel
	if err := r.db.WithContext(ctx).
		Where("check_number IN ?", checkNumbers).
		Order("check_number ASC, date ASC, id ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(entryModels), nil
}

// FindStalePayouts finds entries whose payouts lag their version and that no open
// recompute job will repair, least recently updated first
func (r *GormRevenueEntryRepository) FindStalePayouts(ctx context.Context, limit int) ([]finance.RevenueEntry, error) {
	var entryModels []models.RevenueEntryModel
	openJobs := r.db.Model(&models.PayoutRecomputeJobModel{}).
		Select("1").
		Where("payout_recompute_jobs.revenue_entry_id = revenue_entries.id").
		Where("payout_recompute_jobs.status IN ?", finance.OpenRecomputeJobStatuses)
	query := r.db.WithContext(ctx).
		Where("payouts_version < version").
		Where("NOT EXISTS (?)", openJobs).
		Order("updated_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return entriesToDomain(entryModels), nil
}

// Save creates or updates a revenue entry. The payouts version is left to
// MarkPayoutsComputed so a save never claims payouts it did not compute.
func (r *GormRevenueEntryRepository) Save(ctx context.Context, entry *finance.RevenueEntry) error {
	model := models.RevenueEntryModelFromDomain(entry)
	return saveVersioned(ctx, r.db, model, entry.Version, "payouts_version")
}

// MarkPayoutsComputed records the entry version the stored payouts reflect
func (r *GormRevenueEntryRepository) MarkPayoutsComputed(ctx context.Context, id uuid.UUID, version int) error {
	result := r.db.WithContext(ctx).Model(&models.RevenueEntryModel{}).
		Where("id = ?", id).
		UpdateColumn("payouts_version", version)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a revenue entry
func (r *GormRevenueEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RevenueEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter conditions, sorting and pagination
func (r *GormRevenueEntryRepository) applyFilter(query *gorm.DB, filter finance.RevenueEntryFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = applyOrder(query, filter.Filter, "revenue_entries", RevenueEntrySortFields, "date")
	return applyPagination(query, filter.Filter)
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormRevenueEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.RevenueEntryFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(check_number) LIKE ? OR LOWER(notes) LIKE ?)", pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.CheckFrom != nil {
		query = query.Where("check_date >= ?", *filter.CheckFrom)
	}
	if filter.CheckTo != nil {
		query = query.Where("check_date <= ?", *filter.CheckTo)
	}
	if filter.HouseID != nil {
		query = query.Where("house_id = ?", *filter.HouseID)
	}
	if filter.ServiceCodeID != nil {
		query = query.Where("service_code_id = ?", *filter.ServiceCodeID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.CheckNumber != nil {
		query = query.Where("check_number = ?", *filter.CheckNumber)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

func entriesToDomain(entryModels []models.RevenueEntryModel) []finance.RevenueEntry {
	entries := make([]finance.RevenueEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}

var _ finance.RevenueEntryRepository = (*GormRevenueEntryRepository)(nil)
