package persistence

import (
	"context"
	"errors"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCheckTrackingRepository implements CheckTrackingRepository using GORM
type GormCheckTrackingRepository struct {
	db *gorm.DB
}

// NewGormCheckTrackingRepository creates a new GormCheckTrackingRepository
func NewGormCheckTrackingRepository(db *gorm.DB) *GormCheckTrackingRepository {
	return &GormCheckTrackingRepository{db: db}
}

// FindByID finds a check by its ID
func (r *GormCheckTrackingRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CheckTracking, error) {
	var model models.CheckTrackingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds checks matching the filter
func (r *GormCheckTrackingRepository) FindAll(ctx context.Context, filter finance.CheckTrackingFilter) ([]finance.CheckTracking, error) {
	var checkModels []models.CheckTrackingModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CheckTrackingModel{}), filter)
	query = applyOrder(query, filter.Filter, "check_tracking", CheckTrackingSortFields, "check_date")
	if err := applyPagination(query, filter.Filter).Find(&checkModels).Error; err != nil {
		return nil, err
	}
	checks := make([]finance.CheckTracking, len(checkModels))
	for i, model := range checkModels {
		checks[i] = *model.ToDomain()
	}
	return checks, nil
}

// Count counts checks matching the filter
func (r *GormCheckTrackingRepository) Count(ctx context.Context, filter finance.CheckTrackingFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CheckTrackingModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a check
func (r *GormCheckTrackingRepository) Save(ctx context.Context, check *finance.CheckTracking) error {
	return saveVersioned(ctx, r.db, models.CheckTrackingModelFromDomain(check), check.Version)
}

// Delete deletes a check
func (r *GormCheckTrackingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CheckTrackingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCheckTrackingRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.CheckTrackingFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(check_number) LIKE ? OR LOWER(service_provider) LIKE ? OR LOWER(notes) LIKE ?)",
			pattern, pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("check_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("check_date <= ?", *filter.To)
	}
	if filter.ServiceProvider != nil {
		query = query.Where("service_provider = ?", *filter.ServiceProvider)
	}
	if filter.CheckNumber != nil {
		query = query.Where("check_number = ?", *filter.CheckNumber)
	}
	return query
}

var _ finance.CheckTrackingRepository = (*GormCheckTrackingRepository)(nil)
