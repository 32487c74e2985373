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
	"gorm.io/gorm/clause"
)

// GormPayoutRateRepository implements PayoutRateRepository using GORM
type GormPayoutRateRepository struct {
	db *gorm.DB
}

// NewGormPayoutRateRepository creates a new GormPayoutRateRepository
func NewGormPayoutRateRepository(db *gorm.DB) *GormPayoutRateRepository {
	return &GormPayoutRateRepository{db: db}
}

// FindByID finds a rate row by its ID
func (r *GormPayoutRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.PayoutRate, error) {
	var model models.PayoutRateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds every rate row, optionally narrowed to a house and/or service code
func (r *GormPayoutRateRepository) FindAll(ctx context.Context, houseID, serviceCodeID *uuid.UUID) ([]finance.PayoutRate, error) {
	query := r.db.WithContext(ctx).Model(&models.PayoutRateModel{})
	if houseID != nil {
		query = query.Where("house_id = ?", *houseID)
	}
	if serviceCodeID != nil {
		query = query.Where("service_code_id = ?", *serviceCodeID)
	}
	return r.find(query)
}

// FindByKeys finds the rate rows of the given (house, service code) pairs
func (r *GormPayoutRateRepository) FindByKeys(ctx context.Context, keys []finance.RateKey) ([]finance.PayoutRate, error) {
	if len(keys) == 0 {
		return []finance.PayoutRate{}, nil
	}
	pairs := r.db.Where("house_id = ? AND service_code_id = ?", keys[0].HouseID, keys[0].ServiceCodeID)
	for _, key := range keys[1:] {
		pairs = pairs.Or("house_id = ? AND service_code_id = ?", key.HouseID, key.ServiceCodeID)
	}
	return r.find(r.db.WithContext(ctx).Model(&models.PayoutRateModel{}).Where(pairs))
}

// FindByKey finds the rate rows of one (house, service code) pair
func (r *GormPayoutRateRepository) FindByKey(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, error) {
	return r.find(r.db.WithContext(ctx).Model(&models.PayoutRateModel{}).
		Where("house_id = ? AND service_code_id = ?", key.HouseID, key.ServiceCodeID))
}

// Upsert inserts rows or, when the (house, service code, staff) triple exists,
// updates only its percentage
func (r *GormPayoutRateRepository) Upsert(ctx context.Context, rates []finance.PayoutRate) error {
	if len(rates) == 0 {
		return nil
	}
	now := time.Now()
	rateModels := make([]*models.PayoutRateModel, len(rates))
	for i := range rates {
		rateModels[i] = models.PayoutRateModelFromDomain(&rates[i])
		rateModels[i].UpdatedAt = now
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "house_id"}, {Name: "service_code_id"}, {Name: "staff_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percentage", "updated_at"}),
		}).
		Create(&rateModels).Error
}

func (r *GormPayoutRateRepository) find(query *gorm.DB) ([]finance.PayoutRate, error) {
	var rateModels []models.PayoutRateModel
	if err := query.Order("house_id ASC, service_code_id ASC, staff_id ASC").Find(&rateModels).Error; err != nil {
		return nil, err
	}
	rates := make([]finance.PayoutRate, len(rateModels))
	for i, model := range rateModels {
		rates[i] = *model.ToDomain()
	}
	return rates, nil
}

var _ finance.PayoutRateRepository = (*GormPayoutRateRepository)(nil)
