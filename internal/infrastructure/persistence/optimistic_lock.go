package persistence

import (
	"context"

	"github.com/carehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// saveVersioned inserts an aggregate at version 1 and otherwise updates it only if the
// stored version is the one the caller loaded (version-1). Columns in omit are never
// written by an update.
func saveVersioned(ctx context.Context, db *gorm.DB, model any, version int, omit ...string) error {
	if version <= 1 {
		return db.WithContext(ctx).Create(model).Error
	}

	omitted := append([]string{"id", "created_at"}, omit...)
	result := db.WithContext(ctx).Model(model).
		Where("version = ?", version-1).
		Select("*").
		Omit(omitted...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
