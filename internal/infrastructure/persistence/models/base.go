package models

import (
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordModel holds the columns every table has: a UUID key and audit timestamps
type RecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *RecordModel) ToEntity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *RecordModel) FromEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// VersionedModel adds the version column of tables backing aggregates.
// Repositories use it for optimistic locking (see saveVersioned).
type VersionedModel struct {
	RecordModel
	Version int `gorm:"not null;default:1"`
}

// ToAggregate rebuilds the aggregate base. Pending events are never persisted.
func (m *VersionedModel) ToAggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.ToEntity(), Version: m.Version}
}

func (m *VersionedModel) FromAggregate(a shared.BaseAggregateRoot) {
	m.FromEntity(a.BaseEntity)
	m.Version = a.Version
}
