package directory

import (
	"context"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// HouseRepository persists houses
type HouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*House, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]House, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]House, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, house *House) error
}

// ServiceCodeRepository persists service codes
type ServiceCodeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceCode, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ServiceCode, error)
	FindByCode(ctx context.Context, code string) (*ServiceCode, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceCode, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, code *ServiceCode) error
}

// StaffRepository persists staff members
type StaffRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Staff, error)
	// FindRoster returns every staff member, active or not, ordered by name
	FindRoster(ctx context.Context) ([]Staff, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Staff, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, staff *Staff) error
}

// PatientRepository persists patients
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Patient, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Patient, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, patient *Patient) error
}
