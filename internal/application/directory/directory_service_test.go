package directory

import (
	"context"
	"testing"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockHouseRepository struct {
	mock.Mock
}

func (m *MockHouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.House), args.Error(1)
}

func (m *MockHouseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.House, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]directory.House), args.Error(1)
}

func (m *MockHouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.House, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]directory.House), args.Error(1)
}

func (m *MockHouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHouseRepository) Save(ctx context.Context, house *directory.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

type MockServiceCodeRepository struct {
	mock.Mock
}

func (m *MockServiceCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.ServiceCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.ServiceCode), args.Error(1)
}

func (m *MockServiceCodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.ServiceCode, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]directory.ServiceCode), args.Error(1)
}

func (m *MockServiceCodeRepository) FindByCode(ctx context.Context, code string) (*directory.ServiceCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.ServiceCode), args.Error(1)
}

func (m *MockServiceCodeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.ServiceCode, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]directory.ServiceCode), args.Error(1)
}

func (m *MockServiceCodeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServiceCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockServiceCodeRepository) Save(ctx context.Context, code *directory.ServiceCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.Patient, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]directory.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Patient, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]directory.Patient), args.Error(1)
}

func (m *MockPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, patient *directory.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

// =============================================================================
// Tests
// =============================================================================

func TestDirectoryService_CreateServiceCode(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate code", func(t *testing.T) {
		codes := new(MockServiceCodeRepository)
		svc := NewDirectoryService(nil, codes, nil, nil)
		codes.On("ExistsByCode", ctx, "H0038").Return(true, nil)

		_, err := svc.CreateServiceCode(ctx, CreateServiceCodeRequest{Code: " H0038 ", Description: "Peer support"})
		require.Error(t, err)
		domainErr, ok := shared.GetDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeAlreadyExists, domainErr.Code)
		codes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("saves a new code", func(t *testing.T) {
		codes := new(MockServiceCodeRepository)
		svc := NewDirectoryService(nil, codes, nil, nil)
		codes.On("ExistsByCode", ctx, "GRP").Return(false, nil)
		codes.On("Save", ctx, mock.AnythingOfType("*directory.ServiceCode")).Return(nil)

		resp, err := svc.CreateServiceCode(ctx, CreateServiceCodeRequest{Code: "GRP", Description: "Group"})
		require.NoError(t, err)
		assert.Equal(t, "GRP", resp.Code)
		assert.True(t, resp.Active)
		codes.AssertExpectations(t)
	})
}

func TestDirectoryService_UpdateServiceCode_RenameCollision(t *testing.T) {
	ctx := context.Background()
	codes := new(MockServiceCodeRepository)
	svc := NewDirectoryService(nil, codes, nil, nil)

	target, _ := directory.NewServiceCode("A", "")
	other, _ := directory.NewServiceCode("B", "")
	codes.On("FindByID", ctx, target.ID).Return(target, nil)
	codes.On("FindByCode", ctx, "B").Return(other, nil)

	_, err := svc.UpdateServiceCode(ctx, target.ID, UpdateServiceCodeRequest{Code: "B"})
	assert.Error(t, err)
	assert.Equal(t, "A", target.Code)
}

func TestDirectoryService_CreatePatient(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown house is an invalid reference", func(t *testing.T) {
		houses := new(MockHouseRepository)
		patients := new(MockPatientRepository)
		svc := NewDirectoryService(houses, nil, nil, patients)

		houseID := uuid.New()
		houses.On("FindByID", ctx, houseID).Return(nil, shared.ErrNotFound)

		_, err := svc.CreatePatient(ctx, PatientRequest{Name: "Pat", HouseID: &houseID})
		require.Error(t, err)
		domainErr, _ := shared.GetDomainError(err)
		assert.Equal(t, shared.CodeInvalidReference, domainErr.Code)
		patients.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates with explicit status", func(t *testing.T) {
		houses := new(MockHouseRepository)
		patients := new(MockPatientRepository)
		svc := NewDirectoryService(houses, nil, nil, patients)

		house, _ := directory.NewHouse("Maple", "")
		houses.On("FindByID", ctx, house.ID).Return(house, nil)
		patients.On("Save", ctx, mock.AnythingOfType("*directory.Patient")).Return(nil)

		resp, err := svc.CreatePatient(ctx, PatientRequest{Name: "Pat", HouseID: &house.ID, Status: "graduated"})
		require.NoError(t, err)
		assert.Equal(t, "graduated", resp.Status)
		assert.Equal(t, house.ID, *resp.HouseID)
	})
}

func TestDirectoryService_ListHouses(t *testing.T) {
	ctx := context.Background()
	houses := new(MockHouseRepository)
	svc := NewDirectoryService(houses, nil, nil, nil)

	h1, _ := directory.NewHouse("Maple", "")
	h2, _ := directory.NewHouse("Oak", "")
	active := true
	houses.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 5 && f.Filters["active"] == true
	})).Return([]directory.House{*h1, *h2}, nil)
	houses.On("Count", ctx, mock.Anything).Return(int64(7), nil)

	list, total, err := svc.ListHouses(ctx, ListFilter{Active: &active, Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Oak", list[1].Name)
}
