package finance

import (
	"context"
	"time"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Finance repositories
// =============================================================================

type MockPayoutRateRepository struct {
	mock.Mock
}

func (m *MockPayoutRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.PayoutRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PayoutRate), args.Error(1)
}

func (m *MockPayoutRateRepository) FindAll(ctx context.Context, houseID, serviceCodeID *uuid.UUID) ([]finance.PayoutRate, error) {
	args := m.Called(ctx, houseID, serviceCodeID)
	return args.Get(0).([]finance.PayoutRate), args.Error(1)
}

func (m *MockPayoutRateRepository) FindByKeys(ctx context.Context, keys []finance.RateKey) ([]finance.PayoutRate, error) {
	args := m.Called(ctx, keys)
	return args.Get(0).([]finance.PayoutRate), args.Error(1)
}

func (m *MockPayoutRateRepository) FindByKey(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]finance.PayoutRate), args.Error(1)
}

func (m *MockPayoutRateRepository) Upsert(ctx context.Context, rates []finance.PayoutRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

type MockRevenueEntryRepository struct {
	mock.Mock
}

func (m *MockRevenueEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.RevenueEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.RevenueEntry), args.Error(1)
}

func (m *MockRevenueEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.RevenueEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.RevenueEntry), args.Error(1)
}

func (m *MockRevenueEntryRepository) FindAll(ctx context.Context, filter finance.RevenueEntryFilter) ([]finance.RevenueEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.RevenueEntry), args.Error(1)
}

func (m *MockRevenueEntryRepository) Count(ctx context.Context, filter finance.RevenueEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRevenueEntryRepository) FindByCheckNumber(ctx context.Context, checkNumber string) ([]finance.RevenueEntry, error) {
	args := m.Called(ctx, checkNumber)
	return args.Get(0).([]finance.RevenueEntry), args.Error(1)
}

func (m *MockRevenueEntryRepository) FindByCheckNumbers(ctx context.Context, checkNumbers []string) ([]finance.RevenueEntry, error) {
	args := m.Called(ctx, checkNumbers)
	return args.Get(0).([]finance.RevenueEntry), args.Error(1)
}

func (m *MockRevenueEntryRepository) FindStalePayouts(ctx context.Context, limit int) ([]finance.RevenueEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]finance.RevenueEntry), args.Error(1)
}

func (m *MockRevenueEntryRepository) Save(ctx context.Context, entry *finance.RevenueEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRevenueEntryRepository) MarkPayoutsComputed(ctx context.Context, id uuid.UUID, version int) error {
	args := m.Called(ctx, id, version)
	return args.Error(0)
}

func (m *MockRevenueEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]finance.Payout, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).([]finance.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]finance.Payout, error) {
	args := m.Called(ctx, entryIDs)
	return args.Get(0).([]finance.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindAll(ctx context.Context, filter finance.PayoutFilter) ([]finance.Payout, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Payout), args.Error(1)
}

func (m *MockPayoutRepository) Count(ctx context.Context, filter finance.PayoutFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) ReplaceForEntry(ctx context.Context, entryID uuid.UUID, payouts []finance.Payout) error {
	args := m.Called(ctx, entryID, payouts)
	return args.Error(0)
}

func (m *MockPayoutRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

type MockRecomputeJobRepository struct {
	mock.Mock
}

func (m *MockRecomputeJobRepository) Save(ctx context.Context, job *finance.PayoutRecomputeJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockRecomputeJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.PayoutRecomputeJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PayoutRecomputeJob), args.Error(1)
}

func (m *MockRecomputeJobRepository) FindReady(ctx context.Context, now time.Time, limit int) ([]*finance.PayoutRecomputeJob, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*finance.PayoutRecomputeJob), args.Error(1)
}

func (m *MockRecomputeJobRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecomputeJobRepository) ReleaseStale(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecomputeJobRepository) HasOpenJob(ctx context.Context, entryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecomputeJobRepository) CancelOpenForEntry(ctx context.Context, entryID uuid.UUID) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockRecomputeJobRepository) CountByStatus(ctx context.Context) (map[finance.RecomputeJobStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[finance.RecomputeJobStatus]int64), args.Error(1)
}

func (m *MockRecomputeJobRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockCheckTrackingRepository struct {
	mock.Mock
}

func (m *MockCheckTrackingRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CheckTracking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CheckTracking), args.Error(1)
}

func (m *MockCheckTrackingRepository) FindAll(ctx context.Context, filter finance.CheckTrackingFilter) ([]finance.CheckTracking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.CheckTracking), args.Error(1)
}

func (m *MockCheckTrackingRepository) Count(ctx context.Context, filter finance.CheckTrackingFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckTrackingRepository) Save(ctx context.Context, check *finance.CheckTracking) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockCheckTrackingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Directory repositories
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

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]directory.Staff, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]directory.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindRoster(ctx context.Context) ([]directory.Staff, error) {
	args := m.Called(ctx)
	return args.Get(0).([]directory.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Staff, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]directory.Staff), args.Error(1)
}

func (m *MockStaffRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStaffRepository) Save(ctx context.Context, staff *directory.Staff) error {
	args := m.Called(ctx, staff)
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
// Event publisher and cache
// =============================================================================

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockRateTableCache struct {
	mock.Mock
}

func (m *MockRateTableCache) Get(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]finance.PayoutRate), args.Bool(1), args.Error(2)
}

func (m *MockRateTableCache) Set(ctx context.Context, key finance.RateKey, rates []finance.PayoutRate) error {
	args := m.Called(ctx, key, rates)
	return args.Error(0)
}

func (m *MockRateTableCache) Invalidate(ctx context.Context, keys ...finance.RateKey) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

type fixture struct {
	entries    *MockRevenueEntryRepository
	payouts    *MockPayoutRepository
	jobs       *MockRecomputeJobRepository
	rates      *MockPayoutRateRepository
	staff      *MockStaffRepository
	houses     *MockHouseRepository
	codes      *MockServiceCodeRepository
	patients   *MockPatientRepository
	checks     *MockCheckTrackingRepository
	expenses   *MockExpenseRepository
	publisher  *MockEventPublisher
	scope      *NoOpTransactionScope
	recomputer *PayoutRecomputer
}

func newFixture() *fixture {
	f := &fixture{
		entries:   new(MockRevenueEntryRepository),
		payouts:   new(MockPayoutRepository),
		jobs:      new(MockRecomputeJobRepository),
		rates:     new(MockPayoutRateRepository),
		staff:     new(MockStaffRepository),
		houses:    new(MockHouseRepository),
		codes:     new(MockServiceCodeRepository),
		patients:  new(MockPatientRepository),
		checks:    new(MockCheckTrackingRepository),
		expenses:  new(MockExpenseRepository),
		publisher: new(MockEventPublisher),
	}
	f.scope = NewNoOpTransactionScope(f.entries, f.payouts, f.jobs, f.rates, f.staff)
	f.recomputer = NewPayoutRecomputer(f.scope, f.jobs, RecomputeConfig{MaxRetries: 3, BaseBackoff: time.Second}, nil)
	return f
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.entries.AssertExpectations(t)
	f.payouts.AssertExpectations(t)
	f.jobs.AssertExpectations(t)
	f.rates.AssertExpectations(t)
	f.staff.AssertExpectations(t)
	f.houses.AssertExpectations(t)
	f.codes.AssertExpectations(t)
	f.patients.AssertExpectations(t)
	f.checks.AssertExpectations(t)
	f.expenses.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func jobWithStatus(status finance.RecomputeJobStatus) interface{} {
	return mock.MatchedBy(func(j *finance.PayoutRecomputeJob) bool {
		return j.Status == status
	})
}

func newStaff(name string) directory.Staff {
	s, err := directory.NewStaff(name, "counselor")
	if err != nil {
		panic(err)
	}
	return *s
}

func newRate(houseID, serviceCodeID, staffID uuid.UUID, pct string) finance.PayoutRate {
	return finance.PayoutRate{
		BaseEntity:    shared.NewBaseEntity(),
		HouseID:       houseID,
		ServiceCodeID: serviceCodeID,
		StaffID:       staffID,
		Percentage:    mustDecimal(pct),
	}
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := mustDecimal(s)
	return &d
}
