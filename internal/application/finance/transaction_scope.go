package finance

import (
	"context"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
)

// TransactionScope provides transactional access to the payout repositories.
// All repository operations performed inside Execute belong to one database
// transaction and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories that share one transaction.
//
// Aggregate boundary notes:
//   - RevenueEntryRepo: the RevenueEntry aggregate root. Payout rows are owned by the
//     entry but stored separately so they can be replaced as a set.
//   - PayoutRepo: replaced wholesale per entry; never edited row by row.
//   - RecomputeJobRepo: the durable recompute command queue.
//   - PayoutRateRepo / StaffRepo: read inside the recompute transaction so the rate
//     snapshot and the roster match the rows being written.
type TransactionalRepositories interface {
	RevenueEntryRepo() finance.RevenueEntryRepository
	PayoutRepo() finance.PayoutRepository
	RecomputeJobRepo() finance.PayoutRecomputeJobRepository
	PayoutRateRepo() finance.PayoutRateRepository
	StaffRepo() directory.StaffRepository
}

// NoOpTransactionScope hands out the plain repositories without opening a transaction.
// Useful for tests or stores without transaction support.
type NoOpTransactionScope struct {
	entryRepo  finance.RevenueEntryRepository
	payoutRepo finance.PayoutRepository
	jobRepo    finance.PayoutRecomputeJobRepository
	rateRepo   finance.PayoutRateRepository
	staffRepo  directory.StaffRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	entryRepo finance.RevenueEntryRepository,
	payoutRepo finance.PayoutRepository,
	jobRepo finance.PayoutRecomputeJobRepository,
	rateRepo finance.PayoutRateRepository,
	staffRepo directory.StaffRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		entryRepo:  entryRepo,
		payoutRepo: payoutRepo,
		jobRepo:    jobRepo,
		rateRepo:   rateRepo,
		staffRepo:  staffRepo,
	}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) RevenueEntryRepo() finance.RevenueEntryRepository {
	return s.entryRepo
}

func (s *NoOpTransactionScope) PayoutRepo() finance.PayoutRepository {
	return s.payoutRepo
}

func (s *NoOpTransactionScope) RecomputeJobRepo() finance.PayoutRecomputeJobRepository {
	return s.jobRepo
}

func (s *NoOpTransactionScope) PayoutRateRepo() finance.PayoutRateRepository {
	return s.rateRepo
}

func (s *NoOpTransactionScope) StaffRepo() directory.StaffRepository {
	return s.staffRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
