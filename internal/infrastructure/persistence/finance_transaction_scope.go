package persistence

import (
	"context"

	appfinance "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to fn shares the one transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories builds repositories bound to the current transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// RevenueEntryRepo returns the revenue entry repository scoped to the transaction.
func (r *gormTransactionalRepositories) RevenueEntryRepo() finance.RevenueEntryRepository {
	return NewGormRevenueEntryRepository(r.tx)
}

// PayoutRepo returns the payout repository scoped to the transaction.
func (r *gormTransactionalRepositories) PayoutRepo() finance.PayoutRepository {
	return NewGormPayoutRepository(r.tx)
}

// RecomputeJobRepo returns the recompute job repository scoped to the transaction.
func (r *gormTransactionalRepositories) RecomputeJobRepo() finance.PayoutRecomputeJobRepository {
	return NewGormPayoutRecomputeJobRepository(r.tx)
}

// PayoutRateRepo returns the rate repository scoped to the transaction.
func (r *gormTransactionalRepositories) PayoutRateRepo() finance.PayoutRateRepository {
	return NewGormPayoutRateRepository(r.tx)
}

// StaffRepo returns the staff repository scoped to the transaction.
func (r *gormTransactionalRepositories) StaffRepo() directory.StaffRepository {
	return NewGormStaffRepository(r.tx)
}

var _ appfinance.TransactionScope = (*GormTransactionScope)(nil)

var _ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
