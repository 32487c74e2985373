package finance

import (
	"context"
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PayoutRateRepository persists the rate table
type PayoutRateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PayoutRate, error)
	// FindAll returns every rate row, optionally narrowed to a house and/or service code
	FindAll(ctx context.Context, houseID, serviceCodeID *uuid.UUID) ([]PayoutRate, error)
	// FindByKeys returns the rate rows of the given (house, service code) pairs
	FindByKeys(ctx context.Context, keys []RateKey) ([]PayoutRate, error)
	// FindByKey returns the rate rows of one (house, service code) pair
	FindByKey(ctx context.Context, key RateKey) ([]PayoutRate, error)
	// Upsert inserts or updates rows by (house, service code, staff); only the percentage changes on conflict
	Upsert(ctx context.Context, rates []PayoutRate) error
}

// RevenueEntryFilter defines filtering options for revenue entry queries
type RevenueEntryFilter struct {
	shared.Filter
	From          *time.Time     // service date range start (inclusive)
	To            *time.Time     // service date range end (inclusive)
	CheckFrom     *time.Time     // check date range start (inclusive)
	CheckTo       *time.Time     // check date range end (inclusive)
	HouseID       *uuid.UUID
	ServiceCodeID *uuid.UUID
	PatientID     *uuid.UUID
	CheckNumber   *string
	Status        *RevenueStatus
}

// RevenueEntryRepository persists revenue entries
type RevenueEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RevenueEntry, error)
	// FindByIDForUpdate locks the entry row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*RevenueEntry, error)
	FindAll(ctx context.Context, filter RevenueEntryFilter) ([]RevenueEntry, error)
	Count(ctx context.Context, filter RevenueEntryFilter) (int64, error)
	// FindByCheckNumber returns entries whose check number equals checkNumber exactly
	FindByCheckNumber(ctx context.Context, checkNumber string) ([]RevenueEntry, error)
	// FindByCheckNumbers returns entries attributed to any of the given check numbers
	FindByCheckNumbers(ctx context.Context, checkNumbers []string) ([]RevenueEntry, error)
	// FindStalePayouts returns entries whose payouts lag their version and that have no open recompute job
	FindStalePayouts(ctx context.Context, limit int) ([]RevenueEntry, error)
	Save(ctx context.Context, entry *RevenueEntry) error
	// MarkPayoutsComputed records the entry version the stored payouts reflect
	MarkPayoutsComputed(ctx context.Context, id uuid.UUID, version int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PayoutFilter defines filtering options for payout queries
type PayoutFilter struct {
	shared.Filter
	StaffID *uuid.UUID
	From    *time.Time // entry service date range start (inclusive)
	To      *time.Time // entry service date range end (inclusive)
}

// PayoutRepository persists derived payout rows
type PayoutRepository interface {
	FindByEntry(ctx context.Context, entryID uuid.UUID) ([]Payout, error)
	FindByEntries(ctx context.Context, entryIDs []uuid.UUID) ([]Payout, error)
	FindAll(ctx context.Context, filter PayoutFilter) ([]Payout, error)
	Count(ctx context.Context, filter PayoutFilter) (int64, error)
	// ReplaceForEntry deletes the entry's payouts and inserts the given set
	ReplaceForEntry(ctx context.Context, entryID uuid.UUID, payouts []Payout) error
	DeleteByEntry(ctx context.Context, entryID uuid.UUID) error
}

// PayoutRecomputeJobRepository persists recompute jobs
type PayoutRecomputeJobRepository interface {
	Save(ctx context.Context, job *PayoutRecomputeJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*PayoutRecomputeJob, error)
	// FindReady returns pending jobs and failed jobs due for retry, oldest first
	FindReady(ctx context.Context, now time.Time, limit int) ([]*PayoutRecomputeJob, error)
	// Claim atomically moves a ready job to PROCESSING; false means another worker got it
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	// ReleaseStale returns PROCESSING jobs untouched since before to PENDING
	ReleaseStale(ctx context.Context, before time.Time) (int64, error)
	// HasOpenJob reports whether the entry has a pending, processing or failed job
	HasOpenJob(ctx context.Context, entryID uuid.UUID) (bool, error)
	// CancelOpenForEntry cancels every open job of the entry
	CancelOpenForEntry(ctx context.Context, entryID uuid.UUID) error
	CountByStatus(ctx context.Context) (map[RecomputeJobStatus]int64, error)
	// DeleteFinishedBefore removes completed and cancelled jobs last touched before cutoff
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CheckTrackingFilter defines filtering options for check queries
type CheckTrackingFilter struct {
	shared.Filter
	From            *time.Time
	To              *time.Time
	ServiceProvider *string
	CheckNumber     *string
}

// CheckTrackingRepository persists check records
type CheckTrackingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CheckTracking, error)
	FindAll(ctx context.Context, filter CheckTrackingFilter) ([]CheckTracking, error)
	Count(ctx context.Context, filter CheckTrackingFilter) (int64, error)
	Save(ctx context.Context, check *CheckTracking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	From     *time.Time
	To       *time.Time
	Status   *ExpenseStatus
	Category *string
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}
