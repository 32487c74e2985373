package models

import (
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutRateModel is the persistence model for one rate table row.
// (house_id, service_code_id, staff_id) is unique.
type PayoutRateModel struct {
	RecordModel
	HouseID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payout_rates_triple,priority:1"`
	ServiceCodeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payout_rates_triple,priority:2"`
	StaffID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payout_rates_triple,priority:3;index"`
	Percentage    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (PayoutRateModel) TableName() string {
	return "payout_rates"
}

// ToDomain converts the persistence model to a domain PayoutRate.
func (m *PayoutRateModel) ToDomain() *finance.PayoutRate {
	return &finance.PayoutRate{
		BaseEntity:    m.RecordModel.ToEntity(),
		HouseID:       m.HouseID,
		ServiceCodeID: m.ServiceCodeID,
		StaffID:       m.StaffID,
		Percentage:    m.Percentage,
	}
}

// PayoutRateModelFromDomain creates a persistence model from a domain PayoutRate.
func PayoutRateModelFromDomain(r *finance.PayoutRate) *PayoutRateModel {
	m := &PayoutRateModel{
		HouseID:       r.HouseID,
		ServiceCodeID: r.ServiceCodeID,
		StaffID:       r.StaffID,
		Percentage:    r.Percentage,
	}
	m.FromEntity(r.BaseEntity)
	return m
}

// RevenueEntryModel is the persistence model for the RevenueEntry aggregate root.
type RevenueEntryModel struct {
	VersionedModel
	Date          time.Time             `gorm:"type:date;not null;index"`
	CheckDate     *time.Time            `gorm:"type:date;index"`
	CheckNumber   string                `gorm:"type:varchar(100);index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PatientID     *uuid.UUID            `gorm:"type:uuid;index"`
	HouseID       uuid.UUID             `gorm:"type:uuid;not null;index:idx_revenue_entries_pair,priority:1"`
	ServiceCodeID uuid.UUID             `gorm:"type:uuid;not null;index:idx_revenue_entries_pair,priority:2"`
	Notes         string                `gorm:"type:text"`
	Status        finance.RevenueStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	// PayoutsVersion is written only by the recompute command
	PayoutsVersion int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RevenueEntryModel) TableName() string {
	return "revenue_entries"
}

// ToDomain converts the persistence model to a domain RevenueEntry.
func (m *RevenueEntryModel) ToDomain() *finance.RevenueEntry {
	return &finance.RevenueEntry{
		BaseAggregateRoot: m.ToAggregate(),
		Date:              m.Date,
		CheckDate:         m.CheckDate,
		CheckNumber:       m.CheckNumber,
		Amount:            m.Amount,
		PatientID:         m.PatientID,
		HouseID:           m.HouseID,
		ServiceCodeID:     m.ServiceCodeID,
		Notes:             m.Notes,
		Status:            m.Status,
		PayoutsVersion:    m.PayoutsVersion,
	}
}

// RevenueEntryModelFromDomain creates a persistence model from a domain RevenueEntry.
func RevenueEntryModelFromDomain(e *finance.RevenueEntry) *RevenueEntryModel {
	m := &RevenueEntryModel{
		Date:           e.Date,
		CheckDate:      e.CheckDate,
		CheckNumber:    e.CheckNumber,
		Amount:         e.Amount,
		PatientID:      e.PatientID,
		HouseID:        e.HouseID,
		ServiceCodeID:  e.ServiceCodeID,
		Notes:          e.Notes,
		Status:         e.Status,
		PayoutsVersion: e.PayoutsVersion,
	}
	m.FromAggregate(e.BaseAggregateRoot)
	return m
}

// PayoutModel is the persistence model for a derived payout row.
type PayoutModel struct {
	RecordModel
	RevenueEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StaffID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Percentage     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (PayoutModel) TableName() string {
	return "payouts"
}

// ToDomain converts the persistence model to a domain Payout.
func (m *PayoutModel) ToDomain() finance.Payout {
	return finance.Payout{
		BaseEntity:     m.RecordModel.ToEntity(),
		RevenueEntryID: m.RevenueEntryID,
		StaffID:        m.StaffID,
		Amount:         m.Amount,
		Percentage:     m.Percentage,
	}
}

// PayoutModelFromDomain creates a persistence model from a domain Payout.
func PayoutModelFromDomain(p finance.Payout) PayoutModel {
	m := PayoutModel{
		RevenueEntryID: p.RevenueEntryID,
		StaffID:        p.StaffID,
		Amount:         p.Amount,
		Percentage:     p.Percentage,
	}
	m.FromEntity(p.BaseEntity)
	return m
}

// CheckTrackingModel is the persistence model for the CheckTracking aggregate root.
type CheckTrackingModel struct {
	VersionedModel
	ServiceProvider string          `gorm:"type:varchar(200);not null;index"`
	CheckNumber     string          `gorm:"type:varchar(100);not null;index"`
	CheckAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CheckDate       time.Time       `gorm:"type:date;not null;index"`
	ProcessedDate   *time.Time      `gorm:"type:date"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CheckTrackingModel) TableName() string {
	return "check_tracking"
}

// ToDomain converts the persistence model to a domain CheckTracking.
func (m *CheckTrackingModel) ToDomain() *finance.CheckTracking {
	return &finance.CheckTracking{
		BaseAggregateRoot: m.ToAggregate(),
		ServiceProvider:   m.ServiceProvider,
		CheckNumber:       m.CheckNumber,
		CheckAmount:       m.CheckAmount,
		CheckDate:         m.CheckDate,
		ProcessedDate:     m.ProcessedDate,
		Notes:             m.Notes,
	}
}

// CheckTrackingModelFromDomain creates a persistence model from a domain CheckTracking.
func CheckTrackingModelFromDomain(c *finance.CheckTracking) *CheckTrackingModel {
	m := &CheckTrackingModel{
		ServiceProvider: c.ServiceProvider,
		CheckNumber:     c.CheckNumber,
		CheckAmount:     c.CheckAmount,
		CheckDate:       c.CheckDate,
		ProcessedDate:   c.ProcessedDate,
		Notes:           c.Notes,
	}
	m.FromAggregate(c.BaseAggregateRoot)
	return m
}

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	VersionedModel
	Date        time.Time             `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Vendor      string                `gorm:"type:varchar(200);not null"`
	Category    string                `gorm:"type:varchar(100);index"`
	Description string                `gorm:"type:text"`
	Status      finance.ExpenseStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAt      *time.Time            `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense.
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseAggregateRoot: m.ToAggregate(),
		Date:              m.Date,
		Amount:            m.Amount,
		Vendor:            m.Vendor,
		Category:          m.Category,
		Description:       m.Description,
		Status:            m.Status,
		PaidAt:            m.PaidAt,
	}
}

// ExpenseModelFromDomain creates a persistence model from a domain Expense.
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		Date:        e.Date,
		Amount:      e.Amount,
		Vendor:      e.Vendor,
		Category:    e.Category,
		Description: e.Description,
		Status:      e.Status,
		PaidAt:      e.PaidAt,
	}
	m.FromAggregate(e.BaseAggregateRoot)
	return m
}

// PayoutRecomputeJobModel is the persistence model for a durable recompute command.
type PayoutRecomputeJobModel struct {
	ID             uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	RevenueEntryID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Reason         string                     `gorm:"type:varchar(50);not null"`
	Status         finance.RecomputeJobStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_recompute_jobs_status_retry,priority:1"`
	RetryCount     int                        `gorm:"not null;default:0"`
	MaxRetries     int                        `gorm:"not null;default:5"`
	LastError      string                     `gorm:"type:text"`
	NextRetryAt    *time.Time                 `gorm:"index:idx_recompute_jobs_status_retry,priority:2"`
	CompletedAt    *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayoutRecomputeJobModel) TableName() string {
	return "payout_recompute_jobs"
}

// ToDomain converts the persistence model to a domain PayoutRecomputeJob.
func (m *PayoutRecomputeJobModel) ToDomain() *finance.PayoutRecomputeJob {
	return &finance.PayoutRecomputeJob{
		ID:             m.ID,
		RevenueEntryID: m.RevenueEntryID,
		Reason:         m.Reason,
		Status:         m.Status,
		RetryCount:     m.RetryCount,
		MaxRetries:     m.MaxRetries,
		LastError:      m.LastError,
		NextRetryAt:    m.NextRetryAt,
		CompletedAt:    m.CompletedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// PayoutRecomputeJobModelFromDomain creates a persistence model from a domain job.
func PayoutRecomputeJobModelFromDomain(j *finance.PayoutRecomputeJob) *PayoutRecomputeJobModel {
	return &PayoutRecomputeJobModel{
		ID:             j.ID,
		RevenueEntryID: j.RevenueEntryID,
		Reason:         j.Reason,
		Status:         j.Status,
		RetryCount:     j.RetryCount,
		MaxRetries:     j.MaxRetries,
		LastError:      j.LastError,
		NextRetryAt:    j.NextRetryAt,
		CompletedAt:    j.CompletedAt,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// AllModels lists every model for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&HouseModel{},
		&ServiceCodeModel{},
		&StaffModel{},
		&PatientModel{},
		&PayoutRateModel{},
		&RevenueEntryModel{},
		&PayoutModel{},
		&CheckTrackingModel{},
		&ExpenseModel{},
		&PayoutRecomputeJobModel{},
	}
}
