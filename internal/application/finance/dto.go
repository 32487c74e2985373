package finance

import (
	"strings"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Revenue entries =====================

// CreateRevenueEntryRequest represents a request to record a revenue entry
type CreateRevenueEntryRequest struct {
	Date          string           `json:"date" binding:"required,datetime=2006-01-02"`
	CheckDate     string           `json:"check_date" binding:"omitempty,datetime=2006-01-02"`
	CheckNumber   string           `json:"check_number" binding:"max=64"`
	Amount        *decimal.Decimal `json:"amount" binding:"required,money2"`
	PatientID     *uuid.UUID       `json:"patient_id"`
	HouseID       uuid.UUID        `json:"house_id" binding:"required"`
	ServiceCodeID uuid.UUID        `json:"service_code_id" binding:"required"`
	Notes         string           `json:"notes" binding:"max=2000"`
	Status        string           `json:"status" binding:"omitempty,oneof=pending billed paid void"`
}

// UpdateRevenueEntryRequest patches a revenue entry. Omitted fields keep their value;
// an empty check_date clears it.
type UpdateRevenueEntryRequest struct {
	Date          *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	CheckDate     *string          `json:"check_date" binding:"omitempty,max=10"`
	CheckNumber   *string          `json:"check_number" binding:"omitempty,max=64"`
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty,money2"`
	PatientID     *uuid.UUID       `json:"patient_id"`
	HouseID       *uuid.UUID       `json:"house_id"`
	ServiceCodeID *uuid.UUID       `json:"service_code_id"`
	Notes         *string          `json:"notes" binding:"omitempty,max=2000"`
	Status        *string          `json:"status" binding:"omitempty,oneof=pending billed paid void"`
}

// RevenueEntryResponse represents a revenue entry in API responses
type RevenueEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Date          string          `json:"date"`
	CheckDate     *string         `json:"check_date"`
	CheckNumber   string          `json:"check_number"`
	Amount        decimal.Decimal `json:"amount"`
	PatientID     *uuid.UUID      `json:"patient_id"`
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	Notes         string          `json:"notes"`
	Status        string          `json:"status"`
	// PayoutsCurrent is false while a recompute for the latest save is still owed
	PayoutsCurrent bool      `json:"payouts_current"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RevenueEntryListFilter represents filter options for the revenue entry list
type RevenueEntryListFilter struct {
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	CheckFrom     string `form:"check_from" binding:"omitempty,datetime=2006-01-02"`
	CheckTo       string `form:"check_to" binding:"omitempty,datetime=2006-01-02"`
	HouseID       string `form:"house_id" binding:"omitempty,uuid"`
	ServiceCodeID string `form:"service_code_id" binding:"omitempty,uuid"`
	PatientID     string `form:"patient_id" binding:"omitempty,uuid"`
	CheckNumber   string `form:"check_number"`
	Status        string `form:"status" binding:"omitempty,oneof=pending billed paid void"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toRevenueEntryResponse(e *finance.RevenueEntry) RevenueEntryResponse {
	return RevenueEntryResponse{
		ID:             e.ID,
		Date:           formatDate(e.Date),
		CheckDate:      formatOptionalDate(e.CheckDate),
		CheckNumber:    e.CheckNumber,
		Amount:         e.Amount,
		PatientID:      e.PatientID,
		HouseID:        e.HouseID,
		ServiceCodeID:  e.ServiceCodeID,
		Notes:          e.Notes,
		Status:         string(e.Status),
		PayoutsCurrent: e.PayoutsCurrent(),
		Version:        e.Version,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r CreateRevenueEntryRequest) toParams() (finance.RevenueEntryParams, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return finance.RevenueEntryParams{}, err
	}
	checkDate, err := parseOptionalDate("check_date", r.CheckDate)
	if err != nil {
		return finance.RevenueEntryParams{}, err
	}
	amount := decimal.Zero
	if r.Amount != nil {
		amount = *r.Amount
	}
	return finance.RevenueEntryParams{
		Date:          date,
		CheckDate:     checkDate,
		CheckNumber:   r.CheckNumber,
		Amount:        valueobject.NewMoney(amount),
		PatientID:     r.PatientID,
		HouseID:       r.HouseID,
		ServiceCodeID: r.ServiceCodeID,
		Notes:         r.Notes,
		Status:        finance.RevenueStatus(r.Status),
	}, nil
}

// applyTo overlays the patch on the entry's current values
func (r UpdateRevenueEntryRequest) applyTo(e *finance.RevenueEntry) (finance.RevenueEntryParams, error) {
	params := finance.RevenueEntryParams{
		Date:          e.Date,
		CheckDate:     e.CheckDate,
		CheckNumber:   e.CheckNumber,
		Amount:        e.AmountMoney(),
		PatientID:     e.PatientID,
		HouseID:       e.HouseID,
		ServiceCodeID: e.ServiceCodeID,
		Notes:         e.Notes,
		Status:        e.Status,
	}
	if r.Date != nil {
		date, err := parseDate("date", *r.Date)
		if err != nil {
			return params, err
		}
		params.Date = date
	}
	if r.CheckDate != nil {
		checkDate, err := parseOptionalDate("check_date", *r.CheckDate)
		if err != nil {
			return params, err
		}
		params.CheckDate = checkDate
	}
	if r.CheckNumber != nil {
		params.CheckNumber = *r.CheckNumber
	}
	if r.Amount != nil {
		params.Amount = valueobject.NewMoney(*r.Amount)
	}
	if r.PatientID != nil {
		params.PatientID = r.PatientID
	}
	if r.HouseID != nil {
		params.HouseID = *r.HouseID
	}
	if r.ServiceCodeID != nil {
		params.ServiceCodeID = *r.ServiceCodeID
	}
	if r.Notes != nil {
		params.Notes = *r.Notes
	}
	if r.Status != nil {
		params.Status = finance.RevenueStatus(*r.Status)
	}
	return params, nil
}

// ===================== Payouts =====================

// PreviewPayoutsRequest asks for the payout split of an unsaved amount
type PreviewPayoutsRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required,money2"`
	HouseID       uuid.UUID        `json:"house_id" binding:"required"`
	ServiceCodeID uuid.UUID        `json:"service_code_id" binding:"required"`
}

// PayoutLineResponse is one staff member's share in a preview
type PayoutLineResponse struct {
	StaffID    uuid.UUID       `json:"staff_id"`
	StaffName  string          `json:"staff_name"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

// PreviewPayoutsResponse lists every staff member, including those at 0%
type PreviewPayoutsResponse struct {
	Amount      decimal.Decimal      `json:"amount"`
	Lines       []PayoutLineResponse `json:"lines"`
	Allocated   decimal.Decimal      `json:"allocated"`
	Unallocated decimal.Decimal      `json:"unallocated"`
}

// PayoutResponse represents a persisted payout
type PayoutResponse struct {
	ID             uuid.UUID       `json:"id"`
	RevenueEntryID uuid.UUID       `json:"revenue_entry_id"`
	StaffID        uuid.UUID       `json:"staff_id"`
	StaffName      string          `json:"staff_name"`
	Amount         decimal.Decimal `json:"amount"`
	Percentage     decimal.Decimal `json:"percentage"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PayoutListFilter represents filter options for the payout list
type PayoutListFilter struct {
	StaffID  string `form:"staff_id" binding:"omitempty,uuid"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

func toPayoutLineResponses(lines []finance.PayoutLine) []PayoutLineResponse {
	out := make([]PayoutLineResponse, len(lines))
	for i, l := range lines {
		out[i] = PayoutLineResponse{
			StaffID:    l.StaffID,
			StaffName:  l.StaffName,
			Percentage: l.Percentage.Decimal(),
			Amount:     l.Amount.Amount(),
		}
	}
	return out
}

func toPayoutResponses(payouts []finance.Payout, names map[uuid.UUID]string) []PayoutResponse {
	out := make([]PayoutResponse, len(payouts))
	for i, p := range payouts {
		out[i] = PayoutResponse{
			ID:             p.ID,
			RevenueEntryID: p.RevenueEntryID,
			StaffID:        p.StaffID,
			StaffName:      names[p.StaffID],
			Amount:         p.Amount,
			Percentage:     p.Percentage,
			CreatedAt:      p.CreatedAt,
		}
	}
	return out
}

// ===================== Payout rates =====================

// PayoutRateResponse represents a rate row
type PayoutRateResponse struct {
	ID            uuid.UUID       `json:"id"`
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	StaffID       uuid.UUID       `json:"staff_id"`
	Percentage    decimal.Decimal `json:"percentage"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RateListFilter narrows the rate table listing
type RateListFilter struct {
	HouseID       string `form:"house_id" binding:"omitempty,uuid"`
	ServiceCodeID string `form:"service_code_id" binding:"omitempty,uuid"`
}

// RateEditRequest sets one staff member's percentage for a (house, service code) pair
type RateEditRequest struct {
	HouseID       uuid.UUID        `json:"house_id" binding:"required"`
	ServiceCodeID uuid.UUID        `json:"service_code_id" binding:"required"`
	StaffID       uuid.UUID        `json:"staff_id" binding:"required"`
	Percentage    *decimal.Decimal `json:"percentage" binding:"required,percent2"`
}

// SaveRatesRequest is an all-or-nothing batch of rate edits
type SaveRatesRequest struct {
	Rates []RateEditRequest `json:"rates" binding:"required,min=1,dive"`
}

// UpdateRateRequest changes the percentage of an existing rate row
type UpdateRateRequest struct {
	Percentage *decimal.Decimal `json:"percentage" binding:"required,percent2"`
}

// RateKeyTotal is the post-save percentage total of one (house, service code) pair
type RateKeyTotal struct {
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	Total         decimal.Decimal `json:"total"`
}

// SaveRatesResponse returns the saved rows of every affected pair
type SaveRatesResponse struct {
	Rates  []PayoutRateResponse `json:"rates"`
	Totals []RateKeyTotal       `json:"totals"`
}

func toPayoutRateResponse(r *finance.PayoutRate) PayoutRateResponse {
	return PayoutRateResponse{
		ID:            r.ID,
		HouseID:       r.HouseID,
		ServiceCodeID: r.ServiceCodeID,
		StaffID:       r.StaffID,
		Percentage:    r.Percentage,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r RateEditRequest) toEdit() finance.RateEdit {
	pct := decimal.Zero
	if r.Percentage != nil {
		pct = *r.Percentage
	}
	return finance.RateEdit{
		HouseID:       r.HouseID,
		ServiceCodeID: r.ServiceCodeID,
		StaffID:       r.StaffID,
		Percentage:    pct,
	}
}

// ===================== Checks =====================

// CheckTrackingRequest creates or replaces a check record
type CheckTrackingRequest struct {
	ServiceProvider string           `json:"service_provider" binding:"required,max=200"`
	CheckNumber     string           `json:"check_number" binding:"required,max=64"`
	CheckAmount     *decimal.Decimal `json:"check_amount" binding:"required,money2"`
	CheckDate       string           `json:"check_date" binding:"required,datetime=2006-01-02"`
	ProcessedDate   string           `json:"processed_date" binding:"omitempty,datetime=2006-01-02"`
	Notes           string           `json:"notes" binding:"max=2000"`
}

// CheckTrackingResponse represents a check record
type CheckTrackingResponse struct {
	ID              uuid.UUID       `json:"id"`
	ServiceProvider string          `json:"service_provider"`
	CheckNumber     string          `json:"check_number"`
	CheckAmount     decimal.Decimal `json:"check_amount"`
	CheckDate       string          `json:"check_date"`
	ProcessedDate   *string         `json:"processed_date"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CheckListFilter represents filter options for the check list
type CheckListFilter struct {
	From            string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To              string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	ServiceProvider string `form:"service_provider"`
	CheckNumber     string `form:"check_number"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size" binding:"omitempty,max=100"`
}

// AuditEntryResponse is a matched revenue entry with display names resolved
type AuditEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	Date            string          `json:"date"`
	CheckDate       *string         `json:"check_date"`
	Amount          decimal.Decimal `json:"amount"`
	HouseID         uuid.UUID       `json:"house_id"`
	HouseName       string          `json:"house_name"`
	ServiceCodeID   uuid.UUID       `json:"service_code_id"`
	ServiceCodeName string          `json:"service_code_name"`
	PatientID       *uuid.UUID      `json:"patient_id"`
	PatientName     string          `json:"patient_name"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
}

// CheckAuditResponse is the reconciliation of one check
type CheckAuditResponse struct {
	Check        CheckTrackingResponse `json:"check"`
	CheckAmount  decimal.Decimal       `json:"check_amount"`
	RevenueTotal decimal.Decimal       `json:"revenue_total"`
	Difference   decimal.Decimal       `json:"difference"`
	Balanced     bool                  `json:"balanced"`
	Status       string                `json:"status"`
	Description  string                `json:"description"`
	EntryCount   int                   `json:"entry_count"`
	Entries      []AuditEntryResponse  `json:"entries,omitempty"`
}

func (r CheckTrackingRequest) toParams() (finance.CheckTrackingParams, error) {
	checkDate, err := parseDate("check_date", r.CheckDate)
	if err != nil {
		return finance.CheckTrackingParams{}, err
	}
	processed, err := parseOptionalDate("processed_date", r.ProcessedDate)
	if err != nil {
		return finance.CheckTrackingParams{}, err
	}
	amount := decimal.Zero
	if r.CheckAmount != nil {
		amount = *r.CheckAmount
	}
	return finance.CheckTrackingParams{
		ServiceProvider: r.ServiceProvider,
		CheckNumber:     r.CheckNumber,
		CheckAmount:     valueobject.NewMoney(amount),
		CheckDate:       checkDate,
		ProcessedDate:   processed,
		Notes:           r.Notes,
	}, nil
}

func toCheckTrackingResponse(c *finance.CheckTracking) CheckTrackingResponse {
	return CheckTrackingResponse{
		ID:              c.ID,
		ServiceProvider: c.ServiceProvider,
		CheckNumber:     c.CheckNumber,
		CheckAmount:     c.CheckAmount,
		CheckDate:       formatDate(c.CheckDate),
		ProcessedDate:   formatOptionalDate(c.ProcessedDate),
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toCheckAuditResponse(report finance.AuditReport) CheckAuditResponse {
	return CheckAuditResponse{
		Check:        toCheckTrackingResponse(report.Check),
		CheckAmount:  report.CheckAmount.Amount(),
		RevenueTotal: report.RevenueTotal.Amount(),
		Difference:   report.Difference.Amount(),
		Balanced:     report.Balanced,
		Status:       string(report.Status),
		Description:  report.Status.Description(),
		EntryCount:   len(report.Entries),
	}
}

// ===================== Expenses =====================

// ExpenseRequest creates or replaces an expense
type ExpenseRequest struct {
	Date        string           `json:"date" binding:"required,datetime=2006-01-02"`
	Amount      *decimal.Decimal `json:"amount" binding:"required,money2"`
	Vendor      string           `json:"vendor" binding:"required,max=200"`
	Category    string           `json:"category" binding:"required,max=100"`
	Description string           `json:"description" binding:"max=500"`
}

// MarkExpensePaidRequest records payment of an expense
type MarkExpensePaidRequest struct {
	PaidAt string `json:"paid_at" binding:"omitempty,datetime=2006-01-02"`
}

// ExpenseResponse represents an expense
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Vendor      string          `json:"vendor"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	PaidAt      *string         `json:"paid_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseListFilter represents filter options for the expense list
type ExpenseListFilter struct {
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status" binding:"omitempty,oneof=pending paid"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

func (r ExpenseRequest) toParams() (finance.ExpenseParams, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return finance.ExpenseParams{}, err
	}
	amount := decimal.Zero
	if r.Amount != nil {
		amount = *r.Amount
	}
	return finance.ExpenseParams{
		Date:        date,
		Amount:      valueobject.NewMoney(amount),
		Vendor:      r.Vendor,
		Category:    r.Category,
		Description: r.Description,
	}, nil
}

func toExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Date:        formatDate(e.Date),
		Amount:      e.Amount,
		Vendor:      e.Vendor,
		Category:    e.Category,
		Description: e.Description,
		Status:      string(e.Status),
		PaidAt:      formatOptionalDate(e.PaidAt),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ===================== Reports =====================

// DailyReportFilter selects the period and date grouping of the daily report
type DailyReportFilter struct {
	From    string `form:"from" binding:"required,datetime=2006-01-02"`
	To      string `form:"to" binding:"required,datetime=2006-01-02"`
	GroupBy string `form:"group_by" binding:"omitempty,oneof=date check_date"`
}

// DailyReportResponse is the per-day breakdown plus period totals
type DailyReportResponse struct {
	From    string                 `json:"from"`
	To      string                 `json:"to"`
	GroupBy string                 `json:"group_by"`
	Days    []finance.DailySummary `json:"days"`
	Totals  finance.DailySummary   `json:"totals"`
}

// StaffPayoutReportFilter selects the period of the staff payout report
type StaffPayoutReportFilter struct {
	From    string `form:"from" binding:"required,datetime=2006-01-02"`
	To      string `form:"to" binding:"required,datetime=2006-01-02"`
	StaffID string `form:"staff_id" binding:"omitempty,uuid"`
}

// StaffPayoutReportResponse totals payouts per staff member
type StaffPayoutReportResponse struct {
	From  string                       `json:"from"`
	To    string                       `json:"to"`
	Staff []finance.StaffPayoutSummary `json:"staff"`
	Total decimal.Decimal              `json:"total"`
}

// ===================== Helpers =====================

func formatDate(t time.Time) string {
	return t.Format(finance.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(finance.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, shared.WrapDomainError(shared.CodeValidation, field+" must be a date in YYYY-MM-DD format", err)
	}
	return t, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidation, field+" must be a valid UUID", err)
	}
	return &id, nil
}

func pageOf(page, pageSize int) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	return filter
}
