package finance

import (
	"context"
	"time"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportService aggregates revenue, payouts and expenses over a date range
type ReportService struct {
	entryRepo   finance.RevenueEntryRepository
	payoutRepo  finance.PayoutRepository
	expenseRepo finance.ExpenseRepository
	staffRepo   directory.StaffRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	entryRepo finance.RevenueEntryRepository,
	payoutRepo finance.PayoutRepository,
	expenseRepo finance.ExpenseRepository,
	staffRepo directory.StaffRepository,
) *ReportService {
	return &ReportService{
		entryRepo:   entryRepo,
		payoutRepo:  payoutRepo,
		expenseRepo: expenseRepo,
		staffRepo:   staffRepo,
	}
}

// unpaged lists every matching row
func unpaged(orderBy string) shared.Filter {
	filter := shared.DefaultFilter()
	filter.PageSize = 0
	filter.OrderBy = orderBy
	filter.OrderDir = "asc"
	return filter
}

// timeRange is an inclusive range of days
type timeRange struct {
	from time.Time
	to   time.Time
}

func parseRange(from, to string) (*timeRange, error) {
	start, err := parseDate("from", from)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("to", to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, shared.NewDomainError(shared.CodeValidation, "to must not be before from")
	}
	return &timeRange{from: start, to: end}, nil
}

// Daily breaks the period down per day, bucketing entries by service date or check date
func (s *ReportService) Daily(ctx context.Context, f DailyReportFilter) (*DailyReportResponse, error) {
	period, err := parseRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	groupBy := finance.GroupByServiceDate
	if f.GroupBy != "" {
		groupBy = finance.DateGrouping(f.GroupBy)
	}

	entryFilter := finance.RevenueEntryFilter{Filter: unpaged("date")}
	if groupBy == finance.GroupByCheckDate {
		entryFilter.CheckFrom, entryFilter.CheckTo = &period.from, &period.to
	} else {
		entryFilter.From, entryFilter.To = &period.from, &period.to
	}
	entries, err := s.entryRepo.FindAll(ctx, entryFilter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	var payouts []finance.Payout
	if len(ids) > 0 {
		if payouts, err = s.payoutRepo.FindByEntries(ctx, ids); err != nil {
			return nil, err
		}
	}

	expenses, err := s.expenseRepo.FindAll(ctx, finance.ExpenseFilter{
		Filter: unpaged("date"),
		From:   &period.from,
		To:     &period.to,
	})
	if err != nil {
		return nil, err
	}

	days := finance.SummarizeByDay(entries, payouts, expenses, groupBy)
	totals := finance.DailySummary{
		Day:          f.From + ".." + f.To,
		RevenueTotal: valueobject.ZeroMoney(),
		PayoutTotal:  valueobject.ZeroMoney(),
		ExpenseTotal: valueobject.ZeroMoney(),
		Net:          valueobject.ZeroMoney(),
	}
	for _, d := range days {
		totals.EntryCount += d.EntryCount
		totals.RevenueTotal = totals.RevenueTotal.Add(d.RevenueTotal)
		totals.PayoutTotal = totals.PayoutTotal.Add(d.PayoutTotal)
		totals.ExpenseTotal = totals.ExpenseTotal.Add(d.ExpenseTotal)
		totals.Net = totals.Net.Add(d.Net)
	}

	return &DailyReportResponse{
		From:    f.From,
		To:      f.To,
		GroupBy: string(groupBy),
		Days:    days,
		Totals:  totals,
	}, nil
}

// StaffPayouts totals stored payouts per staff member for entries serviced in the period
func (s *ReportService) StaffPayouts(ctx context.Context, f StaffPayoutReportFilter) (*StaffPayoutReportResponse, error) {
	period, err := parseRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	staffID, err := parseOptionalUUID("staff_id", f.StaffID)
	if err != nil {
		return nil, err
	}

	payouts, err := s.payoutRepo.FindAll(ctx, finance.PayoutFilter{
		Filter:  unpaged("created_at"),
		StaffID: staffID,
		From:    &period.from,
		To:      &period.to,
	})
	if err != nil {
		return nil, err
	}
	roster, err := s.staffRepo.FindRoster(ctx)
	if err != nil {
		return nil, err
	}

	summaries := finance.SummarizeStaffPayouts(payouts, directory.Refs(roster))
	total := decimal.Zero
	for _, sum := range summaries {
		total = total.Add(sum.Total.Amount())
	}
	return &StaffPayoutReportResponse{
		From:  f.From,
		To:    f.To,
		Staff: summaries,
		Total: total,
	}, nil
}
