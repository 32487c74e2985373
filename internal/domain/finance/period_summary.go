package finance

import (
	"sort"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DateGrouping selects which revenue date a summary buckets by
type DateGrouping string

const (
	GroupByServiceDate DateGrouping = "date"
	GroupByCheckDate   DateGrouping = "check_date"
)

// IsValid checks if the grouping is known
func (g DateGrouping) IsValid() bool {
	return g == GroupByServiceDate || g == GroupByCheckDate
}

// DateLayout is the day key format used by summaries
const DateLayout = "2006-01-02"

// UnscheduledDay is the bucket for entries without a check date when grouping by check date
const UnscheduledDay = "unscheduled"

// DailySummary aggregates one day of revenue, payouts and expenses
type DailySummary struct {
	Day          string            `json:"day"`
	EntryCount   int               `json:"entry_count"`
	RevenueTotal valueobject.Money `json:"revenue_total"`
	PayoutTotal  valueobject.Money `json:"payout_total"`
	ExpenseTotal valueobject.Money `json:"expense_total"`
	// Net is revenue minus payouts minus expenses
	Net valueobject.Money `json:"net"`
}

// SummarizeByDay groups entries (and the payouts they own) by service or check date.
// Expenses are bucketed by their own date. Days are returned in ascending order with the
// unscheduled bucket last.
func SummarizeByDay(entries []RevenueEntry, payouts []Payout, expenses []Expense, groupBy DateGrouping) []DailySummary {
	buckets := make(map[string]*DailySummary)
	bucket := func(day string) *DailySummary {
		b, ok := buckets[day]
		if !ok {
			b = &DailySummary{
				Day:          day,
				RevenueTotal: valueobject.ZeroMoney(),
				PayoutTotal:  valueobject.ZeroMoney(),
				ExpenseTotal: valueobject.ZeroMoney(),
			}
			buckets[day] = b
		}
		return b
	}

	entryDay := make(map[uuid.UUID]string, len(entries))
	for i := range entries {
		e := &entries[i]
		day := dayKey(e, groupBy)
		entryDay[e.ID] = day
		b := bucket(day)
		b.EntryCount++
		b.RevenueTotal = b.RevenueTotal.Add(e.AmountMoney())
	}

	for _, p := range payouts {
		day, ok := entryDay[p.RevenueEntryID]
		if !ok {
			continue
		}
		b := bucket(day)
		b.PayoutTotal = b.PayoutTotal.Add(valueobject.NewMoney(p.Amount))
	}

	for i := range expenses {
		b := bucket(expenses[i].Date.Format(DateLayout))
		b.ExpenseTotal = b.ExpenseTotal.Add(valueobject.NewMoney(expenses[i].Amount))
	}

	out := make([]DailySummary, 0, len(buckets))
	for _, b := range buckets {
		b.Net = b.RevenueTotal.Subtract(b.PayoutTotal).Subtract(b.ExpenseTotal)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day == UnscheduledDay {
			return false
		}
		if out[j].Day == UnscheduledDay {
			return true
		}
		return out[i].Day < out[j].Day
	})
	return out
}

func dayKey(e *RevenueEntry, groupBy DateGrouping) string {
	if groupBy == GroupByCheckDate {
		if e.CheckDate == nil {
			return UnscheduledDay
		}
		return e.CheckDate.Format(DateLayout)
	}
	return e.Date.Format(DateLayout)
}

// StaffPayoutSummary totals one staff member's payouts over a period
type StaffPayoutSummary struct {
	StaffID     uuid.UUID         `json:"staff_id"`
	StaffName   string            `json:"staff_name"`
	PayoutCount int               `json:"payout_count"`
	Total       valueobject.Money `json:"total"`
}

// SummarizeStaffPayouts totals payouts per staff member, largest total first
func SummarizeStaffPayouts(payouts []Payout, staff []directory.StaffRef) []StaffPayoutSummary {
	names := make(map[uuid.UUID]string, len(staff))
	for _, s := range staff {
		names[s.ID] = s.Name
	}

	byStaff := make(map[uuid.UUID]*StaffPayoutSummary)
	for _, p := range payouts {
		s, ok := byStaff[p.StaffID]
		if !ok {
			s = &StaffPayoutSummary{
				StaffID:   p.StaffID,
				StaffName: names[p.StaffID],
				Total:     valueobject.ZeroMoney(),
			}
			byStaff[p.StaffID] = s
		}
		s.PayoutCount++
		s.Total = s.Total.Add(valueobject.NewMoney(p.Amount))
	}

	out := make([]StaffPayoutSummary, 0, len(byStaff))
	for _, s := range byStaff {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equals(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].StaffName < out[j].StaffName
	})
	return out
}
