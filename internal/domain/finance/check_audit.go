package finance

import (
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the currency rounding slack below which a check counts as balanced
var BalanceTolerance = decimal.New(1, -2)

// AuditStatus classifies a check against the revenue attributed to it
type AuditStatus string

const (
	AuditStatusBalanced            AuditStatus = "BALANCED"
	AuditStatusCheckExceedsRevenue AuditStatus = "CHECK_EXCEEDS_REVENUE"
	AuditStatusRevenueExceedsCheck AuditStatus = "REVENUE_EXCEEDS_CHECK"
)

// IsBalanced returns true for a balanced check
func (s AuditStatus) IsBalanced() bool {
	return s == AuditStatusBalanced
}

// Description returns a human-readable explanation of the status
func (s AuditStatus) Description() string {
	switch s {
	case AuditStatusBalanced:
		return "Check amount matches recorded revenue"
	case AuditStatusCheckExceedsRevenue:
		return "Check exceeds recorded revenue; entries may be missing"
	case AuditStatusRevenueExceedsCheck:
		return "Recorded revenue exceeds check; entries may be duplicated or wrong"
	default:
		return "Unknown audit status"
	}
}

// AuditReport is the read-only reconciliation of one check
type AuditReport struct {
	Check        *CheckTracking
	Entries      []RevenueEntry
	CheckAmount  valueobject.Money
	RevenueTotal valueobject.Money
	// Difference is CheckAmount - RevenueTotal, signed
	Difference valueobject.Money
	Balanced   bool
	Status     AuditStatus
}

// Unreconciled reports whether no revenue entry was attributed to the check at all
func (r *AuditReport) Unreconciled() bool {
	return len(r.Entries) == 0
}

// Reconcile compares a check with the revenue entries whose check number equals it
// exactly (case-sensitive). Entries with other check numbers are ignored, so callers may
// pass any superset. A check nobody has attributed revenue to is a normal report, not an error.
func Reconcile(check *CheckTracking, entries []RevenueEntry) AuditReport {
	matched := make([]RevenueEntry, 0)
	total := valueobject.ZeroMoney()
	for i := range entries {
		if entries[i].CheckNumber != check.CheckNumber {
			continue
		}
		matched = append(matched, entries[i])
		total = total.Add(entries[i].AmountMoney())
	}

	checkAmount := check.CheckAmountMoney()
	diff := checkAmount.Subtract(total)

	status := AuditStatusBalanced
	if !diff.Abs().Amount().LessThan(BalanceTolerance) {
		if diff.IsPositive() {
			status = AuditStatusCheckExceedsRevenue
		} else {
			status = AuditStatusRevenueExceedsCheck
		}
	}

	return AuditReport{
		Check:        check,
		Entries:      matched,
		CheckAmount:  checkAmount,
		RevenueTotal: total,
		Difference:   diff,
		Balanced:     status.IsBalanced(),
		Status:       status,
	}
}
