package finance

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxRateSum is the ceiling for the sum of staff percentages within one (house, service code)
var MaxRateSum = decimal.NewFromInt(100)

// RateEdit is one row of a rate-table save request
type RateEdit struct {
	HouseID       uuid.UUID
	ServiceCodeID uuid.UUID
	StaffID       uuid.UUID
	Percentage    decimal.Decimal
}

// Key returns the (house, service code) pair of the edit
func (e RateEdit) Key() RateKey {
	return RateKey{HouseID: e.HouseID, ServiceCodeID: e.ServiceCodeID}
}

// RateSumViolation names a (house, service code) pair whose staff percentages exceed 100
type RateSumViolation struct {
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	Total         decimal.Decimal `json:"total"`
}

// RateSumViolationError rejects a whole batch of rate edits
type RateSumViolationError struct {
	Violations []RateSumViolation
}

// Error implements the error interface
func (e *RateSumViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("house %s / service code %s totals %s%%",
			v.HouseID, v.ServiceCodeID, v.Total.StringFixed(2)))
	}
	return "Staff percentages exceed 100% for: " + strings.Join(parts, "; ")
}

// Unwrap exposes the matching domain error code for generic error mapping
func (e *RateSumViolationError) Unwrap() error {
	return shared.NewDomainError(shared.CodeRateSumExceeded, "Staff percentages exceed 100%")
}

// ValidateRates sums the percentages of every (house, service code) pair present in rows
// and rejects the set if any pair is strictly above 100.00. All violating pairs are reported.
func ValidateRates(rows []RateEdit) error {
	totals := make(map[RateKey]decimal.Decimal)
	for _, row := range rows {
		totals[row.Key()] = totals[row.Key()].Add(row.Percentage)
	}

	var violations []RateSumViolation
	for key, total := range totals {
		if total.GreaterThan(MaxRateSum) {
			violations = append(violations, RateSumViolation{
				HouseID:       key.HouseID,
				ServiceCodeID: key.ServiceCodeID,
				Total:         total,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	sort.Slice(violations, func(i, j int) bool {
		if c := bytes.Compare(violations[i].HouseID[:], violations[j].HouseID[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(violations[i].ServiceCodeID[:], violations[j].ServiceCodeID[:]) < 0
	})
	return &RateSumViolationError{Violations: violations}
}

// ValidateRateEdits checks each edit on its own: ids present, percentage within [0, 100]
// with two decimals, and no triple repeated within the batch.
func ValidateRateEdits(edits []RateEdit) error {
	if len(edits) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "At least one rate is required")
	}
	seen := make(map[[3]uuid.UUID]struct{}, len(edits))
	for _, e := range edits {
		if e.HouseID == uuid.Nil || e.ServiceCodeID == uuid.Nil || e.StaffID == uuid.Nil {
			return shared.NewDomainError(shared.CodeInvalidInput, "Each rate requires house, service code and staff")
		}
		if _, err := valueobject.NewPercentage(e.Percentage); err != nil {
			return shared.WrapDomainError(shared.CodeInvalidInput, "Invalid percentage for staff "+e.StaffID.String()+": "+err.Error(), err)
		}
		triple := [3]uuid.UUID{e.HouseID, e.ServiceCodeID, e.StaffID}
		if _, dup := seen[triple]; dup {
			return shared.NewDomainError(shared.CodeInvalidInput, "Duplicate rate for staff "+e.StaffID.String()+" in the same batch")
		}
		seen[triple] = struct{}{}
	}
	return nil
}

// MergeRateEdits overlays edits on the persisted rows of every pair the edits touch.
// The result is the table those pairs would hold after the save, which is what gets validated.
func MergeRateEdits(existing []PayoutRate, edits []RateEdit) []RateEdit {
	touched := make(map[RateKey]struct{})
	edited := make(map[[3]uuid.UUID]struct{}, len(edits))
	for _, e := range edits {
		touched[e.Key()] = struct{}{}
		edited[[3]uuid.UUID{e.HouseID, e.ServiceCodeID, e.StaffID}] = struct{}{}
	}

	merged := make([]RateEdit, 0, len(existing)+len(edits))
	for i := range existing {
		r := &existing[i]
		if _, ok := touched[r.Key()]; !ok {
			continue
		}
		if _, ok := edited[[3]uuid.UUID{r.HouseID, r.ServiceCodeID, r.StaffID}]; ok {
			continue
		}
		merged = append(merged, r.Edit())
	}
	return append(merged, edits...)
}

// AffectedKeys returns the distinct (house, service code) pairs of the edits in input order
func AffectedKeys(edits []RateEdit) []RateKey {
	seen := make(map[RateKey]struct{})
	keys := make([]RateKey, 0)
	for _, e := range edits {
		if _, ok := seen[e.Key()]; ok {
			continue
		}
		seen[e.Key()] = struct{}{}
		keys = append(keys, e.Key())
	}
	return keys
}

// RateTable is an immutable snapshot of payout rates used as explicit input to payout computation
type RateTable struct {
	byKey map[RateKey]map[uuid.UUID]decimal.Decimal
	size  int
}

// NewRateTable builds a snapshot from rate rows
func NewRateTable(rates []PayoutRate) RateTable {
	t := RateTable{byKey: make(map[RateKey]map[uuid.UUID]decimal.Decimal)}
	for i := range rates {
		r := &rates[i]
		staff, ok := t.byKey[r.Key()]
		if !ok {
			staff = make(map[uuid.UUID]decimal.Decimal)
			t.byKey[r.Key()] = staff
		}
		staff[r.StaffID] = r.Percentage
		t.size++
	}
	return t
}

// Len returns the number of rate rows in the snapshot
func (t RateTable) Len() int {
	return t.size
}

// PercentageFor returns the staff member's share for the pair, 0 when no row exists
func (t RateTable) PercentageFor(houseID, serviceCodeID, staffID uuid.UUID) valueobject.Percentage {
	staff, ok := t.byKey[RateKey{HouseID: houseID, ServiceCodeID: serviceCodeID}]
	if !ok {
		return valueobject.ZeroPercentage()
	}
	pct, ok := staff[staffID]
	if !ok {
		return valueobject.ZeroPercentage()
	}
	p, err := valueobject.NewPercentage(pct)
	if err != nil {
		// Rows are validated on save; a corrupt row contributes nothing.
		return valueobject.ZeroPercentage()
	}
	return p
}

// TotalFor returns the sum of staff percentages configured for the pair
func (t RateTable) TotalFor(key RateKey) decimal.Decimal {
	total := decimal.Zero
	for _, pct := range t.byKey[key] {
		total = total.Add(pct)
	}
	return total
}
