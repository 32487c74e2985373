package finance

import (
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateKey identifies the (house, service code) pair a set of staff rates belongs to
type RateKey struct {
	HouseID       uuid.UUID `json:"house_id"`
	ServiceCodeID uuid.UUID `json:"service_code_id"`
}

// PayoutRate is the percentage of a revenue entry's amount owed to one staff member
// for a (house, service code) combination. The triple is immutable once created;
// rates are zeroed rather than deleted.
type PayoutRate struct {
	shared.BaseEntity
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	StaffID       uuid.UUID       `json:"staff_id"`
	Percentage    decimal.Decimal `json:"percentage"`
}

// NewPayoutRate creates a rate row for the given triple
func NewPayoutRate(houseID, serviceCodeID, staffID uuid.UUID, pct valueobject.Percentage) (*PayoutRate, error) {
	if houseID == uuid.Nil || serviceCodeID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payout rate requires house, service code and staff")
	}
	return &PayoutRate{
		BaseEntity:    shared.NewBaseEntity(),
		HouseID:       houseID,
		ServiceCodeID: serviceCodeID,
		StaffID:       staffID,
		Percentage:    pct.Decimal(),
	}, nil
}

// Key returns the (house, service code) pair of the rate
func (r *PayoutRate) Key() RateKey {
	return RateKey{HouseID: r.HouseID, ServiceCodeID: r.ServiceCodeID}
}

// Matches reports whether the rate belongs to the given triple
func (r *PayoutRate) Matches(houseID, serviceCodeID, staffID uuid.UUID) bool {
	return r.HouseID == houseID && r.ServiceCodeID == serviceCodeID && r.StaffID == staffID
}

// ChangePercentage updates the rate in place; the triple never changes
func (r *PayoutRate) ChangePercentage(pct valueobject.Percentage) {
	r.Percentage = pct.Decimal()
	r.Touch()
}

// Edit returns the rate as a batch edit row
func (r *PayoutRate) Edit() RateEdit {
	return RateEdit{
		HouseID:       r.HouseID,
		ServiceCodeID: r.ServiceCodeID,
		StaffID:       r.StaffID,
		Percentage:    r.Percentage,
	}
}
