package directory

import (
	"strings"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Staff is a person eligible to receive percentage-based payouts on revenue
type Staff struct {
	shared.BaseAggregateRoot
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// NewStaff creates an active staff member
func NewStaff(name, role string) (*Staff, error) {
	s := &Staff{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
	}
	if err := s.Update(name, role); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes the staff member's name and role
func (s *Staff) Update(name, role string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Staff name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Staff name cannot exceed 200 characters")
	}
	s.Name = name
	s.Role = strings.TrimSpace(role)
	s.Touch()
	return nil
}

// SetActive activates or deactivates the staff member. Inactive staff still appear
// in payout previews with whatever rate they hold.
func (s *Staff) SetActive(active bool) {
	s.Active = active
	s.Touch()
}

// StaffRef is the minimal projection of a staff member needed for payout computation
type StaffRef struct {
	ID   uuid.UUID
	Name string
}

// Ref returns the payout-computation projection of the staff member
func (s *Staff) Ref() StaffRef {
	return StaffRef{ID: s.ID, Name: s.Name}
}

// Refs projects a staff list
func Refs(staff []Staff) []StaffRef {
	refs := make([]StaffRef, 0, len(staff))
	for i := range staff {
		refs = append(refs, staff[i].Ref())
	}
	return refs
}
