package directory

import (
	"strings"

	"github.com/carehouse/backend/internal/domain/shared"
)

// House is a physical care facility or program location
type House struct {
	shared.BaseAggregateRoot
	Name    string `json:"name"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

// NewHouse creates an active house
func NewHouse(name, address string) (*House, error) {
	h := &House{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
	}
	if err := h.Update(name, address); err != nil {
		return nil, err
	}
	return h, nil
}

// Update changes the descriptive fields of the house
func (h *House) Update(name, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "House name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "House name cannot exceed 200 characters")
	}
	h.Name = name
	h.Address = strings.TrimSpace(address)
	h.Touch()
	return nil
}

// SetActive activates or deactivates the house. Houses are never deleted so that
// revenue entries and rates keep a valid reference.
func (h *House) SetActive(active bool) {
	h.Active = active
	h.Touch()
}
