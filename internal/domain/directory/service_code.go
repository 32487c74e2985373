package directory

import (
	"strings"

	"github.com/carehouse/backend/internal/domain/shared"
)

// ServiceCode is a billable service category such as "peer support" or "group"
type ServiceCode struct {
	shared.BaseAggregateRoot
	Code        string `json:"code"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// NewServiceCode creates an active service code. Code uniqueness is enforced by the repository.
func NewServiceCode(code, description string) (*ServiceCode, error) {
	sc := &ServiceCode{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
	}
	if err := sc.Update(code, description); err != nil {
		return nil, err
	}
	return sc, nil
}

// Update changes the code and description
func (s *ServiceCode) Update(code, description string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Service code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Service code cannot exceed 50 characters")
	}
	s.Code = code
	s.Description = strings.TrimSpace(description)
	s.Touch()
	return nil
}

// SetActive activates or deactivates the service code
func (s *ServiceCode) SetActive(active bool) {
	s.Active = active
	s.Touch()
}

// DisplayName returns "CODE - description", or the bare code without a description
func (s *ServiceCode) DisplayName() string {
	if s.Description == "" {
		return s.Code
	}
	return s.Code + " - " + s.Description
}
