package directory

import (
	"strings"
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PatientStatus represents where a patient is in their program
type PatientStatus string

const (
	PatientStatusActive    PatientStatus = "active"
	PatientStatusInactive  PatientStatus = "inactive"
	PatientStatusGraduated PatientStatus = "graduated"
)

// IsValid checks if the status is a known PatientStatus
func (s PatientStatus) IsValid() bool {
	switch s {
	case PatientStatusActive, PatientStatusInactive, PatientStatusGraduated:
		return true
	}
	return false
}

// Patient is an optional link target for revenue entries
type Patient struct {
	shared.BaseAggregateRoot
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	HouseID   *uuid.UUID    `json:"house_id"`
	Program   string        `json:"program"`
	StartDate *time.Time    `json:"start_date"`
	Status    PatientStatus `json:"status"`
}

// NewPatient creates a patient in active status
func NewPatient(name, phone string, houseID *uuid.UUID, program string, startDate *time.Time) (*Patient, error) {
	p := &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            PatientStatusActive,
	}
	if err := p.Update(name, phone, houseID, program, startDate); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the patient's details
func (p *Patient) Update(name, phone string, houseID *uuid.UUID, program string, startDate *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Patient name cannot be empty")
	}
	if houseID != nil && *houseID == uuid.Nil {
		houseID = nil
	}
	p.Name = name
	p.Phone = strings.TrimSpace(phone)
	p.HouseID = houseID
	p.Program = strings.TrimSpace(program)
	p.StartDate = startDate
	p.Touch()
	return nil
}

// ChangeStatus moves the patient to another program status
func (p *Patient) ChangeStatus(status PatientStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Patient status must be active, inactive or graduated")
	}
	p.Status = status
	p.Touch()
	return nil
}
