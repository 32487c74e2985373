package models

import (
	"time"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/google/uuid"
)

// HouseModel is the persistence model for the House aggregate root.
type HouseModel struct {
	VersionedModel
	Name    string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Address string `gorm:"type:varchar(500)"`
	Active  bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (HouseModel) TableName() string {
	return "houses"
}

// ToDomain converts the persistence model to a domain House.
func (m *HouseModel) ToDomain() *directory.House {
	return &directory.House{
		BaseAggregateRoot: m.ToAggregate(),
		Name:              m.Name,
		Address:           m.Address,
		Active:            m.Active,
	}
}

// HouseModelFromDomain creates a persistence model from a domain House.
func HouseModelFromDomain(h *directory.House) *HouseModel {
	m := &HouseModel{Name: h.Name, Address: h.Address, Active: h.Active}
	m.FromAggregate(h.BaseAggregateRoot)
	return m
}

// ServiceCodeModel is the persistence model for the ServiceCode aggregate root.
type ServiceCodeModel struct {
	VersionedModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ServiceCodeModel) TableName() string {
	return "service_codes"
}

// ToDomain converts the persistence model to a domain ServiceCode.
func (m *ServiceCodeModel) ToDomain() *directory.ServiceCode {
	return &directory.ServiceCode{
		BaseAggregateRoot: m.ToAggregate(),
		Code:              m.Code,
		Description:       m.Description,
		Active:            m.Active,
	}
}

// ServiceCodeModelFromDomain creates a persistence model from a domain ServiceCode.
func ServiceCodeModelFromDomain(c *directory.ServiceCode) *ServiceCodeModel {
	m := &ServiceCodeModel{Code: c.Code, Description: c.Description, Active: c.Active}
	m.FromAggregate(c.BaseAggregateRoot)
	return m
}

// StaffModel is the persistence model for the Staff aggregate root.
type StaffModel struct {
	VersionedModel
	Name   string `gorm:"type:varchar(200);not null;index"`
	Role   string `gorm:"type:varchar(100)"`
	Active bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StaffModel) TableName() string {
	return "staff"
}

// ToDomain converts the persistence model to a domain Staff.
func (m *StaffModel) ToDomain() *directory.Staff {
	return &directory.Staff{
		BaseAggregateRoot: m.ToAggregate(),
		Name:              m.Name,
		Role:              m.Role,
		Active:            m.Active,
	}
}

// StaffModelFromDomain creates a persistence model from a domain Staff.
func StaffModelFromDomain(s *directory.Staff) *StaffModel {
	m := &StaffModel{Name: s.Name, Role: s.Role, Active: s.Active}
	m.FromAggregate(s.BaseAggregateRoot)
	return m
}

// PatientModel is the persistence model for the Patient aggregate root.
type PatientModel struct {
	VersionedModel
	Name      string                  `gorm:"type:varchar(200);not null;index"`
	Phone     string                  `gorm:"type:varchar(50)"`
	HouseID   *uuid.UUID              `gorm:"type:uuid;index"`
	Program   string                  `gorm:"type:varchar(100)"`
	StartDate *time.Time              `gorm:"type:date"`
	Status    directory.PatientStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (PatientModel) TableName() string {
	return "patients"
}

// ToDomain converts the persistence model to a domain Patient.
func (m *PatientModel) ToDomain() *directory.Patient {
	return &directory.Patient{
		BaseAggregateRoot: m.ToAggregate(),
		Name:              m.Name,
		Phone:             m.Phone,
		HouseID:           m.HouseID,
		Program:           m.Program,
		StartDate:         m.StartDate,
		Status:            m.Status,
	}
}

// PatientModelFromDomain creates a persistence model from a domain Patient.
func PatientModelFromDomain(p *directory.Patient) *PatientModel {
	m := &PatientModel{
		Name:      p.Name,
		Phone:     p.Phone,
		HouseID:   p.HouseID,
		Program:   p.Program,
		StartDate: p.StartDate,
		Status:    p.Status,
	}
	m.FromAggregate(p.BaseAggregateRoot)
	return m
}
