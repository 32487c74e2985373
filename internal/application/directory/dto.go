package directory

import (
	"time"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/google/uuid"
)

// ListFilter is the common query for directory lists
type ListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ===================== Houses =====================

// HouseResponse represents a house in API responses
type HouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateHouseRequest represents a request to create a house
type CreateHouseRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateHouseRequest represents a request to update a house
type UpdateHouseRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
	Active  *bool  `json:"active"`
}

func toHouseResponse(h *directory.House) HouseResponse {
	return HouseResponse{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		Active:    h.Active,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// ===================== Service codes =====================

// ServiceCodeResponse represents a service code in API responses
type ServiceCodeResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateServiceCodeRequest represents a request to create a service code
type CreateServiceCodeRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateServiceCodeRequest represents a request to update a service code
type UpdateServiceCodeRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
	Active      *bool  `json:"active"`
}

func toServiceCodeResponse(s *directory.ServiceCode) ServiceCodeResponse {
	return ServiceCodeResponse{
		ID:          s.ID,
		Code:        s.Code,
		Description: s.Description,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ===================== Staff =====================

// StaffResponse represents a staff member in API responses
type StaffResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStaffRequest represents a request to create a staff member
type CreateStaffRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Role string `json:"role" binding:"max=100"`
}

// UpdateStaffRequest represents a request to update a staff member
type UpdateStaffRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Role   string `json:"role" binding:"max=100"`
	Active *bool  `json:"active"`
}

func toStaffResponse(s *directory.Staff) StaffResponse {
	return StaffResponse{
		ID:        s.ID,
		Name:      s.Name,
		Role:      s.Role,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ===================== Patients =====================

// PatientResponse represents a patient in API responses
type PatientResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	HouseID   *uuid.UUID `json:"house_id,omitempty"`
	Program   string     `json:"program"`
	StartDate *time.Time `json:"start_date,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PatientRequest represents a request to create or update a patient
type PatientRequest struct {
	Name      string     `json:"name" binding:"required,max=200"`
	Phone     string     `json:"phone" binding:"max=50"`
	HouseID   *uuid.UUID `json:"house_id"`
	Program   string     `json:"program" binding:"max=100"`
	StartDate *time.Time `json:"start_date"`
	Status    string     `json:"status" binding:"omitempty,oneof=active inactive graduated"`
}

func toPatientResponse(p *directory.Patient) PatientResponse {
	return PatientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		HouseID:   p.HouseID,
		Program:   p.Program,
		StartDate: p.StartDate,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
