package directory

import (
	"context"
	"errors"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DirectoryService manages the reference data revenue entries and rates point at
type DirectoryService struct {
	houseRepo       directory.HouseRepository
	serviceCodeRepo directory.ServiceCodeRepository
	staffRepo       directory.StaffRepository
	patientRepo     directory.PatientRepository
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(
	houseRepo directory.HouseRepository,
	serviceCodeRepo directory.ServiceCodeRepository,
	staffRepo directory.StaffRepository,
	patientRepo directory.PatientRepository,
) *DirectoryService {
	return &DirectoryService{
		houseRepo:       houseRepo,
		serviceCodeRepo: serviceCodeRepo,
		staffRepo:       staffRepo,
		patientRepo:     patientRepo,
	}
}

func toDomainFilter(f ListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.Active != nil {
		filter.Filters["active"] = *f.Active
	}
	return filter
}

// ===================== Houses =====================

// CreateHouse creates a new house
func (s *DirectoryService) CreateHouse(ctx context.Context, req CreateHouseRequest) (*HouseResponse, error) {
	house, err := directory.NewHouse(req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.houseRepo.Save(ctx, house); err != nil {
		return nil, err
	}
	resp := toHouseResponse(house)
	return &resp, nil
}

// GetHouse gets a house by ID
func (s *DirectoryService) GetHouse(ctx context.Context, id uuid.UUID) (*HouseResponse, error) {
	house, err := s.houseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toHouseResponse(house)
	return &resp, nil
}

// UpdateHouse updates a house
func (s *DirectoryService) UpdateHouse(ctx context.Context, id uuid.UUID, req UpdateHouseRequest) (*HouseResponse, error) {
	house, err := s.houseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := house.Update(req.Name, req.Address); err != nil {
		return nil, err
	}
	if req.Active != nil {
		house.SetActive(*req.Active)
	}
	house.IncrementVersion()
	if err := s.houseRepo.Save(ctx, house); err != nil {
		return nil, err
	}
	resp := toHouseResponse(house)
	return &resp, nil
}

// ListHouses lists houses
func (s *DirectoryService) ListHouses(ctx context.Context, f ListFilter) ([]HouseResponse, int64, error) {
	filter := toDomainFilter(f)
	houses, err := s.houseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.houseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]HouseResponse, len(houses))
	for i := range houses {
		out[i] = toHouseResponse(&houses[i])
	}
	return out, total, nil
}

// ===================== Service codes =====================

// CreateServiceCode creates a new service code with a unique code
func (s *DirectoryService) CreateServiceCode(ctx context.Context, req CreateServiceCodeRequest) (*ServiceCodeResponse, error) {
	code, err := directory.NewServiceCode(req.Code, req.Description)
	if err != nil {
		return nil, err
	}
	exists, err := s.serviceCodeRepo.ExistsByCode(ctx, code.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Service code "+code.Code+" already exists")
	}
	if err := s.serviceCodeRepo.Save(ctx, code); err != nil {
		return nil, err
	}
	resp := toServiceCodeResponse(code)
	return &resp, nil
}

// GetServiceCode gets a service code by ID
func (s *DirectoryService) GetServiceCode(ctx context.Context, id uuid.UUID) (*ServiceCodeResponse, error) {
	code, err := s.serviceCodeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toServiceCodeResponse(code)
	return &resp, nil
}

// UpdateServiceCode updates a service code; renaming onto another row's code is rejected
func (s *DirectoryService) UpdateServiceCode(ctx context.Context, id uuid.UUID, req UpdateServiceCodeRequest) (*ServiceCodeResponse, error) {
	code, err := s.serviceCodeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing, err := s.serviceCodeRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != code.ID {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Service code "+req.Code+" already exists")
	}
	if err := code.Update(req.Code, req.Description); err != nil {
		return nil, err
	}
	if req.Active != nil {
		code.SetActive(*req.Active)
	}
	code.IncrementVersion()
	if err := s.serviceCodeRepo.Save(ctx, code); err != nil {
		return nil, err
	}
	resp := toServiceCodeResponse(code)
	return &resp, nil
}

// ListServiceCodes lists service codes
func (s *DirectoryService) ListServiceCodes(ctx context.Context, f ListFilter) ([]ServiceCodeResponse, int64, error) {
	filter := toDomainFilter(f)
	codes, err := s.serviceCodeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.serviceCodeRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ServiceCodeResponse, len(codes))
	for i := range codes {
		out[i] = toServiceCodeResponse(&codes[i])
	}
	return out, total, nil
}

// ===================== Staff =====================

// CreateStaff creates a new staff member
func (s *DirectoryService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*StaffResponse, error) {
	staff, err := directory.NewStaff(req.Name, req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.staffRepo.Save(ctx, staff); err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

// GetStaff gets a staff member by ID
func (s *DirectoryService) GetStaff(ctx context.Context, id uuid.UUID) (*StaffResponse, error) {
	staff, err := s.staffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

// UpdateStaff updates a staff member
func (s *DirectoryService) UpdateStaff(ctx context.Context, id uuid.UUID, req UpdateStaffRequest) (*StaffResponse, error) {
	staff, err := s.staffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := staff.Update(req.Name, req.Role); err != nil {
		return nil, err
	}
	if req.Active != nil {
		staff.SetActive(*req.Active)
	}
	staff.IncrementVersion()
	if err := s.staffRepo.Save(ctx, staff); err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

// ListStaff lists staff members
func (s *DirectoryService) ListStaff(ctx context.Context, f ListFilter) ([]StaffResponse, int64, error) {
	filter := toDomainFilter(f)
	staff, err := s.staffRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.staffRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StaffResponse, len(staff))
	for i := range staff {
		out[i] = toStaffResponse(&staff[i])
	}
	return out, total, nil
}

// ===================== Patients =====================

// CreatePatient creates a new patient; the house, when given, must exist
func (s *DirectoryService) CreatePatient(ctx context.Context, req PatientRequest) (*PatientResponse, error) {
	if err := s.ensureHouse(ctx, req.HouseID); err != nil {
		return nil, err
	}
	patient, err := directory.NewPatient(req.Name, req.Phone, req.HouseID, req.Program, req.StartDate)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := patient.ChangeStatus(directory.PatientStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, err
	}
	resp := toPatientResponse(patient)
	return &resp, nil
}

// GetPatient gets a patient by ID
func (s *DirectoryService) GetPatient(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPatientResponse(patient)
	return &resp, nil
}

// UpdatePatient updates a patient
func (s *DirectoryService) UpdatePatient(ctx context.Context, id uuid.UUID, req PatientRequest) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureHouse(ctx, req.HouseID); err != nil {
		return nil, err
	}
	if err := patient.Update(req.Name, req.Phone, req.HouseID, req.Program, req.StartDate); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := patient.ChangeStatus(directory.PatientStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	patient.IncrementVersion()
	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, err
	}
	resp := toPatientResponse(patient)
	return &resp, nil
}

// ListPatients lists patients
func (s *DirectoryService) ListPatients(ctx context.Context, f ListFilter) ([]PatientResponse, int64, error) {
	filter := toDomainFilter(f)
	patients, err := s.patientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.patientRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PatientResponse, len(patients))
	for i := range patients {
		out[i] = toPatientResponse(&patients[i])
	}
	return out, total, nil
}

func (s *DirectoryService) ensureHouse(ctx context.Context, houseID *uuid.UUID) error {
	if houseID == nil || *houseID == uuid.Nil {
		return nil
	}
	if _, err := s.houseRepo.FindByID(ctx, *houseID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(shared.CodeInvalidReference, "House "+houseID.String()+" does not exist")
		}
		return err
	}
	return nil
}
