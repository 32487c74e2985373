package handler

import (
	"context"

	directoryapp "github.com/carehouse/backend/internal/application/directory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DirectoryService manages houses, service codes, staff and patients
type DirectoryService interface {
	CreateHouse(ctx context.Context, req directoryapp.CreateHouseRequest) (*directoryapp.HouseResponse, error)
	GetHouse(ctx context.Context, id uuid.UUID) (*directoryapp.HouseResponse, error)
	UpdateHouse(ctx context.Context, id uuid.UUID, req directoryapp.UpdateHouseRequest) (*directoryapp.HouseResponse, error)
	ListHouses(ctx context.Context, f directoryapp.ListFilter) ([]directoryapp.HouseResponse, int64, error)

	CreateServiceCode(ctx context.Context, req directoryapp.CreateServiceCodeRequest) (*directoryapp.ServiceCodeResponse, error)
	GetServiceCode(ctx context.Context, id uuid.UUID) (*directoryapp.ServiceCodeResponse, error)
	UpdateServiceCode(ctx context.Context, id uuid.UUID, req directoryapp.UpdateServiceCodeRequest) (*directoryapp.ServiceCodeResponse, error)
	ListServiceCodes(ctx context.Context, f directoryapp.ListFilter) ([]directoryapp.ServiceCodeResponse, int64, error)

	CreateStaff(ctx context.Context, req directoryapp.CreateStaffRequest) (*directoryapp.StaffResponse, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*directoryapp.StaffResponse, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, req directoryapp.UpdateStaffRequest) (*directoryapp.StaffResponse, error)
	ListStaff(ctx context.Context, f directoryapp.ListFilter) ([]directoryapp.StaffResponse, int64, error)

	CreatePatient(ctx context.Context, req directoryapp.PatientRequest) (*directoryapp.PatientResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*directoryapp.PatientResponse, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req directoryapp.PatientRequest) (*directoryapp.PatientResponse, error)
	ListPatients(ctx context.Context, f directoryapp.ListFilter) ([]directoryapp.PatientResponse, int64, error)
}

// DirectoryHandler handles the reference data endpoints
type DirectoryHandler struct {
	BaseHandler
	directory DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directory DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ===================== Houses =====================

// CreateHouse godoc
// @ID           createHouse
// @Summary      Create a house
// @Tags         houses
// @Accept       json
// @Produce      json
// @Param        request body directoryapp.CreateHouseRequest true "House"
// @Success      201 {object} APIResponse[directoryapp.HouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /houses [post]
func (h *DirectoryHandler) CreateHouse(c *gin.Context) {
	var req directoryapp.CreateHouseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	house, err := h.directory.CreateHouse(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, house)
}

// GetHouse godoc
// @ID           getHouse
// @Summary      Get a house
// @Tags         houses
// @Produce      json
// @Param        id path string true "House ID" format(uuid)
// @Success      200 {object} APIResponse[directoryapp.HouseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /houses/{id} [get]
func (h *DirectoryHandler) GetHouse(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	house, err := h.directory.GetHouse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, house)
}

// UpdateHouse godoc
// @ID           updateHouse
// @Summary      Update a house
// @Tags         houses
// @Accept       json
// @Produce      json
// @Param        id      path string true "House ID" format(uuid)
// @Param        request body directoryapp.UpdateHouseRequest true "House"
// @Success      200 {object} APIResponse[directoryapp.HouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /houses/{id} [put]
func (h *DirectoryHandler) UpdateHouse(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req directoryapp.UpdateHouseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	house, err := h.directory.UpdateHouse(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, house)
}

// ListHouses godoc
// @ID           listHouses
// @Summary      List houses
// @Tags         houses
// @Produce      json
// @Param        search    query string false "Name contains"
// @Param        active    query bool   false "Active only"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]directoryapp.HouseResponse]
// @Router       /houses [get]
func (h *DirectoryHandler) ListHouses(c *gin.Context) {
	var filter directoryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	houses, total, err := h.directory.ListHouses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, houses, total, page, pageSize)
}

// ===================== Service codes =====================

// CreateServiceCode godoc
// @ID           createServiceCode
// @Summary      Create a service code
// @Tags         service-codes
// @Accept       json
// @Produce      json
// @Param        request body directoryapp.CreateServiceCodeRequest true "Service code"
// @Success      201 {object} APIResponse[directoryapp.ServiceCodeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /service-codes [post]
func (h *DirectoryHandler) CreateServiceCode(c *gin.Context) {
	var req directoryapp.CreateServiceCodeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	code, err := h.directory.CreateServiceCode(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, code)
}

// GetServiceCode godoc
// @ID           getServiceCode
// @Summary      Get a service code
// @Tags         service-codes
// @Produce      json
// @Param        id path string true "Service code ID" format(uuid)
// @Success      200 {object} APIResponse[directoryapp.ServiceCodeResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /service-codes/{id} [get]
func (h *DirectoryHandler) GetServiceCode(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	code, err := h.directory.GetServiceCode(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, code)
}

// UpdateServiceCode godoc
// @ID           updateServiceCode
// @Summary      Update a service code
// @Tags         service-codes
// @Accept       json
// @Produce      json
// @Param        id      path string true "Service code ID" format(uuid)
// @Param        request body directoryapp.UpdateServiceCodeRequest true "Service code"
// @Success      200 {object} APIResponse[directoryapp.ServiceCodeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /service-codes/{id} [put]
func (h *DirectoryHandler) UpdateServiceCode(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req directoryapp.UpdateServiceCodeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	code, err := h.directory.UpdateServiceCode(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, code)
}

// ListServiceCodes godoc
// @ID           listServiceCodes
// @Summary      List service codes
// @Tags         service-codes
// @Produce      json
// @Param        search    query string false "Code or description contains"
// @Param        active    query bool   false "Active only"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]directoryapp.ServiceCodeResponse]
// @Router       /service-codes [get]
func (h *DirectoryHandler) ListServiceCodes(c *gin.Context) {
	var filter directoryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	codes, total, err := h.directory.ListServiceCodes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, codes, total, page, pageSize)
}

// ===================== Staff =====================

// CreateStaff godoc
// @ID           createStaff
// @Summary      Create a staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body directoryapp.CreateStaffRequest true "Staff member"
// @Success      201 {object} APIResponse[directoryapp.StaffResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /staff [post]
func (h *DirectoryHandler) CreateStaff(c *gin.Context) {
	var req directoryapp.CreateStaffRequest
	if !h.BindJSON(c, &req) {
		return
	}
	staff, err := h.directory.CreateStaff(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, staff)
}

// GetStaff godoc
// @ID           getStaff
// @Summary      Get a staff member
// @Tags         staff
// @Produce      json
// @Param        id path string true "Staff ID" format(uuid)
// @Success      200 {object} APIResponse[directoryapp.StaffResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /staff/{id} [get]
func (h *DirectoryHandler) GetStaff(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	staff, err := h.directory.GetStaff(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staff)
}

// UpdateStaff godoc
// @ID           updateStaff
// @Summary      Update a staff member
// @Description  Deactivating a staff member keeps their rates and payouts
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id      path string true "Staff ID" format(uuid)
// @Param        request body directoryapp.UpdateStaffRequest true "Staff member"
// @Success      200 {object} APIResponse[directoryapp.StaffResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /staff/{id} [put]
func (h *DirectoryHandler) UpdateStaff(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req directoryapp.UpdateStaffRequest
	if !h.BindJSON(c, &req) {
		return
	}
	staff, err := h.directory.UpdateStaff(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staff)
}

// ListStaff godoc
// @ID           listStaff
// @Summary      List staff
// @Tags         staff
// @Produce      json
// @Param        search    query string false "Name contains"
// @Param        active    query bool   false "Active only"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]directoryapp.StaffResponse]
// @Router       /staff [get]
func (h *DirectoryHandler) ListStaff(c *gin.Context) {
	var filter directoryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	staff, total, err := h.directory.ListStaff(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, staff, total, page, pageSize)
}

// ===================== Patients =====================

// CreatePatient godoc
// @ID           createPatient
// @Summary      Create a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        request body directoryapp.PatientRequest true "Patient"
// @Success      201 {object} APIResponse[directoryapp.PatientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /patients [post]
func (h *DirectoryHandler) CreatePatient(c *gin.Context) {
	var req directoryapp.PatientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	patient, err := h.directory.CreatePatient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, patient)
}

// GetPatient godoc
// @ID           getPatient
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Param        id path string true "Patient ID" format(uuid)
// @Success      200 {object} APIResponse[directoryapp.PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /patients/{id} [get]
func (h *DirectoryHandler) GetPatient(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	patient, err := h.directory.GetPatient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, patient)
}

// UpdatePatient godoc
// @ID           updatePatient
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id      path string true "Patient ID" format(uuid)
// @Param        request body directoryapp.PatientRequest true "Patient"
// @Success      200 {object} APIResponse[directoryapp.PatientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /patients/{id} [put]
func (h *DirectoryHandler) UpdatePatient(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req directoryapp.PatientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	patient, err := h.directory.UpdatePatient(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, patient)
}

// ListPatients godoc
// @ID           listPatients
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Param        search    query string false "Name contains"
// @Param        active    query bool   false "Active only"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]directoryapp.PatientResponse]
// @Router       /patients [get]
func (h *DirectoryHandler) ListPatients(c *gin.Context) {
	var filter directoryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	patients, total, err := h.directory.ListPatients(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, patients, total, page, pageSize)
}
