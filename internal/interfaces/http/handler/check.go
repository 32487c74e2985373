package handler

import (
	"context"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckTrackingService manages received checks
type CheckTrackingService interface {
	Create(ctx context.Context, req financeapp.CheckTrackingRequest) (*financeapp.CheckTrackingResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*financeapp.CheckTrackingResponse, error)
	Update(ctx context.Context, id uuid.UUID, req financeapp.CheckTrackingRequest) (*financeapp.CheckTrackingResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f financeapp.CheckListFilter) ([]financeapp.CheckTrackingResponse, int64, error)
}

// CheckAuditService reconciles checks against revenue entries
type CheckAuditService interface {
	Audit(ctx context.Context, checkID uuid.UUID) (*financeapp.CheckAuditResponse, error)
	AuditAll(ctx context.Context, f financeapp.CheckListFilter) ([]financeapp.CheckAuditResponse, int64, error)
}

// CheckHandler handles check tracking and audit endpoints
type CheckHandler struct {
	BaseHandler
	checks CheckTrackingService
	audits CheckAuditService
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(checks CheckTrackingService, audits CheckAuditService) *CheckHandler {
	return &CheckHandler{checks: checks, audits: audits}
}

// Create godoc
// @ID           createCheck
// @Summary      Record a received check
// @Tags         checks
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CheckTrackingRequest true "Check"
// @Success      201 {object} APIResponse[financeapp.CheckTrackingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /checks [post]
func (h *CheckHandler) Create(c *gin.Context) {
	var req financeapp.CheckTrackingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	check, err := h.checks.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, check)
}

// Get godoc
// @ID           getCheck
// @Summary      Get a check
// @Tags         checks
// @Produce      json
// @Param        id path string true "Check ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CheckTrackingResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id} [get]
func (h *CheckHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	check, err := h.checks.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, check)
}

// Update godoc
// @ID           updateCheck
// @Summary      Replace a check
// @Tags         checks
// @Accept       json
// @Produce      json
// @Param        id      path string true "Check ID" format(uuid)
// @Param        request body financeapp.CheckTrackingRequest true "Check"
// @Success      200 {object} APIResponse[financeapp.CheckTrackingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id} [put]
func (h *CheckHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CheckTrackingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	check, err := h.checks.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, check)
}

// Delete godoc
// @ID           deleteCheck
// @Summary      Delete a check
// @Tags         checks
// @Param        id path string true "Check ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id} [delete]
func (h *CheckHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.checks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @ID           listChecks
// @Summary      List checks
// @Tags         checks
// @Produce      json
// @Param        from             query string false "Check date from (YYYY-MM-DD)"
// @Param        to               query string false "Check date to (YYYY-MM-DD)"
// @Param        service_provider query string false "Service provider"
// @Param        check_number     query string false "Check number"
// @Param        page             query int    false "Page number" default(1)
// @Param        page_size        query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.CheckTrackingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /checks [get]
func (h *CheckHandler) List(c *gin.Context) {
	var filter financeapp.CheckListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	checks, total, err := h.checks.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, checks, total, page, pageSize)
}

// Audit godoc
// @ID           auditCheck
// @Summary      Reconcile one check
// @Description  Compares the check amount with the revenue entries recorded under its check number and check date. Mismatches are reported in the status, never as errors.
// @Tags         checks
// @Produce      json
// @Param        id path string true "Check ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CheckAuditResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /checks/{id}/audit [get]
func (h *CheckHandler) Audit(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	report, err := h.audits.Audit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// AuditAll godoc
// @ID           auditChecks
// @Summary      Reconcile a page of checks
// @Tags         checks
// @Produce      json
// @Param        from             query string false "Check date from (YYYY-MM-DD)"
// @Param        to               query string false "Check date to (YYYY-MM-DD)"
// @Param        service_provider query string false "Service provider"
// @Param        check_number     query string false "Check number"
// @Param        page             query int    false "Page number" default(1)
// @Param        page_size        query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.CheckAuditResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /checks/audit [get]
func (h *CheckHandler) AuditAll(c *gin.Context) {
	var filter financeapp.CheckListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	reports, total, err := h.audits.AuditAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, reports, total, page, pageSize)
}
