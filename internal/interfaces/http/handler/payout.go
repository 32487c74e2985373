package handler

import (
	"context"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayoutService previews and lists payouts
type PayoutService interface {
	Preview(ctx context.Context, req financeapp.PreviewPayoutsRequest) (*financeapp.PreviewPayoutsResponse, error)
	List(ctx context.Context, f financeapp.PayoutListFilter) ([]financeapp.PayoutResponse, int64, error)
}

// PayoutRateService reads and edits the rate table
type PayoutRateService interface {
	ListRates(ctx context.Context, filter financeapp.RateListFilter) ([]financeapp.PayoutRateResponse, error)
	GetRate(ctx context.Context, id uuid.UUID) (*financeapp.PayoutRateResponse, error)
	CreateRate(ctx context.Context, req financeapp.RateEditRequest) (*financeapp.PayoutRateResponse, error)
	UpdateRate(ctx context.Context, id uuid.UUID, req financeapp.UpdateRateRequest) (*financeapp.PayoutRateResponse, error)
	SaveRates(ctx context.Context, req financeapp.SaveRatesRequest) (*financeapp.SaveRatesResponse, error)
}

// PayoutHandler handles payout and payout rate endpoints
type PayoutHandler struct {
	BaseHandler
	payouts PayoutService
	rates   PayoutRateService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payouts PayoutService, rates PayoutRateService) *PayoutHandler {
	return &PayoutHandler{payouts: payouts, rates: rates}
}

// Preview godoc
// @ID           previewPayouts
// @Summary      Preview the payout split of an amount
// @Description  Computes the staff payouts an amount would produce for a house and service code without saving anything. Staff at 0% are listed too.
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        request body financeapp.PreviewPayoutsRequest true "Amount and rate key"
// @Success      200 {object} APIResponse[financeapp.PreviewPayoutsResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /payouts/preview [post]
func (h *PayoutHandler) Preview(c *gin.Context) {
	var req financeapp.PreviewPayoutsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	preview, err := h.payouts.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// List godoc
// @ID           listPayouts
// @Summary      List persisted payouts
// @Tags         payouts
// @Produce      json
// @Param        staff_id  query string false "Staff ID" format(uuid)
// @Param        from      query string false "Entry date from (YYYY-MM-DD)"
// @Param        to        query string false "Entry date to (YYYY-MM-DD)"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.PayoutResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /payouts [get]
func (h *PayoutHandler) List(c *gin.Context) {
	var filter financeapp.PayoutListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	payouts, total, err := h.payouts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, payouts, total, page, pageSize)
}

// ListRates godoc
// @ID           listPayoutRates
// @Summary      List the payout rate table
// @Tags         payout-rates
// @Produce      json
// @Param        house_id        query string false "House ID" format(uuid)
// @Param        service_code_id query string false "Service code ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.PayoutRateResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /payout-rates [get]
func (h *PayoutHandler) ListRates(c *gin.Context) {
	var filter financeapp.RateListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	rates, err := h.rates.ListRates(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// GetRate godoc
// @ID           getPayoutRate
// @Summary      Get a payout rate
// @Tags         payout-rates
// @Produce      json
// @Param        id path string true "Rate ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PayoutRateResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /payout-rates/{id} [get]
func (h *PayoutHandler) GetRate(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	rate, err := h.rates.GetRate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// CreateRate godoc
// @ID           createPayoutRate
// @Summary      Set one staff member's percentage
// @Description  Creates or replaces the rate of a staff member for a house and service code. Rejected when the pair would total more than 100%.
// @Tags         payout-rates
// @Accept       json
// @Produce      json
// @Param        request body financeapp.RateEditRequest true "Rate"
// @Success      201 {object} APIResponse[financeapp.PayoutRateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payout-rates [post]
func (h *PayoutHandler) CreateRate(c *gin.Context) {
	var req financeapp.RateEditRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rate, err := h.rates.CreateRate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rate)
}

// UpdateRate godoc
// @ID           updatePayoutRate
// @Summary      Change a payout rate
// @Tags         payout-rates
// @Accept       json
// @Produce      json
// @Param        id      path string true "Rate ID" format(uuid)
// @Param        request body financeapp.UpdateRateRequest true "New percentage"
// @Success      200 {object} APIResponse[financeapp.PayoutRateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payout-rates/{id} [put]
func (h *PayoutHandler) UpdateRate(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateRateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rate, err := h.rates.UpdateRate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// SaveRates godoc
// @ID           savePayoutRates
// @Summary      Save a batch of rate edits
// @Description  Applies every edit or none. A pair totalling more than 100% rejects the whole batch and error.details lists each offending pair.
// @Tags         payout-rates
// @Accept       json
// @Produce      json
// @Param        request body financeapp.SaveRatesRequest true "Rate edits"
// @Success      200 {object} APIResponse[financeapp.SaveRatesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /payout-rates [put]
func (h *PayoutHandler) SaveRates(c *gin.Context) {
	var req financeapp.SaveRatesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	saved, err := h.rates.SaveRates(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}
