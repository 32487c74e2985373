package handler

import (
	"context"
	"net/http"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RevenueEntryService is the revenue entry lifecycle used by RevenueEntryHandler
type RevenueEntryService interface {
	Create(ctx context.Context, req financeapp.CreateRevenueEntryRequest) (*financeapp.RevenueEntryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req financeapp.UpdateRevenueEntryRequest) (*financeapp.RevenueEntryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*financeapp.RevenueEntryResponse, error)
	List(ctx context.Context, f financeapp.RevenueEntryListFilter) ([]financeapp.RevenueEntryResponse, int64, error)
	GetPayouts(ctx context.Context, id uuid.UUID) ([]financeapp.PayoutResponse, error)
	RecomputePayouts(ctx context.Context, id uuid.UUID) ([]financeapp.PayoutResponse, error)
}

// RevenueEntryHandler handles revenue entry endpoints
type RevenueEntryHandler struct {
	BaseHandler
	entries RevenueEntryService
}

// NewRevenueEntryHandler creates a new RevenueEntryHandler
func NewRevenueEntryHandler(entries RevenueEntryService) *RevenueEntryHandler {
	return &RevenueEntryHandler{entries: entries}
}

// Create godoc
// @ID           createRevenueEntry
// @Summary      Record a revenue entry
// @Description  Saves the entry and writes its staff payouts. If payouts cannot be computed yet the entry is still saved and the response carries a PAYOUT_RECOMPUTE_PENDING warning.
// @Tags         revenue-entries
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateRevenueEntryRequest true "Revenue entry"
// @Success      201 {object} APIResponse[financeapp.RevenueEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /revenue-entries [post]
func (h *RevenueEntryHandler) Create(c *gin.Context) {
	var req financeapp.CreateRevenueEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), req)
	h.HandleSaveResult(c, http.StatusCreated, entry, err)
}

// Update godoc
// @ID           updateRevenueEntry
// @Summary      Update a revenue entry
// @Description  Applies the changed fields and replaces the entry's payouts
// @Tags         revenue-entries
// @Accept       json
// @Produce      json
// @Param        id      path string true "Revenue entry ID" format(uuid)
// @Param        request body financeapp.UpdateRevenueEntryRequest true "Fields to change"
// @Success      200 {object} APIResponse[financeapp.RevenueEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /revenue-entries/{id} [put]
func (h *RevenueEntryHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateRevenueEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.entries.Update(c.Request.Context(), id, req)
	h.HandleSaveResult(c, http.StatusOK, entry, err)
}

// Delete godoc
// @ID           deleteRevenueEntry
// @Summary      Delete a revenue entry
// @Description  Deletes the entry together with its payouts
// @Tags         revenue-entries
// @Param        id path string true "Revenue entry ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /revenue-entries/{id} [delete]
func (h *RevenueEntryHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get godoc
// @ID           getRevenueEntry
// @Summary      Get a revenue entry
// @Tags         revenue-entries
// @Produce      json
// @Param        id path string true "Revenue entry ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.RevenueEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /revenue-entries/{id} [get]
func (h *RevenueEntryHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	entry, err := h.entries.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List godoc
// @ID           listRevenueEntries
// @Summary      List revenue entries
// @Tags         revenue-entries
// @Produce      json
// @Param        from            query string false "Service date from (YYYY-MM-DD)"
// @Param        to              query string false "Service date to (YYYY-MM-DD)"
// @Param        check_from      query string false "Check date from (YYYY-MM-DD)"
// @Param        check_to        query string false "Check date to (YYYY-MM-DD)"
// @Param        house_id        query string false "House ID" format(uuid)
// @Param        service_code_id query string false "Service code ID" format(uuid)
// @Param        patient_id      query string false "Patient ID" format(uuid)
// @Param        check_number    query string false "Check number"
// @Param        status          query string false "Status" Enums(pending, billed, paid, void)
// @Param        search          query string false "Search notes and check number"
// @Param        page            query int    false "Page number" default(1)
// @Param        page_size       query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.RevenueEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /revenue-entries [get]
func (h *RevenueEntryHandler) List(c *gin.Context) {
	var filter financeapp.RevenueEntryListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	entries, total, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// GetPayouts godoc
// @ID           getRevenueEntryPayouts
// @Summary      List the payouts of a revenue entry
// @Tags         revenue-entries
// @Produce      json
// @Param        id path string true "Revenue entry ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.PayoutResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /revenue-entries/{id}/payouts [get]
func (h *RevenueEntryHandler) GetPayouts(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	payouts, err := h.entries.GetPayouts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payouts)
}

// RecomputePayouts godoc
// @ID           recomputeRevenueEntryPayouts
// @Summary      Recompute the payouts of a revenue entry
// @Description  Rebuilds the entry's payouts from the current rate table
// @Tags         revenue-entries
// @Produce      json
// @Param        id path string true "Revenue entry ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.PayoutResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /revenue-entries/{id}/recompute-payouts [post]
func (h *RevenueEntryHandler) RecomputePayouts(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	payouts, err := h.entries.RecomputePayouts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payouts)
}
