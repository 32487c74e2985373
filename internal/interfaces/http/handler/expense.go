package handler

import (
	"context"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseService manages operating expenses
type ExpenseService interface {
	Create(ctx context.Context, req financeapp.ExpenseRequest) (*financeapp.ExpenseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*financeapp.ExpenseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req financeapp.ExpenseRequest) (*financeapp.ExpenseResponse, error)
	MarkPaid(ctx context.Context, id uuid.UUID, req financeapp.MarkExpensePaidRequest) (*financeapp.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f financeapp.ExpenseListFilter) ([]financeapp.ExpenseResponse, int64, error)
}

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	BaseHandler
	expenses ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenses ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create godoc
// @ID           createExpense
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body financeapp.ExpenseRequest true "Expense"
// @Success      201 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req financeapp.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// Get godoc
// @ID           getExpense
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenses.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Update godoc
// @ID           updateExpense
// @Summary      Replace an unpaid expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id      path string true "Expense ID" format(uuid)
// @Param        request body financeapp.ExpenseRequest true "Expense"
// @Success      200 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	expense, err := h.expenses.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// MarkPaid godoc
// @ID           payExpense
// @Summary      Mark an expense paid
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id      path string true "Expense ID" format(uuid)
// @Param        request body financeapp.MarkExpensePaidRequest false "Payment date, defaults to today"
// @Success      200 {object} APIResponse[financeapp.ExpenseResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /expenses/{id}/pay [post]
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.MarkExpensePaidRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	expense, err := h.expenses.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete godoc
// @ID           deleteExpense
// @Summary      Delete an expense
// @Tags         expenses
// @Param        id path string true "Expense ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        from      query string false "Date from (YYYY-MM-DD)"
// @Param        to        query string false "Date to (YYYY-MM-DD)"
// @Param        status    query string false "Status" Enums(pending, paid)
// @Param        category  query string false "Category"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.ExpenseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter financeapp.ExpenseListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	expenses, total, err := h.expenses.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, expenses, total, page, pageSize)
}
