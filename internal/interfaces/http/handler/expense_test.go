package handler

import (
	"net/http"
	"testing"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func expenseEngine(svc *mockExpenseService) *gin.Engine {
	h := NewExpenseHandler(svc)
	engine := newTestEngine()
	engine.GET("/expenses", h.List)
	engine.POST("/expenses", h.Create)
	engine.GET("/expenses/:id", h.Get)
	engine.PUT("/expenses/:id", h.Update)
	engine.DELETE("/expenses/:id", h.Delete)
	engine.POST("/expenses/:id/pay", h.MarkPaid)
	return engine
}

func TestExpenseHandler_Create(t *testing.T) {
	svc := &mockExpenseService{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req financeapp.ExpenseRequest) bool {
		return req.Vendor == "City Utilities" && req.Amount.Equal(decimal.RequireFromString("212.40"))
	})).Return(&financeapp.ExpenseResponse{ID: uuid.New(), Status: "pending"}, nil).Once()

	w := doRequest(expenseEngine(svc), http.MethodPost, "/expenses", map[string]any{
		"date":     "2026-05-01",
		"amount":   "212.40",
		"vendor":   "City Utilities",
		"category": "utilities",
	})

	requireStatus(t, w, http.StatusCreated)
	svc.AssertExpectations(t)
}

func TestExpenseHandler_MarkPaid(t *testing.T) {
	id := uuid.New()

	t.Run("without a body pays today", func(t *testing.T) {
		svc := &mockExpenseService{}
		svc.On("MarkPaid", mock.Anything, id, financeapp.MarkExpensePaidRequest{}).
			Return(&financeapp.ExpenseResponse{ID: id, Status: "paid"}, nil).Once()

		w := doRequest(expenseEngine(svc), http.MethodPost, "/expenses/"+id.String()+"/pay", nil)

		requireStatus(t, w, http.StatusOK)
		svc.AssertExpectations(t)
	})

	t.Run("with an explicit date", func(t *testing.T) {
		svc := &mockExpenseService{}
		svc.On("MarkPaid", mock.Anything, id, financeapp.MarkExpensePaidRequest{PaidAt: "2026-05-03"}).
			Return(&financeapp.ExpenseResponse{ID: id, Status: "paid"}, nil).Once()

		w := doRequest(expenseEngine(svc), http.MethodPost, "/expenses/"+id.String()+"/pay", `{"paid_at":"2026-05-03"}`)

		requireStatus(t, w, http.StatusOK)
		svc.AssertExpectations(t)
	})

	t.Run("already paid", func(t *testing.T) {
		svc := &mockExpenseService{}
		svc.On("MarkPaid", mock.Anything, id, mock.Anything).
			Return(nil, shared.NewDomainError("ALREADY_PAID", "Expense is already paid")).Once()

		w := doRequest(expenseEngine(svc), http.MethodPost, "/expenses/"+id.String()+"/pay", nil)

		requireStatus(t, w, http.StatusUnprocessableEntity)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
	})
}

func TestExpenseHandler_ListAndDelete(t *testing.T) {
	id := uuid.New()
	svc := &mockExpenseService{}
	svc.On("List", mock.Anything, financeapp.ExpenseListFilter{Status: "pending"}).
		Return([]financeapp.ExpenseResponse{{ID: id}}, int64(1), nil).Once()
	svc.On("Get", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()
	svc.On("Delete", mock.Anything, id).Return(nil).Once()
	engine := expenseEngine(svc)

	requireStatus(t, doRequest(engine, http.MethodGet, "/expenses?status=pending", nil), http.StatusOK)
	requireStatus(t, doRequest(engine, http.MethodGet, "/expenses?status=overdue", nil), http.StatusBadRequest)
	requireStatus(t, doRequest(engine, http.MethodGet, "/expenses/"+id.String(), nil), http.StatusNotFound)
	requireStatus(t, doRequest(engine, http.MethodDelete, "/expenses/"+id.String(), nil), http.StatusNoContent)
	svc.AssertExpectations(t)
}
