package handler

import (
	"net/http"
	"testing"

	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func payoutEngine(payouts *mockPayoutService, rates *mockPayoutRateService) *gin.Engine {
	h := NewPayoutHandler(payouts, rates)
	engine := newTestEngine()
	engine.POST("/payouts/preview", h.Preview)
	engine.GET("/payouts", h.List)
	engine.GET("/payout-rates", h.ListRates)
	engine.POST("/payout-rates", h.CreateRate)
	engine.PUT("/payout-rates", h.SaveRates)
	engine.GET("/payout-rates/:id", h.GetRate)
	engine.PUT("/payout-rates/:id", h.UpdateRate)
	return engine
}

func TestPayoutHandler_Preview(t *testing.T) {
	houseID, codeID := uuid.New(), uuid.New()
	payouts := &mockPayoutService{}
	payouts.On("Preview", mock.Anything, mock.MatchedBy(func(req financeapp.PreviewPayoutsRequest) bool {
		return req.HouseID == houseID && req.ServiceCodeID == codeID && req.Amount.Equal(decimal.NewFromInt(200))
	})).Return(&financeapp.PreviewPayoutsResponse{
		Amount: decimal.NewFromInt(200),
		Lines: []financeapp.PayoutLineResponse{
			{StaffID: uuid.New(), StaffName: "Ana", Percentage: decimal.NewFromInt(60), Amount: decimal.NewFromInt(120)},
			{StaffID: uuid.New(), StaffName: "Ben", Percentage: decimal.Zero, Amount: decimal.Zero},
		},
		Allocated:   decimal.NewFromInt(120),
		Unallocated: decimal.NewFromInt(80),
	}, nil).Once()

	w := doRequest(payoutEngine(payouts, &mockPayoutRateService{}), http.MethodPost, "/payouts/preview", map[string]any{
		"amount":          "200",
		"house_id":        houseID,
		"service_code_id": codeID,
	})

	requireStatus(t, w, http.StatusOK)
	var got financeapp.PreviewPayoutsResponse
	decodeData(t, decodeResponse(t, w), &got)
	assert.Len(t, got.Lines, 2, "staff at 0% are listed")
	assert.True(t, got.Unallocated.Equal(decimal.NewFromInt(80)))
	payouts.AssertExpectations(t)
}

func TestPayoutHandler_Preview_RequiresRateKey(t *testing.T) {
	payouts := &mockPayoutService{}

	w := doRequest(payoutEngine(payouts, &mockPayoutRateService{}), http.MethodPost, "/payouts/preview", `{"amount":"10"}`)

	requireStatus(t, w, http.StatusBadRequest)
	payouts.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything)
}

func TestPayoutHandler_List(t *testing.T) {
	staffID := uuid.New()
	payouts := &mockPayoutService{}
	payouts.On("List", mock.Anything, financeapp.PayoutListFilter{StaffID: staffID.String(), From: "2026-01-01"}).
		Return([]financeapp.PayoutResponse{}, int64(0), nil).Once()

	w := doRequest(payoutEngine(payouts, &mockPayoutRateService{}), http.MethodGet,
		"/payouts?staff_id="+staffID.String()+"&from=2026-01-01", nil)

	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, int64(0), decodeResponse(t, w).Meta.Total)
	payouts.AssertExpectations(t)
}

func TestPayoutHandler_SaveRates(t *testing.T) {
	houseID, codeID := uuid.New(), uuid.New()
	batch := map[string]any{
		"rates": []map[string]any{
			{"house_id": houseID, "service_code_id": codeID, "staff_id": uuid.New(), "percentage": "60"},
			{"house_id": houseID, "service_code_id": codeID, "staff_id": uuid.New(), "percentage": "50.5"},
		},
	}

	t.Run("rejects the batch and lists the offending pair", func(t *testing.T) {
		rates := &mockPayoutRateService{}
		rates.On("SaveRates", mock.Anything, mock.MatchedBy(func(req financeapp.SaveRatesRequest) bool {
			return len(req.Rates) == 2
		})).Return(nil, &finance.RateSumViolationError{Violations: []finance.RateSumViolation{
			{HouseID: houseID, ServiceCodeID: codeID, Total: decimal.RequireFromString("110.5")},
		}}).Once()

		w := doRequest(payoutEngine(&mockPayoutService{}, rates), http.MethodPut, "/payout-rates", batch)

		requireStatus(t, w, http.StatusUnprocessableEntity)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeRateSumExceeded, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "110.50%")
		var violations []finance.RateSumViolation
		raw := dto.Response{Data: resp.Error.Details}
		decodeData(t, raw, &violations)
		require.Len(t, violations, 1)
		assert.Equal(t, houseID, violations[0].HouseID)
	})

	t.Run("percentages above 100 fail validation", func(t *testing.T) {
		rates := &mockPayoutRateService{}
		over := `{"rates":[{"house_id":"` + houseID.String() + `","service_code_id":"` + codeID.String() +
			`","staff_id":"` + uuid.NewString() + `","percentage":"100.01"}]}`

		w := doRequest(payoutEngine(&mockPayoutService{}, rates), http.MethodPut, "/payout-rates", over)

		requireStatus(t, w, http.StatusBadRequest)
		rates.AssertNotCalled(t, "SaveRates", mock.Anything, mock.Anything)
	})

	t.Run("empty batch", func(t *testing.T) {
		w := doRequest(payoutEngine(&mockPayoutService{}, &mockPayoutRateService{}), http.MethodPut, "/payout-rates", `{"rates":[]}`)
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("saved", func(t *testing.T) {
		rates := &mockPayoutRateService{}
		rates.On("SaveRates", mock.Anything, mock.Anything).Return(&financeapp.SaveRatesResponse{
			Totals: []financeapp.RateKeyTotal{{HouseID: houseID, ServiceCodeID: codeID, Total: decimal.RequireFromString("100")}},
		}, nil).Once()
		valid := map[string]any{
			"rates": []map[string]any{
				{"house_id": houseID, "service_code_id": codeID, "staff_id": uuid.New(), "percentage": "100.00"},
			},
		}

		w := doRequest(payoutEngine(&mockPayoutService{}, rates), http.MethodPut, "/payout-rates", valid)

		requireStatus(t, w, http.StatusOK)
	})
}

func TestPayoutHandler_Rates(t *testing.T) {
	id := uuid.New()
	rate := &financeapp.PayoutRateResponse{ID: id, Percentage: decimal.RequireFromString("33.33")}

	rates := &mockPayoutRateService{}
	rates.On("ListRates", mock.Anything, financeapp.RateListFilter{}).Return([]financeapp.PayoutRateResponse{*rate}, nil).Once()
	rates.On("GetRate", mock.Anything, id).Return(rate, nil).Once()
	rates.On("GetRate", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	rates.On("CreateRate", mock.Anything, mock.Anything).Return(rate, nil).Once()
	rates.On("UpdateRate", mock.Anything, id, mock.Anything).
		Return(nil, shared.NewDomainError(shared.CodeRateSumExceeded, "Staff percentages exceed 100%")).Once()
	engine := payoutEngine(&mockPayoutService{}, rates)

	requireStatus(t, doRequest(engine, http.MethodGet, "/payout-rates", nil), http.StatusOK)
	requireStatus(t, doRequest(engine, http.MethodGet, "/payout-rates/"+id.String(), nil), http.StatusOK)
	requireStatus(t, doRequest(engine, http.MethodGet, "/payout-rates/"+uuid.NewString(), nil), http.StatusNotFound)

	w := doRequest(engine, http.MethodPost, "/payout-rates", map[string]any{
		"house_id": uuid.New(), "service_code_id": uuid.New(), "staff_id": uuid.New(), "percentage": "33.33",
	})
	requireStatus(t, w, http.StatusCreated)

	w = doRequest(engine, http.MethodPut, "/payout-rates/"+id.String(), `{"percentage":"80"}`)
	requireStatus(t, w, http.StatusUnprocessableEntity)
	assert.Equal(t, dto.ErrCodeRateSumExceeded, decodeResponse(t, w).Error.Code)

	rates.AssertExpectations(t)
}
