package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	directoryapp "github.com/carehouse/backend/internal/application/directory"
	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/interfaces/http/dto"
	"github.com/carehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestEngine returns an engine with request ids, as the server runs it
func newTestEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

func doRequest(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData re-decodes the envelope's data into out
func decodeData(t *testing.T, resp dto.Response, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
}


// ===================== Revenue entries =====================

type mockRevenueEntryService struct {
	mock.Mock
}

func (m *mockRevenueEntryService) Create(ctx context.Context, req financeapp.CreateRevenueEntryRequest) (*financeapp.RevenueEntryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.RevenueEntryResponse), args.Error(1)
}

func (m *mockRevenueEntryService) Update(ctx context.Context, id uuid.UUID, req financeapp.UpdateRevenueEntryRequest) (*financeapp.RevenueEntryResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.RevenueEntryResponse), args.Error(1)
}

func (m *mockRevenueEntryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRevenueEntryService) Get(ctx context.Context, id uuid.UUID) (*financeapp.RevenueEntryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.RevenueEntryResponse), args.Error(1)
}

func (m *mockRevenueEntryService) List(ctx context.Context, f financeapp.RevenueEntryListFilter) ([]financeapp.RevenueEntryResponse, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.RevenueEntryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockRevenueEntryService) GetPayouts(ctx context.Context, id uuid.UUID) ([]financeapp.PayoutResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]financeapp.PayoutResponse), args.Error(1)
}

func (m *mockRevenueEntryService) RecomputePayouts(ctx context.Context, id uuid.UUID) ([]financeapp.PayoutResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]financeapp.PayoutResponse), args.Error(1)
}

// ===================== Payouts and rates =====================

type mockPayoutService struct {
	mock.Mock
}

func (m *mockPayoutService) Preview(ctx context.Context, req financeapp.PreviewPayoutsRequest) (*financeapp.PreviewPayoutsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PreviewPayoutsResponse), args.Error(1)
}

func (m *mockPayoutService) List(ctx context.Context, f financeapp.PayoutListFilter) ([]financeapp.PayoutResponse, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.PayoutResponse), args.Get(1).(int64), args.Error(2)
}

type mockPayoutRateService struct {
	mock.Mock
}

func (m *mockPayoutRateService) ListRates(ctx context.Context, filter financeapp.RateListFilter) ([]financeapp.PayoutRateResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]financeapp.PayoutRateResponse), args.Error(1)
}

func (m *mockPayoutRateService) GetRate(ctx context.Context, id uuid.UUID) (*financeapp.PayoutRateResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PayoutRateResponse), args.Error(1)
}

func (m *mockPayoutRateService) CreateRate(ctx context.Context, req financeapp.RateEditRequest) (*financeapp.PayoutRateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PayoutRateResponse), args.Error(1)
}

func (m *mockPayoutRateService) UpdateRate(ctx context.Context, id uuid.UUID, req financeapp.UpdateRateRequest) (*financeapp.PayoutRateResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PayoutRateResponse), args.Error(1)
}

func (m *mockPayoutRateService) SaveRates(ctx context.Context, req financeapp.SaveRatesRequest) (*financeapp.SaveRatesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.SaveRatesResponse), args.Error(1)
}

// ===================== Checks =====================

type mockCheckTrackingService struct {
	mock.Mock
}

func (m *mockCheckTrackingService) Create(ctx context.Context, req financeapp.CheckTrackingRequest) (*financeapp.CheckTrackingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.CheckTrackingResponse), args.Error(1)
}

func (m *mockCheckTrackingService) Get(ctx context.Context, id uuid.UUID) (*financeapp.CheckTrackingResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.CheckTrackingResponse), args.Error(1)
}

func (m *mockCheckTrackingService) Update(ctx context.Context, id uuid.UUID, req financeapp.CheckTrackingRequest) (*financeapp.CheckTrackingResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.CheckTrackingResponse), args.Error(1)
}

func (m *mockCheckTrackingService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCheckTrackingService) List(ctx context.Context, f financeapp.CheckListFilter) ([]financeapp.CheckTrackingResponse, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.CheckTrackingResponse), args.Get(1).(int64), args.Error(2)
}

type mockCheckAuditService struct {
	mock.Mock
}

func (m *mockCheckAuditService) Audit(ctx context.Context, checkID uuid.UUID) (*financeapp.CheckAuditResponse, error) {
	args := m.Called(ctx, checkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.CheckAuditResponse), args.Error(1)
}

func (m *mockCheckAuditService) AuditAll(ctx context.Context, f financeapp.CheckListFilter) ([]financeapp.CheckAuditResponse, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.CheckAuditResponse), args.Get(1).(int64), args.Error(2)
}

// ===================== Expenses and reports =====================

type mockExpenseService struct {
	mock.Mock
}

func (m *mockExpenseService) Create(ctx context.Context, req financeapp.ExpenseRequest) (*financeapp.ExpenseResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.ExpenseResponse), args.Error(1)
}

func (m *mockExpenseService) Get(ctx context.Context, id uuid.UUID) (*financeapp.ExpenseResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.ExpenseResponse), args.Error(1)
}

func (m *mockExpenseService) Update(ctx context.Context, id uuid.UUID, req financeapp.ExpenseRequest) (*financeapp.ExpenseResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.ExpenseResponse), args.Error(1)
}

func (m *mockExpenseService) MarkPaid(ctx context.Context, id uuid.UUID, req financeapp.MarkExpensePaidRequest) (*financeapp.ExpenseResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.ExpenseResponse), args.Error(1)
}

func (m *mockExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockExpenseService) List(ctx context.Context, f financeapp.ExpenseListFilter) ([]financeapp.ExpenseResponse, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.ExpenseResponse), args.Get(1).(int64), args.Error(2)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Daily(ctx context.Context, f financeapp.DailyReportFilter) (*financeapp.DailyReportResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.DailyReportResponse), args.Error(1)
}

func (m *mockReportService) StaffPayouts(ctx context.Context, f financeapp.StaffPayoutReportFilter) (*financeapp.StaffPayoutReportResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.StaffPayoutReportResponse), args.Error(1)
}

// ===================== Directory =====================

// stubDirectory records the last call and answers from fixed values
type stubDirectory struct {
	err      error
	lastID   uuid.UUID
	filter   directoryapp.ListFilter
	house    directoryapp.HouseResponse
	code     directoryapp.ServiceCodeResponse
	staff    directoryapp.StaffResponse
	patient  directoryapp.PatientResponse
	patients []directoryapp.PatientResponse
}

func (s *stubDirectory) CreateHouse(_ context.Context, req directoryapp.CreateHouseRequest) (*directoryapp.HouseResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	h := s.house
	h.Name = req.Name
	return &h, nil
}

func (s *stubDirectory) GetHouse(_ context.Context, id uuid.UUID) (*directoryapp.HouseResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.house, nil
}

func (s *stubDirectory) UpdateHouse(_ context.Context, id uuid.UUID, req directoryapp.UpdateHouseRequest) (*directoryapp.HouseResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	h := s.house
	h.Name = req.Name
	if req.Active != nil {
		h.Active = *req.Active
	}
	return &h, nil
}

func (s *stubDirectory) ListHouses(_ context.Context, f directoryapp.ListFilter) ([]directoryapp.HouseResponse, int64, error) {
	s.filter = f
	return []directoryapp.HouseResponse{s.house}, 1, s.err
}

func (s *stubDirectory) CreateServiceCode(_ context.Context, req directoryapp.CreateServiceCodeRequest) (*directoryapp.ServiceCodeResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := s.code
	c.Code = req.Code
	return &c, nil
}

func (s *stubDirectory) GetServiceCode(_ context.Context, id uuid.UUID) (*directoryapp.ServiceCodeResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.code, nil
}

func (s *stubDirectory) UpdateServiceCode(_ context.Context, id uuid.UUID, _ directoryapp.UpdateServiceCodeRequest) (*directoryapp.ServiceCodeResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.code, nil
}

func (s *stubDirectory) ListServiceCodes(_ context.Context, f directoryapp.ListFilter) ([]directoryapp.ServiceCodeResponse, int64, error) {
	s.filter = f
	return []directoryapp.ServiceCodeResponse{s.code}, 1, s.err
}

func (s *stubDirectory) CreateStaff(_ context.Context, req directoryapp.CreateStaffRequest) (*directoryapp.StaffResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	st := s.staff
	st.Name = req.Name
	return &st, nil
}

func (s *stubDirectory) GetStaff(_ context.Context, id uuid.UUID) (*directoryapp.StaffResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.staff, nil
}

func (s *stubDirectory) UpdateStaff(_ context.Context, id uuid.UUID, _ directoryapp.UpdateStaffRequest) (*directoryapp.StaffResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.staff, nil
}

func (s *stubDirectory) ListStaff(_ context.Context, f directoryapp.ListFilter) ([]directoryapp.StaffResponse, int64, error) {
	s.filter = f
	return []directoryapp.StaffResponse{s.staff}, 1, s.err
}

func (s *stubDirectory) CreatePatient(_ context.Context, req directoryapp.PatientRequest) (*directoryapp.PatientResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := s.patient
	p.Name = req.Name
	return &p, nil
}

func (s *stubDirectory) GetPatient(_ context.Context, id uuid.UUID) (*directoryapp.PatientResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.patient, nil
}

func (s *stubDirectory) UpdatePatient(_ context.Context, id uuid.UUID, _ directoryapp.PatientRequest) (*directoryapp.PatientResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &s.patient, nil
}

func (s *stubDirectory) ListPatients(_ context.Context, f directoryapp.ListFilter) ([]directoryapp.PatientResponse, int64, error) {
	s.filter = f
	return s.patients, int64(len(s.patients)), s.err
}
