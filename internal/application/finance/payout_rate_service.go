package finance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutRateService maintains the rate table. Every write, single row or batch, goes
// through merge, validate and upsert so no (house, service code) pair can exceed 100%.
type PayoutRateService struct {
	rateRepo        finance.PayoutRateRepository
	houseRepo       directory.HouseRepository
	serviceCodeRepo directory.ServiceCodeRepository
	staffRepo       directory.StaffRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	metrics         *telemetry.PayoutMetrics
	logger          *zap.Logger

	// saveMu serializes rate saves within the process; two concurrent batches
	// validated against the same snapshot could otherwise jointly exceed 100%.
	saveMu sync.Mutex
}

// NewPayoutRateService creates a new PayoutRateService
func NewPayoutRateService(
	rateRepo finance.PayoutRateRepository,
	houseRepo directory.HouseRepository,
	serviceCodeRepo directory.ServiceCodeRepository,
	staffRepo directory.StaffRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *PayoutRateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayoutRateService{
		rateRepo:        rateRepo,
		houseRepo:       houseRepo,
		serviceCodeRepo: serviceCodeRepo,
		staffRepo:       staffRepo,
		txScope:         txScope,
		logger:          logger,
	}
}

// SetEventPublisher sets the publisher for PayoutRatesChanged events
func (s *PayoutRateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the payout metrics recorder
func (s *PayoutRateService) SetMetrics(m *telemetry.PayoutMetrics) {
	s.metrics = m
}

// ListRates returns the rate table, optionally narrowed to a house and/or service code
func (s *PayoutRateService) ListRates(ctx context.Context, filter RateListFilter) ([]PayoutRateResponse, error) {
	houseID, err := parseOptionalUUID("house_id", filter.HouseID)
	if err != nil {
		return nil, err
	}
	serviceCodeID, err := parseOptionalUUID("service_code_id", filter.ServiceCodeID)
	if err != nil {
		return nil, err
	}
	rates, err := s.rateRepo.FindAll(ctx, houseID, serviceCodeID)
	if err != nil {
		return nil, err
	}
	out := make([]PayoutRateResponse, len(rates))
	for i := range rates {
		out[i] = toPayoutRateResponse(&rates[i])
	}
	return out, nil
}

// GetRate returns one rate row
func (s *PayoutRateService) GetRate(ctx context.Context, id uuid.UUID) (*PayoutRateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPayoutRateResponse(rate)
	return &resp, nil
}

// CreateRate sets the percentage of one triple (inserting or updating it)
func (s *PayoutRateService) CreateRate(ctx context.Context, req RateEditRequest) (*PayoutRateResponse, error) {
	edit := req.toEdit()
	saved, err := s.SaveRates(ctx, SaveRatesRequest{Rates: []RateEditRequest{req}})
	if err != nil {
		return nil, err
	}
	return findSavedRate(saved, edit)
}

// UpdateRate changes the percentage of an existing rate row
func (s *PayoutRateService) UpdateRate(ctx context.Context, id uuid.UUID, req UpdateRateRequest) (*PayoutRateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	edit := RateEditRequest{
		HouseID:       rate.HouseID,
		ServiceCodeID: rate.ServiceCodeID,
		StaffID:       rate.StaffID,
		Percentage:    req.Percentage,
	}
	saved, err := s.SaveRates(ctx, SaveRatesRequest{Rates: []RateEditRequest{edit}})
	if err != nil {
		return nil, err
	}
	return findSavedRate(saved, edit.toEdit())
}

// SaveRates applies a batch of edits all-or-nothing. The edits are overlaid on the
// persisted rows of every pair they touch and the merged table is validated; when any
// pair would exceed 100% a *finance.RateSumViolationError is returned and nothing is written.
// Existing payouts are not recomputed: they keep the rates in force at their entry's last save.
func (s *PayoutRateService) SaveRates(ctx context.Context, req SaveRatesRequest) (*SaveRatesResponse, error) {
	edits := make([]finance.RateEdit, len(req.Rates))
	for i, r := range req.Rates {
		edits[i] = r.toEdit()
	}
	if err := finance.ValidateRateEdits(edits); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, edits); err != nil {
		return nil, err
	}

	keys := finance.AffectedKeys(edits)
	var saved []finance.PayoutRate

	s.saveMu.Lock()
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.PayoutRateRepo().FindByKeys(ctx, keys)
		if err != nil {
			return err
		}
		if err := finance.ValidateRates(finance.MergeRateEdits(existing, edits)); err != nil {
			return err
		}

		rows, err := buildRateRows(existing, edits)
		if err != nil {
			return err
		}
		if err := repos.PayoutRateRepo().Upsert(ctx, rows); err != nil {
			return err
		}

		saved, err = repos.PayoutRateRepo().FindByKeys(ctx, keys)
		return err
	})
	s.saveMu.Unlock()

	if err != nil {
		var violation *finance.RateSumViolationError
		if errors.As(err, &violation) {
			s.logger.Info("rate batch rejected",
				zap.Int("edits", len(edits)),
				zap.Int("violations", len(violation.Violations)),
			)
			if s.metrics != nil {
				s.metrics.RecordRateSave(ctx, telemetry.RateSaveRejected)
			}
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordRateSave(ctx, telemetry.RateSaveAccepted)
	}
	s.logger.Info("rate batch saved",
		zap.Int("edits", len(edits)),
		zap.Int("pairs", len(keys)),
	)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, finance.NewPayoutRatesChangedEvent(keys)); err != nil {
			s.logger.Warn("failed to publish rate change event", zap.Error(err))
		}
	}

	table := finance.NewRateTable(saved)
	resp := &SaveRatesResponse{
		Rates:  make([]PayoutRateResponse, len(saved)),
		Totals: make([]RateKeyTotal, len(keys)),
	}
	for i := range saved {
		resp.Rates[i] = toPayoutRateResponse(&saved[i])
	}
	for i, key := range keys {
		resp.Totals[i] = RateKeyTotal{
			HouseID:       key.HouseID,
			ServiceCodeID: key.ServiceCodeID,
			Total:         table.TotalFor(key),
		}
	}
	return resp, nil
}

// buildRateRows turns edits into rows to upsert, reusing the persisted row of a triple
func buildRateRows(existing []finance.PayoutRate, edits []finance.RateEdit) ([]finance.PayoutRate, error) {
	rows := make([]finance.PayoutRate, 0, len(edits))
	for _, e := range edits {
		pct, err := valueobject.NewPercentage(e.Percentage)
		if err != nil {
			return nil, shared.WrapDomainError(shared.CodeInvalidInput, err.Error(), err)
		}

		var row *finance.PayoutRate
		for i := range existing {
			if existing[i].Matches(e.HouseID, e.ServiceCodeID, e.StaffID) {
				current := existing[i]
				row = &current
				break
			}
		}
		if row == nil {
			row, err = finance.NewPayoutRate(e.HouseID, e.ServiceCodeID, e.StaffID, pct)
			if err != nil {
				return nil, err
			}
		} else {
			row.ChangePercentage(pct)
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

// checkReferences verifies every house, service code and staff member of the batch exists
func (s *PayoutRateService) checkReferences(ctx context.Context, edits []finance.RateEdit) error {
	var houseIDs, codeIDs, staffIDs []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	collect := func(ids *[]uuid.UUID, id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		*ids = append(*ids, id)
	}
	for _, e := range edits {
		collect(&houseIDs, e.HouseID)
		collect(&codeIDs, e.ServiceCodeID)
		collect(&staffIDs, e.StaffID)
	}

	houses, err := s.houseRepo.FindByIDs(ctx, houseIDs)
	if err != nil {
		return err
	}
	if len(houses) != len(houseIDs) {
		return shared.NewDomainError(shared.CodeInvalidReference, "One or more houses do not exist")
	}
	codes, err := s.serviceCodeRepo.FindByIDs(ctx, codeIDs)
	if err != nil {
		return err
	}
	if len(codes) != len(codeIDs) {
		return shared.NewDomainError(shared.CodeInvalidReference, "One or more service codes do not exist")
	}
	staff, err := s.staffRepo.FindByIDs(ctx, staffIDs)
	if err != nil {
		return err
	}
	if len(staff) != len(staffIDs) {
		return shared.NewDomainError(shared.CodeInvalidReference, "One or more staff members do not exist")
	}
	return nil
}

func findSavedRate(saved *SaveRatesResponse, edit finance.RateEdit) (*PayoutRateResponse, error) {
	for i := range saved.Rates {
		r := saved.Rates[i]
		if r.HouseID == edit.HouseID && r.ServiceCodeID == edit.ServiceCodeID && r.StaffID == edit.StaffID {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("saved rate for staff %s not found", edit.StaffID)
}
