package finance

import (
	"context"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PayoutService serves read-only payout views: the pre-save preview and the stored payout list
type PayoutService struct {
	rateRepo   finance.PayoutRateRepository
	staffRepo  directory.StaffRepository
	payoutRepo finance.PayoutRepository
	cache      RateTableCache
	logger     *zap.Logger
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(
	rateRepo finance.PayoutRateRepository,
	staffRepo directory.StaffRepository,
	payoutRepo finance.PayoutRepository,
	logger *zap.Logger,
) *PayoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayoutService{
		rateRepo:   rateRepo,
		staffRepo:  staffRepo,
		payoutRepo: payoutRepo,
		logger:     logger,
	}
}

// SetRateTableCache enables caching of rate rows for previews
func (s *PayoutService) SetRateTableCache(cache RateTableCache) {
	s.cache = cache
}

// Preview computes the split of an unsaved amount. Unlike stored payouts it lists every
// staff member, including those at 0%. House and service code are not checked for existence.
func (s *PayoutService) Preview(ctx context.Context, req PreviewPayoutsRequest) (*PreviewPayoutsResponse, error) {
	amount := valueobject.ZeroMoney()
	if req.Amount != nil {
		amount = valueobject.NewMoney(*req.Amount)
	}
	if err := finance.ValidateRevenueAmount(amount); err != nil {
		return nil, err
	}

	key := finance.RateKey{HouseID: req.HouseID, ServiceCodeID: req.ServiceCodeID}
	rates, err := s.ratesFor(ctx, key)
	if err != nil {
		return nil, err
	}
	roster, err := s.staffRepo.FindRoster(ctx)
	if err != nil {
		return nil, err
	}

	lines := finance.ComputePayouts(amount, req.HouseID, req.ServiceCodeID, finance.NewRateTable(rates), directory.Refs(roster))
	allocated := finance.SumLines(lines)
	return &PreviewPayoutsResponse{
		Amount:      amount.Amount(),
		Lines:       toPayoutLineResponses(lines),
		Allocated:   allocated.Amount(),
		Unallocated: amount.Subtract(allocated).Amount(),
	}, nil
}

// List returns stored payouts, optionally for one staff member and a service date range
func (s *PayoutService) List(ctx context.Context, f PayoutListFilter) ([]PayoutResponse, int64, error) {
	filter := finance.PayoutFilter{Filter: pageOf(f.Page, f.PageSize)}
	var err error
	if filter.StaffID, err = parseOptionalUUID("staff_id", f.StaffID); err != nil {
		return nil, 0, err
	}
	if filter.From, err = parseOptionalDate("from", f.From); err != nil {
		return nil, 0, err
	}
	if filter.To, err = parseOptionalDate("to", f.To); err != nil {
		return nil, 0, err
	}

	payouts, err := s.payoutRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payoutRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	names, err := staffNames(ctx, s.staffRepo, payouts)
	if err != nil {
		return nil, 0, err
	}
	return toPayoutResponses(payouts, names), total, nil
}

// ratesFor reads the pair's rate rows through the cache. Cache errors fall back to the database.
func (s *PayoutService) ratesFor(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, error) {
	if s.cache != nil {
		rates, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("rate cache read failed", zap.Error(err))
		} else if found {
			return rates, nil
		}
	}

	rates, err := s.rateRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rates); err != nil {
			s.logger.Warn("rate cache write failed", zap.Error(err))
		}
	}
	return rates, nil
}
