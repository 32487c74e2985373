package finance

import (
	"context"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckTrackingService manages check records
type CheckTrackingService struct {
	checkRepo finance.CheckTrackingRepository
	logger    *zap.Logger
}

// NewCheckTrackingService creates a new CheckTrackingService
func NewCheckTrackingService(checkRepo finance.CheckTrackingRepository, logger *zap.Logger) *CheckTrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckTrackingService{
		checkRepo: checkRepo,
		logger:    logger,
	}
}

// Create records a check
func (s *CheckTrackingService) Create(ctx context.Context, req CheckTrackingRequest) (*CheckTrackingResponse, error) {
	params, err := req.toParams()
	if err != nil {
		return nil, err
	}
	check, err := finance.NewCheckTracking(params)
	if err != nil {
		return nil, err
	}
	if err := s.checkRepo.Save(ctx, check); err != nil {
		return nil, err
	}
	s.logger.Info("check recorded",
		zap.String("check_id", check.ID.String()),
		zap.String("check_number", check.CheckNumber),
	)
	resp := toCheckTrackingResponse(check)
	return &resp, nil
}

// Get returns a check by ID
func (s *CheckTrackingService) Get(ctx context.Context, id uuid.UUID) (*CheckTrackingResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCheckTrackingResponse(check)
	return &resp, nil
}

// Update replaces a check's fields
func (s *CheckTrackingService) Update(ctx context.Context, id uuid.UUID, req CheckTrackingRequest) (*CheckTrackingResponse, error) {
	check, err := s.checkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params, err := req.toParams()
	if err != nil {
		return nil, err
	}
	if err := check.Update(params); err != nil {
		return nil, err
	}
	if err := s.checkRepo.Save(ctx, check); err != nil {
		return nil, err
	}
	resp := toCheckTrackingResponse(check)
	return &resp, nil
}

// Delete removes a check record. Revenue entries carrying its number are left untouched.
func (s *CheckTrackingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.checkRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.checkRepo.Delete(ctx, id)
}

// List returns checks matching the filter
func (s *CheckTrackingService) List(ctx context.Context, f CheckListFilter) ([]CheckTrackingResponse, int64, error) {
	filter, err := toCheckTrackingFilter(f)
	if err != nil {
		return nil, 0, err
	}
	checks, err := s.checkRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.checkRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CheckTrackingResponse, len(checks))
	for i := range checks {
		out[i] = toCheckTrackingResponse(&checks[i])
	}
	return out, total, nil
}

func toCheckTrackingFilter(f CheckListFilter) (finance.CheckTrackingFilter, error) {
	filter := finance.CheckTrackingFilter{Filter: pageOf(f.Page, f.PageSize)}
	filter.OrderBy = "check_date"
	var err error
	if filter.From, err = parseOptionalDate("from", f.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseOptionalDate("to", f.To); err != nil {
		return filter, err
	}
	if f.ServiceProvider != "" {
		provider := f.ServiceProvider
		filter.ServiceProvider = &provider
	}
	if f.CheckNumber != "" {
		number := f.CheckNumber
		filter.CheckNumber = &number
	}
	return filter, nil
}
