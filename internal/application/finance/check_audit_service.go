package finance

import (
	"context"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckAuditService reconciles checks against the revenue entries sharing their number.
// It only reads; neither checks nor entries are ever modified by an audit.
type CheckAuditService struct {
	checkRepo       finance.CheckTrackingRepository
	entryRepo       finance.RevenueEntryRepository
	houseRepo       directory.HouseRepository
	serviceCodeRepo directory.ServiceCodeRepository
	patientRepo     directory.PatientRepository
	metrics         *telemetry.PayoutMetrics
	logger          *zap.Logger
}

// NewCheckAuditService creates a new CheckAuditService
func NewCheckAuditService(
	checkRepo finance.CheckTrackingRepository,
	entryRepo finance.RevenueEntryRepository,
	houseRepo directory.HouseRepository,
	serviceCodeRepo directory.ServiceCodeRepository,
	patientRepo directory.PatientRepository,
	logger *zap.Logger,
) *CheckAuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckAuditService{
		checkRepo:       checkRepo,
		entryRepo:       entryRepo,
		houseRepo:       houseRepo,
		serviceCodeRepo: serviceCodeRepo,
		patientRepo:     patientRepo,
		logger:          logger,
	}
}

// SetMetrics sets the payout metrics recorder
func (s *CheckAuditService) SetMetrics(m *telemetry.PayoutMetrics) {
	s.metrics = m
}

// Audit reconciles one check and lists its matched entries with display names
func (s *CheckAuditService) Audit(ctx context.Context, checkID uuid.UUID) (*CheckAuditResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "check_audit", "audit")
	defer span.End()

	check, err := s.checkRepo.FindByID(ctx, checkID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindByCheckNumber(ctx, check.CheckNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report := finance.Reconcile(check, entries)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCheckID, check.ID.String(),
		telemetry.SpanAttrCheckNumber, check.CheckNumber,
		telemetry.SpanAttrAuditStatus, string(report.Status),
	)
	if s.metrics != nil {
		s.metrics.RecordAudit(ctx, string(report.Status))
	}

	resp := toCheckAuditResponse(report)
	resp.Entries, err = s.enrich(ctx, report.Entries)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AuditAll reconciles every check on the requested page. Entries are not listed.
func (s *CheckAuditService) AuditAll(ctx context.Context, f CheckListFilter) ([]CheckAuditResponse, int64, error) {
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
	if len(checks) == 0 {
		return []CheckAuditResponse{}, total, nil
	}

	numbers := make([]string, 0, len(checks))
	for i := range checks {
		numbers = append(numbers, checks[i].CheckNumber)
	}
	entries, err := s.entryRepo.FindByCheckNumbers(ctx, numbers)
	if err != nil {
		return nil, 0, err
	}
	byNumber := make(map[string][]finance.RevenueEntry)
	for _, e := range entries {
		byNumber[e.CheckNumber] = append(byNumber[e.CheckNumber], e)
	}

	out := make([]CheckAuditResponse, len(checks))
	unbalanced := 0
	for i := range checks {
		report := finance.Reconcile(&checks[i], byNumber[checks[i].CheckNumber])
		if !report.Balanced {
			unbalanced++
		}
		out[i] = toCheckAuditResponse(report)
	}
	s.logger.Debug("checks audited",
		zap.Int("checks", len(checks)),
		zap.Int("unbalanced", unbalanced),
	)
	return out, total, nil
}

// enrich resolves house, service code and patient display names for matched entries
func (s *CheckAuditService) enrich(ctx context.Context, entries []finance.RevenueEntry) ([]AuditEntryResponse, error) {
	out := make([]AuditEntryResponse, len(entries))
	if len(entries) == 0 {
		return out, nil
	}

	var houseIDs, codeIDs, patientIDs []uuid.UUID
	for _, e := range entries {
		houseIDs = append(houseIDs, e.HouseID)
		codeIDs = append(codeIDs, e.ServiceCodeID)
		if e.PatientID != nil {
			patientIDs = append(patientIDs, *e.PatientID)
		}
	}

	houseNames := make(map[uuid.UUID]string)
	houses, err := s.houseRepo.FindByIDs(ctx, uniqueIDs(houseIDs))
	if err != nil {
		return nil, err
	}
	for i := range houses {
		houseNames[houses[i].ID] = houses[i].Name
	}

	codeNames := make(map[uuid.UUID]string)
	codes, err := s.serviceCodeRepo.FindByIDs(ctx, uniqueIDs(codeIDs))
	if err != nil {
		return nil, err
	}
	for i := range codes {
		codeNames[codes[i].ID] = codes[i].DisplayName()
	}

	patientNames := make(map[uuid.UUID]string)
	if len(patientIDs) > 0 {
		patients, err := s.patientRepo.FindByIDs(ctx, uniqueIDs(patientIDs))
		if err != nil {
			return nil, err
		}
		for i := range patients {
			patientNames[patients[i].ID] = patients[i].Name
		}
	}

	for i, e := range entries {
		out[i] = AuditEntryResponse{
			ID:              e.ID,
			Date:            formatDate(e.Date),
			CheckDate:       formatOptionalDate(e.CheckDate),
			Amount:          e.Amount,
			HouseID:         e.HouseID,
			HouseName:       houseNames[e.HouseID],
			ServiceCodeID:   e.ServiceCodeID,
			ServiceCodeName: codeNames[e.ServiceCodeID],
			PatientID:       e.PatientID,
			Status:          string(e.Status),
			Notes:           e.Notes,
		}
		if e.PatientID != nil {
			out[i].PatientName = patientNames[*e.PatientID]
		}
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
