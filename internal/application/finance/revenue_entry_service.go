package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RevenueEntryService manages revenue entries and keeps their payouts in step.
//
// Create and update follow a two-phase protocol. Phase one stores the entry together
// with a recompute job in one transaction. Phase two runs the job inline. When phase
// two fails the entry stays saved, the job is left queued for the background processor
// and the caller gets the entry along with a *PayoutRecomputeError.
type RevenueEntryService struct {
	entryRepo       finance.RevenueEntryRepository
	payoutRepo      finance.PayoutRepository
	houseRepo       directory.HouseRepository
	serviceCodeRepo directory.ServiceCodeRepository
	patientRepo     directory.PatientRepository
	staffRepo       directory.StaffRepository
	txScope         TransactionScope
	recomputer      *PayoutRecomputer
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewRevenueEntryService creates a new RevenueEntryService
func NewRevenueEntryService(
	entryRepo finance.RevenueEntryRepository,
	payoutRepo finance.PayoutRepository,
	houseRepo directory.HouseRepository,
	serviceCodeRepo directory.ServiceCodeRepository,
	patientRepo directory.PatientRepository,
	staffRepo directory.StaffRepository,
	txScope TransactionScope,
	recomputer *PayoutRecomputer,
	logger *zap.Logger,
) *RevenueEntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevenueEntryService{
		entryRepo:       entryRepo,
		payoutRepo:      payoutRepo,
		houseRepo:       houseRepo,
		serviceCodeRepo: serviceCodeRepo,
		patientRepo:     patientRepo,
		staffRepo:       staffRepo,
		txScope:         txScope,
		recomputer:      recomputer,
		logger:          logger,
	}
}

// SetEventPublisher sets the publisher for revenue entry events
func (s *RevenueEntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a revenue entry and computes its payouts.
// A non-nil response with a *PayoutRecomputeError means the entry was saved but its
// payouts are still owed.
func (s *RevenueEntryService) Create(ctx context.Context, req CreateRevenueEntryRequest) (*RevenueEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "revenue_entry", "create")
	defer span.End()

	params, err := req.toParams()
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, params); err != nil {
		return nil, err
	}
	entry, err := finance.NewRevenueEntry(params)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntryID, entry.ID.String(),
		telemetry.SpanAttrHouseID, entry.HouseID.String(),
		telemetry.SpanAttrServiceCodeID, entry.ServiceCodeID.String(),
		telemetry.SpanAttrAmount, entry.Amount.String(),
	)

	job := s.recomputer.NewInlineJob(entry.ID, finance.RecomputeReasonCreated)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RevenueEntryRepo().Save(ctx, entry); err != nil {
			return err
		}
		return repos.RecomputeJobRepo().Save(ctx, job)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, entry)

	return s.recompute(ctx, entry, job)
}

// Update patches a revenue entry and recomputes its payouts. Every update recomputes,
// so re-saving an entry unchanged repairs its payouts.
func (s *RevenueEntryService) Update(ctx context.Context, id uuid.UUID, req UpdateRevenueEntryRequest) (*RevenueEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "revenue_entry", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrEntryID, id.String())

	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params, err := req.applyTo(entry)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, params); err != nil {
		return nil, err
	}
	if err := entry.Update(params); err != nil {
		return nil, err
	}

	job := s.recomputer.NewInlineJob(entry.ID, finance.RecomputeReasonUpdated)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Older jobs would only redo the work of this one
		if err := repos.RecomputeJobRepo().CancelOpenForEntry(ctx, entry.ID); err != nil {
			return err
		}
		if err := repos.RevenueEntryRepo().Save(ctx, entry); err != nil {
			return err
		}
		return repos.RecomputeJobRepo().Save(ctx, job)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, entry)

	return s.recompute(ctx, entry, job)
}

// Delete removes the entry, its payouts and its open recompute jobs in one transaction
func (s *RevenueEntryService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.PayoutRepo().DeleteByEntry(ctx, id); err != nil {
			return err
		}
		if err := repos.RecomputeJobRepo().CancelOpenForEntry(ctx, id); err != nil {
			return err
		}
		return repos.RevenueEntryRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	entry.MarkDeleted()
	s.publishEvents(ctx, entry)
	s.logger.Info("revenue entry deleted",
		zap.String("entry_id", id.String()),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	return nil
}

// Get returns a revenue entry by ID
func (s *RevenueEntryService) Get(ctx context.Context, id uuid.UUID) (*RevenueEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRevenueEntryResponse(entry)
	return &resp, nil
}

// List returns revenue entries matching the filter
func (s *RevenueEntryService) List(ctx context.Context, f RevenueEntryListFilter) ([]RevenueEntryResponse, int64, error) {
	filter, err := toRevenueEntryFilter(f)
	if err != nil {
		return nil, 0, err
	}
	entries, err := s.entryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RevenueEntryResponse, len(entries))
	for i := range entries {
		out[i] = toRevenueEntryResponse(&entries[i])
	}
	return out, total, nil
}

// GetPayouts returns the stored payouts of an entry with staff names
func (s *RevenueEntryService) GetPayouts(ctx context.Context, id uuid.UUID) ([]PayoutResponse, error) {
	if _, err := s.entryRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	payouts, err := s.payoutRepo.FindByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := staffNames(ctx, s.staffRepo, payouts)
	if err != nil {
		return nil, err
	}
	return toPayoutResponses(payouts, names), nil
}

// RecomputePayouts is the operator repair command: it recomputes one entry on demand
func (s *RevenueEntryService) RecomputePayouts(ctx context.Context, id uuid.UUID) ([]PayoutResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job := s.recomputer.NewInlineJob(entry.ID, finance.RecomputeReasonManual)
	if err := s.recomputer.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	if err := s.recomputer.Run(ctx, job); err != nil {
		return nil, &PayoutRecomputeError{EntryID: entry.ID, JobID: job.ID, Err: err}
	}
	return s.GetPayouts(ctx, id)
}

// recompute runs phase two for a freshly saved entry
func (s *RevenueEntryService) recompute(ctx context.Context, entry *finance.RevenueEntry, job *finance.PayoutRecomputeJob) (*RevenueEntryResponse, error) {
	if err := s.recomputer.Run(ctx, job); err != nil {
		s.logger.Warn("revenue entry saved but payouts pending",
			zap.String("entry_id", entry.ID.String()),
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		resp := toRevenueEntryResponse(entry)
		return &resp, &PayoutRecomputeError{EntryID: entry.ID, JobID: job.ID, Err: err}
	}
	entry.PayoutsVersion = entry.Version
	resp := toRevenueEntryResponse(entry)
	return &resp, nil
}

// checkReferences rejects entries pointing at houses, service codes or patients that do not exist
func (s *RevenueEntryService) checkReferences(ctx context.Context, p finance.RevenueEntryParams) error {
	if p.HouseID != uuid.Nil {
		if _, err := s.houseRepo.FindByID(ctx, p.HouseID); err != nil {
			return referenceError("House", p.HouseID, err)
		}
	}
	if p.ServiceCodeID != uuid.Nil {
		if _, err := s.serviceCodeRepo.FindByID(ctx, p.ServiceCodeID); err != nil {
			return referenceError("Service code", p.ServiceCodeID, err)
		}
	}
	if p.PatientID != nil && *p.PatientID != uuid.Nil {
		if _, err := s.patientRepo.FindByID(ctx, *p.PatientID); err != nil {
			return referenceError("Patient", *p.PatientID, err)
		}
	}
	return nil
}

func (s *RevenueEntryService) publishEvents(ctx context.Context, entry *finance.RevenueEntry) {
	if s.eventPublisher != nil {
		for _, event := range entry.GetDomainEvents() {
			if err := s.eventPublisher.Publish(ctx, event); err != nil {
				s.logger.Warn("failed to publish revenue entry event",
					zap.String("event_type", event.EventType()),
					zap.Error(err),
				)
			}
		}
	}
	entry.ClearDomainEvents()
}

func referenceError(kind string, id uuid.UUID, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(shared.CodeInvalidReference, fmt.Sprintf("%s %s does not exist", kind, id))
	}
	return err
}

func toRevenueEntryFilter(f RevenueEntryListFilter) (finance.RevenueEntryFilter, error) {
	filter := finance.RevenueEntryFilter{Filter: pageOf(f.Page, f.PageSize)}
	filter.Search = f.Search
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}

	var err error
	if filter.From, err = parseOptionalDate("from", f.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseOptionalDate("to", f.To); err != nil {
		return filter, err
	}
	if filter.CheckFrom, err = parseOptionalDate("check_from", f.CheckFrom); err != nil {
		return filter, err
	}
	if filter.CheckTo, err = parseOptionalDate("check_to", f.CheckTo); err != nil {
		return filter, err
	}
	if filter.HouseID, err = parseOptionalUUID("house_id", f.HouseID); err != nil {
		return filter, err
	}
	if filter.ServiceCodeID, err = parseOptionalUUID("service_code_id", f.ServiceCodeID); err != nil {
		return filter, err
	}
	if filter.PatientID, err = parseOptionalUUID("patient_id", f.PatientID); err != nil {
		return filter, err
	}
	if f.CheckNumber != "" {
		checkNumber := f.CheckNumber
		filter.CheckNumber = &checkNumber
	}
	if f.Status != "" {
		status := finance.RevenueStatus(f.Status)
		filter.Status = &status
	}
	return filter, nil
}

// staffNames resolves the names of the staff members referenced by payouts
func staffNames(ctx context.Context, repo directory.StaffRepository, payouts []finance.Payout) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	if len(payouts) == 0 {
		return names, nil
	}
	ids := make([]uuid.UUID, 0, len(payouts))
	for _, p := range payouts {
		if _, ok := names[p.StaffID]; ok {
			continue
		}
		names[p.StaffID] = ""
		ids = append(ids, p.StaffID)
	}
	staff, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range staff {
		names[staff[i].ID] = staff[i].Name
	}
	return names, nil
}
