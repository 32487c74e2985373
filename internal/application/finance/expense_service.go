package finance

import (
	"context"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpenseService manages expenses
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, logger *zap.Logger) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// Create records a pending expense
func (s *ExpenseService) Create(ctx context.Context, req ExpenseRequest) (*ExpenseResponse, error) {
	params, err := req.toParams()
	if err != nil {
		return nil, err
	}
	expense, err := finance.NewExpense(params)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

// Get returns an expense by ID
func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

// Update replaces the details of an unpaid expense
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params, err := req.toParams()
	if err != nil {
		return nil, err
	}
	if err := expense.Update(params); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

// MarkPaid records payment of an expense, today unless a date is given
func (s *ExpenseService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkExpensePaidRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	paidAt := time.Now().UTC().Truncate(24 * time.Hour)
	if req.PaidAt != "" {
		if paidAt, err = parseDate("paid_at", req.PaidAt); err != nil {
			return nil, err
		}
	}
	if err := expense.MarkPaid(paidAt); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.logger.Info("expense paid",
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)
	resp := toExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}

// List returns expenses matching the filter
func (s *ExpenseService) List(ctx context.Context, f ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	filter := finance.ExpenseFilter{Filter: pageOf(f.Page, f.PageSize)}
	filter.OrderBy = "date"
	var err error
	if filter.From, err = parseOptionalDate("from", f.From); err != nil {
		return nil, 0, err
	}
	if filter.To, err = parseOptionalDate("to", f.To); err != nil {
		return nil, 0, err
	}
	if f.Status != "" {
		status := finance.ExpenseStatus(f.Status)
		filter.Status = &status
	}
	if f.Category != "" {
		category := f.Category
		filter.Category = &category
	}

	expenses, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = toExpenseResponse(&expenses[i])
	}
	return out, total, nil
}
