package budget

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
	"github.com/simaogato/moneymaster-backend/internal/records"
)

// AddBudgetInput represents the input for creating a monthly budget
type AddBudgetInput struct {
	CategoryID int64
	Amount     decimal.Decimal
	Month      int
	Year       int
}

// EditBudgetInput carries the budget fields to change; nil fields keep their value
type EditBudgetInput struct {
	CategoryID *int64
	Amount     *decimal.Decimal
	Month      *int
	Year       *int
}

// BudgetService manages monthly category budgets
type BudgetService struct {
	Store *records.Store
	Now   func() time.Time

	logger *log.Logger
	mu     sync.Mutex
}

// NewBudgetService creates a new BudgetService instance
func NewBudgetService(store *records.Store, logger *log.Logger) *BudgetService {
	return &BudgetService{
		Store:  store,
		Now:    time.Now,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentBudget),
	}
}

// Add creates a budget for an expense category.
// Several budgets for the same category and month are accepted; readers use the first.
func (s *BudgetService) Add(ctx context.Context, input AddBudgetInput) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := domain.Budget{
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Month:      input.Month,
		Year:       input.Year,
		CreatedAt:  s.Now(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, b.CategoryID); err != nil {
		return nil, err
	}

	budgets, err := s.Store.LoadBudgets(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.Store.NextID(ctx, domain.CounterBudget)
	if err != nil {
		return nil, err
	}
	b.ID = id
	budgets = append(budgets, b)

	if err := s.Store.Begin().PutBudgets(budgets).Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "budget added",
		log.FieldBudgetID, b.ID,
		log.FieldMonth, b.Month,
		log.FieldYear, b.Year)
	return &b, nil
}

// Edit changes a budget
func (s *BudgetService) Edit(ctx context.Context, id int64, input EditBudgetInput) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	budgets, err := s.Store.LoadBudgets(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(budgets, func(b domain.Budget) bool { return b.ID == id })
	if idx < 0 {
		return nil, domain.NewNotFoundError("budget", id)
	}

	updated := budgets[idx]
	if input.CategoryID != nil {
		updated.CategoryID = *input.CategoryID
	}
	if input.Amount != nil {
		updated.Amount = *input.Amount
	}
	if input.Month != nil {
		updated.Month = *input.Month
	}
	if input.Year != nil {
		updated.Year = *input.Year
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, updated.CategoryID); err != nil {
		return nil, err
	}

	now := s.Now()
	updated.UpdatedAt = &now
	budgets[idx] = updated

	if err := s.Store.Begin().PutBudgets(budgets).Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "budget edited", log.FieldBudgetID, id)
	return &updated, nil
}

// Delete removes a budget
func (s *BudgetService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	budgets, err := s.Store.LoadBudgets(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(budgets, func(b domain.Budget) bool { return b.ID == id })
	if idx < 0 {
		return domain.NewNotFoundError("budget", id)
	}
	budgets = slices.Delete(budgets, idx, idx+1)

	if err := s.Store.Begin().PutBudgets(budgets).Commit(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "budget deleted", log.FieldBudgetID, id)
	return nil
}

// List returns the budgets of a month, or every budget when month or year is 0
func (s *BudgetService) List(ctx context.Context, month, year int) []domain.Budget {
	all := s.Store.Budgets(ctx)
	if month == 0 || year == 0 {
		return all
	}
	out := make([]domain.Budget, 0, len(all))
	for _, b := range all {
		if b.Covers(month, year) {
			out = append(out, b)
		}
	}
	return out
}

func (s *BudgetService) checkCategory(ctx context.Context, id int64) error {
	for _, c := range s.Store.Categories(ctx) {
		if c.ID != id {
			continue
		}
		if c.Type != domain.TransactionTypeExpense {
			return domain.NewValidationError("categoryId", "budgets apply to expense categories only")
		}
		return nil
	}
	return domain.NewNotFoundError("category", id)
}
