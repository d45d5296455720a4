package query

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/records"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the expense sum of one category
type CategoryTotal struct {
	CategoryID int64
	Name       string
	Color      string
	Total      decimal.Decimal
	Percentage decimal.Decimal // share of the expense total the breakdown was built from
}

// MonthTotals holds income and expense sums of one calendar month
type MonthTotals struct {
	Year    int
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// Utilization reports how much of a monthly budget was spent.
// Limited is false when there is no budget or its amount is zero; Percentage
// is then zero and must be read as "no limit".
type Utilization struct {
	BudgetID   int64
	CategoryID int64
	Month      int
	Year       int
	Budget     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	Limited    bool
}

// QueryService derives read models from the raw collections.
// Nothing is cached: every call recomputes from the store.
type QueryService struct {
	Store *records.Store
	Now   func() time.Time
}

// NewQueryService creates a new QueryService instance
func NewQueryService(store *records.Store) *QueryService {
	return &QueryService{
		Store: store,
		Now:   time.Now,
	}
}

// FilterTransactions returns the transactions matching the criteria, most recent first.
// An explicit date range takes precedence over the named period.
func (s *QueryService) FilterTransactions(ctx context.Context, c Criteria) []domain.Transaction {
	return filter(s.Store.Transactions(ctx), c, s.Now())
}

func filter(txs []domain.Transaction, c Criteria, now time.Time) []domain.Transaction {
	kind, byKind := kindFilter(c.Type)

	win, byDate := rangeWindow(c.StartDate, c.EndDate)
	if !byDate {
		win, byDate = periodWindow(c.Period, now)
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if byKind && tx.Type != kind {
			continue
		}
		if c.CategoryID > 0 && tx.CategoryID != c.CategoryID {
			continue
		}
		if c.WalletID > 0 && tx.WalletID != c.WalletID {
			continue
		}
		if byDate && !win.contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// MonthlyIncome sums income transactions of the current calendar month
func (s *QueryService) MonthlyIncome(ctx context.Context) decimal.Decimal {
	now := s.Now()
	return s.MonthTotals(ctx, now.Year(), now.Month()).Income
}

// MonthlyExpense sums expense transactions of the current calendar month
func (s *QueryService) MonthlyExpense(ctx context.Context) decimal.Decimal {
	now := s.Now()
	return s.MonthTotals(ctx, now.Year(), now.Month()).Expense
}

// MonthTotals sums income and expense of a calendar month.
// Transfer legs count like any other transaction of their type.
func (s *QueryService) MonthTotals(ctx context.Context, year int, month time.Month) MonthTotals {
	return monthTotals(s.Store.Transactions(ctx), year, month, s.Now().Location())
}

func monthTotals(txs []domain.Transaction, year int, month time.Month, loc *time.Location) MonthTotals {
	totals := MonthTotals{Year: year, Month: month, Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		if !tx.InMonth(year, month, loc) {
			continue
		}
		if tx.Type == domain.TransactionTypeIncome {
			totals.Income = totals.Income.Add(tx.Amount)
		} else {
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}

// CashflowTrend returns per-month totals for the last months calendar
// months, oldest first, ending with the current month
func (s *QueryService) CashflowTrend(ctx context.Context, months int) []MonthTotals {
	if months < 1 {
		return []MonthTotals{}
	}
	now := s.Now()
	txs := s.Store.Transactions(ctx)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trend := make([]MonthTotals, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		trend = append(trend, monthTotals(txs, m.Year(), m.Month(), now.Location()))
	}
	return trend
}

// TotalBalance sums the balances of every wallet
func (s *QueryService) TotalBalance(ctx context.Context) decimal.Decimal {
	total := decimal.Zero
	for _, w := range s.Store.Wallets(ctx) {
		total = total.Add(w.Balance)
	}
	return total
}

// CategoryExpenseBreakdown sums current-month expenses per expense category.
// Categories with nothing spent are left out.
func (s *QueryService) CategoryExpenseBreakdown(ctx context.Context) []CategoryTotal {
	now := s.Now()
	loc := now.Location()

	var monthTxs []domain.Transaction
	for _, tx := range s.Store.Transactions(ctx) {
		if tx.InMonth(now.Year(), now.Month(), loc) {
			monthTxs = append(monthTxs, tx)
		}
	}
	return breakdown(s.Store.Categories(ctx), monthTxs)
}

// breakdown groups the expense transactions by expense category, largest
// first. Ties keep category order.
func breakdown(categories []domain.Category, txs []domain.Transaction) []CategoryTotal {
	sums := make(map[int64]decimal.Decimal)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		sums[tx.CategoryID] = sums[tx.CategoryID].Add(tx.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for _, c := range categories {
		if c.Type != domain.TransactionTypeExpense {
			continue
		}
		sum, ok := sums[c.ID]
		if !ok || !sum.IsPositive() {
			continue
		}
		total = total.Add(sum)
		out = append(out, CategoryTotal{CategoryID: c.ID, Name: c.Name, Color: c.Color, Total: sum})
	}

	for i := range out {
		out[i].Percentage = percent(out[i].Total, total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// BudgetUtilization reports spending against the category's budget for a month.
// With several budgets for the same category and month the first one counts.
func (s *QueryService) BudgetUtilization(ctx context.Context, categoryID int64, month, year int) Utilization {
	txs := s.Store.Transactions(ctx)
	loc := s.Now().Location()

	for _, b := range s.Store.Budgets(ctx) {
		if b.CategoryID == categoryID && b.Covers(month, year) {
			return utilization(b, txs, loc)
		}
	}

	spent := categorySpent(txs, categoryID, month, year, loc)
	return Utilization{
		CategoryID: categoryID,
		Month:      month,
		Year:       year,
		Budget:     decimal.Zero,
		Spent:      spent,
		Remaining:  decimal.Zero,
		Percentage: decimal.Zero,
	}
}

// BudgetStatuses reports utilization of every budget of a month, in stored order
func (s *QueryService) BudgetStatuses(ctx context.Context, month, year int) []Utilization {
	txs := s.Store.Transactions(ctx)
	loc := s.Now().Location()

	out := []Utilization{}
	for _, b := range s.Store.Budgets(ctx) {
		if b.Covers(month, year) {
			out = append(out, utilization(b, txs, loc))
		}
	}
	return out
}

func utilization(b domain.Budget, txs []domain.Transaction, loc *time.Location) Utilization {
	spent := categorySpent(txs, b.CategoryID, b.Month, b.Year, loc)
	u := Utilization{
		BudgetID:   b.ID,
		CategoryID: b.CategoryID,
		Month:      b.Month,
		Year:       b.Year,
		Budget:     b.Amount,
		Spent:      spent,
		Remaining:  b.Amount.Sub(spent),
		Percentage: decimal.Zero,
	}
	if b.Amount.IsPositive() {
		u.Limited = true
		u.Percentage = percent(spent, b.Amount)
	}
	return u
}

func categorySpent(txs []domain.Transaction, categoryID int64, month, year int, loc *time.Location) decimal.Decimal {
	spent := decimal.Zero
	for _, tx := range txs {
		if tx.Type == domain.TransactionTypeExpense &&
			tx.CategoryID == categoryID &&
			tx.InMonth(year, time.Month(month), loc) {
			spent = spent.Add(tx.Amount)
		}
	}
	return spent
}

// percent returns part / whole * 100 rounded to two places, or zero when whole is not positive
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}
