package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/usecase/query"
)

// BudgetStatus classifies how much of the monthly budget is left
type BudgetStatus string

const (
	BudgetStatusSafe    BudgetStatus = "safe"
	BudgetStatusWarning BudgetStatus = "warning"
	BudgetStatusOver    BudgetStatus = "over"
)

// warningRemaining is the remaining percentage below which a budget is flagged
var warningRemaining = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// WalletShare is a wallet with its share of the total balance
type WalletShare struct {
	Wallet     domain.Wallet
	Percentage decimal.Decimal
}

// BudgetSummary aggregates every budget of the current month
type BudgetSummary struct {
	Total      decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal // remaining share of the total, 100 when there is no budget
	Status     BudgetStatus
}

// Summary holds the dashboard summary cards
type Summary struct {
	TotalBalance   decimal.Decimal
	MonthlyIncome  decimal.Decimal
	MonthlyExpense decimal.Decimal
	Wallets        []WalletShare
	Budget         BudgetSummary
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	Query *query.QueryService
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(q *query.QueryService) *DashboardService {
	return &DashboardService{Query: q}
}

// GetSummary calculates the dashboard summary
// Logic:
//   - TotalBalance: Sum of all wallet balances
//   - Wallets: each wallet balance as a share of TotalBalance (0 when the total is not positive)
//   - Budget: current month budgets against the spending in their categories
func (s *DashboardService) GetSummary(ctx context.Context) *Summary {
	now := s.Query.Now()
	wallets := s.Query.Store.Wallets(ctx)

	total := decimal.Zero
	for _, w := range wallets {
		total = total.Add(w.Balance)
	}

	shares := make([]WalletShare, 0, len(wallets))
	for _, w := range wallets {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = w.Balance.Mul(hundred).Div(total).Round(2)
		}
		shares = append(shares, WalletShare{Wallet: w, Percentage: pct})
	}

	totals := s.Query.MonthTotals(ctx, now.Year(), now.Month())

	return &Summary{
		TotalBalance:   total,
		MonthlyIncome:  totals.Income,
		MonthlyExpense: totals.Expense,
		Wallets:        shares,
		Budget:         summarizeBudgets(s.Query.BudgetStatuses(ctx, int(now.Month()), now.Year())),
	}
}

func summarizeBudgets(statuses []query.Utilization) BudgetSummary {
	sum := BudgetSummary{Total: decimal.Zero, Spent: decimal.Zero}
	for _, u := range statuses {
		sum.Total = sum.Total.Add(u.Budget)
		sum.Spent = sum.Spent.Add(u.Spent)
	}
	sum.Remaining = sum.Total.Sub(sum.Spent)

	sum.Percentage = hundred
	if sum.Total.IsPositive() {
		sum.Percentage = sum.Remaining.Mul(hundred).Div(sum.Total).Round(2)
	}

	switch {
	case sum.Remaining.IsNegative():
		sum.Status = BudgetStatusOver
	case sum.Percentage.LessThan(warningRemaining):
		sum.Status = BudgetStatusWarning
	default:
		sum.Status = BudgetStatusSafe
	}
	return sum
}
