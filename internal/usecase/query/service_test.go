package query

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/memory"
	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/records"
	"github.com/simaogato/moneymaster-backend/internal/usecase/seeder"
)

var fixedNow = time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

func newService(t *testing.T, extra ...domain.Transaction) *QueryService {
	t.Helper()
	ctx := context.Background()
	store := records.New(memory.NewStore(), nil)

	sd := seeder.NewDefaultSeeder(store, nil)
	sd.Now = func() time.Time { return fixedNow }
	require.NoError(t, sd.Seed(ctx))

	if len(extra) > 0 {
		txs := append(store.Transactions(ctx), extra...)
		require.NoError(t, store.Begin().PutTransactions(txs).Commit(ctx))
	}

	svc := NewQueryService(store)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func expenseAt(id int64, date time.Time, amount int64, categoryID int64) domain.Transaction {
	return domain.Transaction{
		ID: id, Amount: decimal.NewFromInt(amount), Type: domain.TransactionTypeExpense,
		CategoryID: categoryID, WalletID: 1, Date: date,
	}
}

func incomeAt(id int64, date time.Time, amount int64) domain.Transaction {
	return domain.Transaction{
		ID: id, Amount: decimal.NewFromInt(amount), Type: domain.TransactionTypeIncome,
		CategoryID: 3, WalletID: 2, Date: date,
	}
}

func ids(txs []domain.Transaction) []int64 {
	out := make([]int64, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func d(day int, hour int) time.Time {
	return time.Date(2026, time.October, day, hour, 0, 0, 0, time.UTC)
}

func TestFilterTransactions_ExpenseThisMonth(t *testing.T) {
	svc := newService(t,
		expenseAt(7, time.Date(2026, time.September, 30, 23, 0, 0, 0, time.UTC), 10, 4),
		expenseAt(8, d(1, 0), 10, 4),
		incomeAt(9, d(17, 8), 10),
		expenseAt(10, time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC), 10, 4),
	)

	got := svc.FilterTransactions(context.Background(), Criteria{Type: "expense", Period: PeriodMonth})

	assert.Equal(t, []int64{5, 4, 3, 2, 8}, ids(got))
	for i, tx := range got {
		assert.Equal(t, domain.TransactionTypeExpense, tx.Type)
		assert.True(t, tx.InMonth(2026, time.October, time.UTC))
		if i > 0 {
			assert.False(t, tx.Date.After(got[i-1].Date), "not sorted descending")
		}
	}
}

func TestFilterTransactions_Periods(t *testing.T) {
	svc := newService(t,
		expenseAt(7, d(18, 9), 10, 5),
		incomeAt(8, d(17, 8), 10),
		expenseAt(9, time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), 10, 5),
		expenseAt(10, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 10, 5),
	)
	ctx := context.Background()

	tests := []struct {
		period Period
		want   []int64
	}{
		{PeriodToday, []int64{7, 5}},
		{PeriodWeek, []int64{7, 5, 8, 4, 3}},
		{PeriodYear, []int64{6, 7, 5, 8, 4, 3, 2, 1, 9}},
		{PeriodAll, []int64{6, 7, 5, 8, 4, 3, 2, 1, 9, 10}},
		{"fortnight", []int64{6, 7, 5, 8, 4, 3, 2, 1, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(svc.FilterTransactions(ctx, Criteria{Period: tt.period})))
		})
	}
}

func TestFilterTransactions_DateRangeWinsOverPeriod(t *testing.T) {
	svc := newService(t)
	start := d(10, 15)
	end := d(15, 0)

	got := svc.FilterTransactions(context.Background(), Criteria{
		Period:    PeriodToday,
		StartDate: &start,
		EndDate:   &end,
	})

	// Both bounds cover whole days: the 10th from midnight, the 15th until its end
	assert.Equal(t, []int64{4, 3, 2}, ids(got))
}

func TestFilterTransactions_Dimensions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.Equal(t, []int64{6, 4, 1}, ids(svc.FilterTransactions(ctx, Criteria{WalletID: 2})))
	assert.Equal(t, []int64{2}, ids(svc.FilterTransactions(ctx, Criteria{CategoryID: 4})))
	assert.Equal(t, []int64{6, 1}, ids(svc.FilterTransactions(ctx, Criteria{Type: "INCOME"})))
	assert.Len(t, svc.FilterTransactions(ctx, Criteria{Type: "all"}), 6)
	assert.Len(t, svc.FilterTransactions(ctx, Criteria{Type: "refund"}), 6)
	assert.Empty(t, svc.FilterTransactions(ctx, Criteria{WalletID: 3, Type: "income"}))
}

func TestMonthlyTotals(t *testing.T) {
	svc := newService(t, expenseAt(7, time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC), 400000, 4))
	ctx := context.Background()

	assert.True(t, svc.MonthlyIncome(ctx).Equal(decimal.NewFromInt(7850000)))
	assert.True(t, svc.MonthlyExpense(ctx).Equal(decimal.NewFromInt(1820000)))

	sep := svc.MonthTotals(ctx, 2026, time.September)
	assert.True(t, sep.Expense.Equal(decimal.NewFromInt(400000)))
	assert.True(t, sep.Net.Equal(decimal.NewFromInt(-400000)))
}

func TestCashflowTrend(t *testing.T) {
	svc := newService(t,
		expenseAt(7, time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC), 100, 4),
		expenseAt(8, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), 100, 4),
		incomeAt(9, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), 999),
	)

	trend := svc.CashflowTrend(context.Background(), 6)
	require.Len(t, trend, 6)

	assert.Equal(t, time.May, trend[0].Month)
	assert.True(t, trend[0].Expense.Equal(decimal.NewFromInt(100)), "April is outside the window")
	assert.Equal(t, time.August, trend[3].Month)
	assert.True(t, trend[3].Income.Equal(decimal.NewFromInt(999)))
	assert.Equal(t, time.October, trend[5].Month)
	assert.True(t, trend[5].Net.Equal(decimal.NewFromInt(7850000-1820000)))

	assert.Empty(t, svc.CashflowTrend(context.Background(), 0))
}

func TestCashflowTrend_CrossesYear(t *testing.T) {
	svc := newService(t)
	svc.Now = func() time.Time { return time.Date(2027, time.February, 10, 0, 0, 0, 0, time.UTC) }

	trend := svc.CashflowTrend(context.Background(), 4)
	require.Len(t, trend, 4)
	assert.Equal(t, 2026, trend[0].Year)
	assert.Equal(t, time.November, trend[0].Month)
	assert.Equal(t, 2027, trend[3].Year)
	assert.Equal(t, time.February, trend[3].Month)
}

func TestTotalBalance(t *testing.T) {
	svc := newService(t)
	assert.True(t, svc.TotalBalance(context.Background()).Equal(decimal.NewFromInt(22500000)))
}

func TestCategoryExpenseBreakdown(t *testing.T) {
	svc := newService(t, expenseAt(7, time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC), 9000000, 6))

	got := svc.CategoryExpenseBreakdown(context.Background())
	require.Len(t, got, 4, "zero categories and other months are excluded")

	assert.Equal(t, int64(4), got[0].CategoryID)
	assert.Equal(t, "Makanan & Minuman", got[0].Name)
	assert.True(t, got[0].Total.Equal(decimal.NewFromInt(1200000)))
	assert.Equal(t, "65.93", got[0].Percentage.StringFixed(2))
	assert.Equal(t, []int64{4, 10, 7, 5}, []int64{got[0].CategoryID, got[1].CategoryID, got[2].CategoryID, got[3].CategoryID})
}

func TestBudgetUtilization(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u := svc.BudgetUtilization(ctx, 4, 10, 2026)
	assert.True(t, u.Limited)
	assert.Equal(t, "80.00", u.Percentage.StringFixed(2))
	assert.True(t, u.Remaining.Equal(decimal.NewFromInt(300000)))

	none := svc.BudgetUtilization(ctx, 10, 10, 2026)
	assert.False(t, none.Limited)
	assert.True(t, none.Spent.Equal(decimal.NewFromInt(450000)))
	assert.True(t, none.Percentage.IsZero())
}

func TestBudgetUtilization_ZeroBudgetMeansNoLimit(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	budgets := svc.Store.Budgets(ctx)
	budgets = append(budgets, domain.Budget{ID: 4, CategoryID: 10, Amount: decimal.Zero, Month: 10, Year: 2026})
	require.NoError(t, svc.Store.Begin().PutBudgets(budgets).Commit(ctx))

	var u Utilization
	require.NotPanics(t, func() { u = svc.BudgetUtilization(ctx, 10, 10, 2026) })
	assert.False(t, u.Limited)
	assert.Equal(t, int64(4), u.BudgetID)
	assert.True(t, u.Percentage.IsZero())
	assert.True(t, u.Spent.Equal(decimal.NewFromInt(450000)))
}

func TestBudgetStatuses(t *testing.T) {
	svc := newService(t)

	statuses := svc.BudgetStatuses(context.Background(), 10, 2026)
	require.Len(t, statuses, 3)
	assert.Equal(t, "10.00", statuses[1].Percentage.StringFixed(2))
	assert.Equal(t, "40.00", statuses[2].Percentage.StringFixed(2))

	assert.Empty(t, svc.BudgetStatuses(context.Background(), 11, 2026))
}

func TestReport(t *testing.T) {
	svc := newService(t, expenseAt(7, time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC), 9000000, 6))
	start := d(1, 0)
	end := d(31, 0)

	r := svc.Report(context.Background(), ReportCriteria{StartDate: &start, EndDate: &end})

	assert.Len(t, r.Transactions, 6)
	assert.Equal(t, 2, r.IncomeCount)
	assert.Equal(t, 4, r.ExpenseCount)
	assert.True(t, r.Income.Equal(decimal.NewFromInt(7850000)))
	assert.True(t, r.Expense.Equal(decimal.NewFromInt(1820000)))
	assert.True(t, r.Net.Equal(decimal.NewFromInt(6030000)))
	require.Len(t, r.Categories, 4)
	assert.Equal(t, int64(4), r.Categories[0].CategoryID)

	byCategory := svc.Report(context.Background(), ReportCriteria{CategoryID: 6})
	assert.Len(t, byCategory.Transactions, 1)
	assert.True(t, byCategory.Expense.Equal(decimal.NewFromInt(9000000)))
	assert.Equal(t, "100.00", byCategory.Categories[0].Percentage.StringFixed(2))
}

func TestQueries_DegradeOnCorruptStore(t *testing.T) {
	backend := memory.NewStore()
	backend.Put(domain.CollectionTransactions, []byte(`not json`))
	backend.Put(domain.CollectionWallets, []byte(`{`))
	svc := NewQueryService(records.New(backend, nil))
	svc.Now = func() time.Time { return fixedNow }
	ctx := context.Background()

	assert.Empty(t, svc.FilterTransactions(ctx, Criteria{}))
	assert.True(t, svc.MonthlyExpense(ctx).IsZero())
	assert.True(t, svc.TotalBalance(ctx).IsZero())
	assert.Empty(t, svc.CategoryExpenseBreakdown(ctx))
}
