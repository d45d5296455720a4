package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// ReportCriteria scopes a report. Nil bounds are open; CategoryID 0 means every category.
type ReportCriteria struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID int64
}

// Report summarises the transactions of a date range
type Report struct {
	StartDate    *time.Time
	EndDate      *time.Time
	Transactions []domain.Transaction // most recent first
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Net          decimal.Decimal
	IncomeCount  int
	ExpenseCount int
	Categories   []CategoryTotal // expense breakdown, largest first
}

// Report builds the totals and category breakdown of a date range
func (s *QueryService) Report(ctx context.Context, rc ReportCriteria) Report {
	txs := filter(s.Store.Transactions(ctx), Criteria{
		CategoryID: rc.CategoryID,
		StartDate:  rc.StartDate,
		EndDate:    rc.EndDate,
	}, s.Now())

	r := Report{
		StartDate:    rc.StartDate,
		EndDate:      rc.EndDate,
		Transactions: txs,
		Income:       decimal.Zero,
		Expense:      decimal.Zero,
	}
	for _, tx := range txs {
		if tx.Type == domain.TransactionTypeIncome {
			r.Income = r.Income.Add(tx.Amount)
			r.IncomeCount++
		} else {
			r.Expense = r.Expense.Add(tx.Amount)
			r.ExpenseCount++
		}
	}
	r.Net = r.Income.Sub(r.Expense)
	r.Categories = breakdown(s.Store.Categories(ctx), txs)
	return r
}
