// Package insight turns query results into short financial observations.
package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/usecase/query"
)

// Kind identifies the rule an insight came from
type Kind string

const (
	KindSavingsRate      Kind = "savings_rate"
	KindDominantCategory Kind = "dominant_category"
	KindExpenseTrend     Kind = "expense_trend"
	KindBudgetPressure   Kind = "budget_pressure"
)

// Tone tells the presentation layer how to frame an insight
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNeutral  Tone = "neutral"
	ToneWarning  Tone = "warning"
	ToneNegative Tone = "negative"
)

const (
	healthySavingsRate = 20
	trendThreshold     = 10
	budgetPressureMark = 90
)

var hundred = decimal.NewFromInt(100)

// Insight is one observation with the figure it is based on
type Insight struct {
	Kind    Kind
	Tone    Tone
	Title   string
	Message string
	Value   decimal.Decimal
}

// Snapshot holds the query results of one moment that insights are derived from
type Snapshot struct {
	Income           decimal.Decimal
	Expense          decimal.Decimal
	LastMonthExpense decimal.Decimal
	Categories       []query.CategoryTotal // current month, largest first
	Budgets          []query.Utilization   // current month
	HasBudgets       bool                  // any budget stored, whatever its month
}

// Generator collects snapshots from a QueryService
type Generator struct {
	Query *query.QueryService
}

// NewGenerator creates a new Generator instance
func NewGenerator(q *query.QueryService) *Generator {
	return &Generator{Query: q}
}

// Insights derives the insights of the current month
func (g *Generator) Insights(ctx context.Context) []Insight {
	return Generate(g.Snapshot(ctx))
}

// Snapshot gathers the current and previous month figures
func (g *Generator) Snapshot(ctx context.Context) Snapshot {
	now := g.Query.Now()
	current := g.Query.MonthTotals(ctx, now.Year(), now.Month())
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	last := g.Query.MonthTotals(ctx, prev.Year(), prev.Month())

	return Snapshot{
		Income:           current.Income,
		Expense:          current.Expense,
		LastMonthExpense: last.Expense,
		Categories:       g.Query.CategoryExpenseBreakdown(ctx),
		Budgets:          g.Query.BudgetStatuses(ctx, int(now.Month()), now.Year()),
		HasBudgets:       len(g.Query.Store.Budgets(ctx)) > 0,
	}
}

// Generate derives insights from a snapshot.
// Logic:
//  1. Savings rate, always
//  2. Dominant expense category, when anything was spent
//  3. Expense change against last month, always
//  4. Budget pressure, when any budget exists
func Generate(s Snapshot) []Insight {
	out := []Insight{savingsRate(s)}
	if in, ok := dominantCategory(s); ok {
		out = append(out, in)
	}
	out = append(out, expenseTrend(s))
	if s.HasBudgets {
		out = append(out, budgetPressure(s))
	}
	return out
}

// SavingsRate returns (income - expense) / income * 100, or zero without income
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expense).Mul(hundred).Div(income).Round(2)
}

// ExpenseChange returns the month over month change in percent, or zero when last month had no expense
func ExpenseChange(current, last decimal.Decimal) decimal.Decimal {
	if !last.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(last).Mul(hundred).Div(last).Round(2)
}

func savingsRate(s Snapshot) Insight {
	rate := SavingsRate(s.Income, s.Expense)
	in := Insight{Kind: KindSavingsRate, Value: rate}

	switch {
	case rate.GreaterThan(decimal.NewFromInt(healthySavingsRate)):
		in.Tone = TonePositive
		in.Title = "Healthy savings"
		in.Message = fmt.Sprintf("You are saving %s%% of your income this month. Keep it up.", rate.StringFixed(1))
	case rate.IsPositive():
		in.Tone = ToneWarning
		in.Title = "Savings need improvement"
		in.Message = fmt.Sprintf("You are saving %s%% of your income this month. Cutting non-essential spending would raise it.", rate.StringFixed(1))
	default:
		in.Tone = ToneNegative
		in.Title = "Spending deficit"
		in.Message = "Your expenses exceed your income this month. Review your spending to close the gap."
	}
	return in
}

func dominantCategory(s Snapshot) (Insight, bool) {
	if len(s.Categories) == 0 || !s.Expense.IsPositive() {
		return Insight{}, false
	}
	top := s.Categories[0]
	if !top.Total.IsPositive() {
		return Insight{}, false
	}
	share := top.Total.Mul(hundred).Div(s.Expense).Round(2)
	return Insight{
		Kind:    KindDominantCategory,
		Tone:    ToneNeutral,
		Title:   "Focus on " + top.Name,
		Message: fmt.Sprintf("%s is your largest expense (%s%% of this month's spending).", top.Name, share.StringFixed(1)),
		Value:   share,
	}, true
}

func expenseTrend(s Snapshot) Insight {
	change := ExpenseChange(s.Expense, s.LastMonthExpense)
	in := Insight{Kind: KindExpenseTrend, Value: change}
	limit := decimal.NewFromInt(trendThreshold)

	switch {
	case change.GreaterThan(limit):
		in.Tone = ToneWarning
		in.Title = "Spending is rising"
		in.Message = fmt.Sprintf("Your spending is up %s%% from last month.", change.StringFixed(1))
	case change.LessThan(limit.Neg()):
		in.Tone = TonePositive
		in.Title = "Spending is falling"
		in.Message = fmt.Sprintf("Your spending is down %s%% from last month.", change.Abs().StringFixed(1))
	default:
		in.Tone = ToneNeutral
		in.Title = "Spending is stable"
		in.Message = "Your spending is in line with last month."
	}
	return in
}

func budgetPressure(s Snapshot) Insight {
	mark := decimal.NewFromInt(budgetPressureMark)
	count := 0
	for _, u := range s.Budgets {
		if u.Percentage.GreaterThan(mark) {
			count++
		}
	}

	in := Insight{Kind: KindBudgetPressure, Value: decimal.NewFromInt(int64(count))}
	if count > 0 {
		in.Tone = ToneWarning
		in.Title = "Budgets near their limit"
		in.Message = fmt.Sprintf("%d of your budgets are above %d%% of their limit this month.", count, budgetPressureMark)
		return in
	}
	in.Tone = TonePositive
	in.Title = "Budgets under control"
	in.Message = "All of your budgets are within their limits."
	return in
}
