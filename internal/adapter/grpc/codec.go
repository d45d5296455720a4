package grpc

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/usecase/dashboard"
	"github.com/simaogato/moneymaster-backend/internal/usecase/insight"
	"github.com/simaogato/moneymaster-backend/internal/usecase/ledger"
	"github.com/simaogato/moneymaster-backend/internal/usecase/query"
)

const dateOnly = "2006-01-02"

// args reads typed request fields. The first malformed field is kept and
// reported by Err; later reads return zero values.
type args struct {
	fields map[string]any
	loc    *time.Location
	err    error
}

func newArgs(req *structpb.Struct, loc *time.Location) *args {
	return &args{fields: req.AsMap(), loc: loc}
}

// Err returns the first malformed field as an InvalidArgument status
func (a *args) Err() error {
	if a.err == nil {
		return nil
	}
	return status.Error(codes.InvalidArgument, a.err.Error())
}

func (a *args) fail(key, format string, v ...any) {
	if a.err == nil {
		a.err = fmt.Errorf("invalid %s: %s", key, fmt.Sprintf(format, v...))
	}
}

func (a *args) lookup(key string) (any, bool) {
	if a.err != nil {
		return nil, false
	}
	v, ok := a.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (a *args) OptionalID(key string) *int64 {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	n, ok := v.(float64)
	if !ok || n != math.Trunc(n) {
		a.fail(key, "must be an integer")
		return nil
	}
	id := int64(n)
	return &id
}

func (a *args) ID(key string) int64 {
	if id := a.OptionalID(key); id != nil {
		return *id
	}
	return 0
}

func (a *args) OptionalInt(key string) *int {
	id := a.OptionalID(key)
	if id == nil {
		return nil
	}
	n := int(*id)
	return &n
}

func (a *args) Int(key string) int {
	return int(a.ID(key))
}

func (a *args) OptionalString(key string) *string {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		a.fail(key, "must be a string")
		return nil
	}
	return &s
}

func (a *args) String(key string) string {
	if s := a.OptionalString(key); s != nil {
		return *s
	}
	return ""
}

func (a *args) Bool(key string) bool {
	v, ok := a.lookup(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		a.fail(key, "must be a boolean")
	}
	return b
}

// OptionalDecimal accepts a decimal string or a number
func (a *args) OptionalDecimal(key string) *decimal.Decimal {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	var d decimal.Decimal
	switch x := v.(type) {
	case string:
		parsed, err := decimal.NewFromString(x)
		if err != nil {
			a.fail(key, "amount format %q", x)
			return nil
		}
		d = parsed
	case float64:
		d = decimal.NewFromFloat(x)
	default:
		a.fail(key, "must be a number or a decimal string")
		return nil
	}
	return &d
}

func (a *args) Decimal(key string) decimal.Decimal {
	if d := a.OptionalDecimal(key); d != nil {
		return *d
	}
	return decimal.Zero
}

// OptionalTime accepts RFC 3339 timestamps and plain dates; plain dates are
// midnight in the server location
func (a *args) OptionalTime(key string) *time.Time {
	s := a.OptionalString(key)
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t
	}
	t, err := time.ParseInLocation(dateOnly, *s, a.loc)
	if err != nil {
		a.fail(key, "malformed date %q", *s)
		return nil
	}
	return &t
}

func (a *args) Time(key string) time.Time {
	if t := a.OptionalTime(key); t != nil {
		return *t
	}
	return time.Time{}
}

func (a *args) UUID(key string) uuid.UUID {
	s := a.String(key)
	if a.err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		a.fail(key, "%v", err)
		return uuid.Nil
	}
	return id
}

// respond converts a response map into a Struct
func respond(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

func list[T any](items []T, encode func(T) map[string]any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, encode(item))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func walletFields(w domain.Wallet) map[string]any {
	return map[string]any{
		"id":             w.ID,
		"name":           w.Name,
		"type":           string(w.Type),
		"balance":        w.Balance.String(),
		"openingBalance": w.OpeningBalance.String(),
		"color":          w.Color,
		"createdAt":      formatTime(w.CreatedAt),
		"updatedAt":      optionalTime(w.UpdatedAt),
	}
}

func categoryFields(c domain.Category) map[string]any {
	return map[string]any{
		"id":    c.ID,
		"name":  c.Name,
		"type":  string(c.Type),
		"color": c.Color,
	}
}

func transactionFields(tx domain.Transaction) map[string]any {
	m := map[string]any{
		"id":          tx.ID,
		"description": tx.Description,
		"amount":      tx.Amount.String(),
		"type":        string(tx.Type),
		"categoryId":  tx.CategoryID,
		"walletId":    tx.WalletID,
		"date":        formatTime(tx.Date),
		"notes":       tx.Notes,
		"createdAt":   formatTime(tx.CreatedAt),
		"updatedAt":   optionalTime(tx.UpdatedAt),
	}
	if tx.TransferGroupID != nil {
		m["transferGroupId"] = tx.TransferGroupID.String()
	}
	return m
}

func budgetFields(b domain.Budget) map[string]any {
	return map[string]any{
		"id":         b.ID,
		"categoryId": b.CategoryID,
		"amount":     b.Amount.String(),
		"month":      int64(b.Month),
		"year":       int64(b.Year),
		"createdAt":  formatTime(b.CreatedAt),
		"updatedAt":  optionalTime(b.UpdatedAt),
	}
}

func transferFields(r *ledger.TransferResult) map[string]any {
	return map[string]any{
		"transferGroupId": r.GroupID.String(),
		"debit":           transactionFields(r.Debit),
		"credit":          transactionFields(r.Credit),
	}
}

func categoryTotalFields(c query.CategoryTotal) map[string]any {
	return map[string]any{
		"categoryId": c.CategoryID,
		"name":       c.Name,
		"color":      c.Color,
		"total":      c.Total.String(),
		"percentage": c.Percentage.String(),
	}
}

func utilizationFields(u query.Utilization) map[string]any {
	return map[string]any{
		"budgetId":   u.BudgetID,
		"categoryId": u.CategoryID,
		"month":      int64(u.Month),
		"year":       int64(u.Year),
		"budget":     u.Budget.String(),
		"spent":      u.Spent.String(),
		"remaining":  u.Remaining.String(),
		"percentage": u.Percentage.String(),
		"limited":    u.Limited,
	}
}

func monthTotalsFields(m query.MonthTotals) map[string]any {
	return map[string]any{
		"year":    int64(m.Year),
		"month":   int64(m.Month),
		"income":  m.Income.String(),
		"expense": m.Expense.String(),
		"net":     m.Net.String(),
	}
}

func summaryFields(s *dashboard.Summary) map[string]any {
	return map[string]any{
		"totalBalance":   s.TotalBalance.String(),
		"monthlyIncome":  s.MonthlyIncome.String(),
		"monthlyExpense": s.MonthlyExpense.String(),
		"wallets": list(s.Wallets, func(ws dashboard.WalletShare) map[string]any {
			m := walletFields(ws.Wallet)
			m["percentage"] = ws.Percentage.String()
			return m
		}),
		"budget": map[string]any{
			"total":      s.Budget.Total.String(),
			"spent":      s.Budget.Spent.String(),
			"remaining":  s.Budget.Remaining.String(),
			"percentage": s.Budget.Percentage.String(),
			"status":     string(s.Budget.Status),
		},
	}
}

func insightFields(in insight.Insight) map[string]any {
	return map[string]any{
		"kind":    string(in.Kind),
		"tone":    string(in.Tone),
		"title":   in.Title,
		"message": in.Message,
		"value":   in.Value.String(),
	}
}

func reportFields(r query.Report) map[string]any {
	return map[string]any{
		"startDate":    optionalTime(r.StartDate),
		"endDate":      optionalTime(r.EndDate),
		"count":        int64(len(r.Transactions)),
		"income":       r.Income.String(),
		"expense":      r.Expense.String(),
		"net":          r.Net.String(),
		"incomeCount":  int64(r.IncomeCount),
		"expenseCount": int64(r.ExpenseCount),
		"transactions": list(r.Transactions, transactionFields),
		"categories":   list(r.Categories, categoryTotalFields),
	}
}

func driftFields(d ledger.Drift) map[string]any {
	return map[string]any{
		"walletId": d.WalletID,
		"stored":   d.Stored.String(),
		"expected": d.Expected.String(),
	}
}
