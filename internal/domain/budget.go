package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending ceiling for one expense category
type Budget struct {
	ID         int64           `json:"id"`
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

// Validate ensures the budget adheres to domain rules
func (b *Budget) Validate() error {
	if b.CategoryID <= 0 {
		return NewValidationError("categoryId", "budget must reference a category")
	}
	if b.Amount.IsNegative() {
		return NewValidationError("amount", "budget amount cannot be negative")
	}
	if b.Month < 1 || b.Month > 12 {
		return NewValidationError("month", "budget month must be between 1 and 12")
	}
	if b.Year < 1 {
		return NewValidationError("year", "budget year must be positive")
	}
	return nil
}

// Covers reports whether the budget applies to the given month and year
func (b *Budget) Covers(month, year int) bool {
	return b.Month == month && b.Year == year
}
