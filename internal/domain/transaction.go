package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction.
// Categories share the same type set.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single dated income or expense event against one wallet.
// Amount is always positive; the sign is carried by Type.
type Transaction struct {
	ID              int64           `json:"id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	CategoryID      int64           `json:"categoryId"`
	WalletID        int64           `json:"walletId"`
	Date            time.Time       `json:"date"`
	Notes           string          `json:"notes"`
	TransferGroupID *uuid.UUID      `json:"transferGroupId,omitempty"` // set on both legs of a transfer
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

// Validate ensures the transaction adheres to domain rules.
// Category/type coupling needs the category collection and is checked by the ledger service.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", "transaction amount must be positive")
	}
	if !t.Type.Valid() {
		return NewValidationError("type", "transaction type must be income or expense")
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "transaction date is missing or malformed")
	}
	if t.WalletID <= 0 {
		return NewValidationError("walletId", "transaction must reference a wallet")
	}
	if !t.IsTransferLeg() && t.CategoryID <= 0 {
		return NewValidationError("categoryId", "transaction must reference a category")
	}
	return nil
}

// IsTransferLeg reports whether the transaction is one side of a transfer
func (t *Transaction) IsTransferLeg() bool {
	return t.TransferGroupID != nil
}

// Effect returns the signed amount this transaction contributes to its wallet balance
func (t *Transaction) Effect() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// InMonth reports whether the transaction occurred in the given calendar month,
// evaluated in loc
func (t *Transaction) InMonth(year int, month time.Month, loc *time.Location) bool {
	d := t.Date.In(loc)
	return d.Year() == year && d.Month() == month
}
