package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WalletType represents the kind of monetary account
type WalletType string

const (
	WalletTypeCash    WalletType = "cash"
	WalletTypeBank    WalletType = "bank"
	WalletTypeDigital WalletType = "digital"
	WalletTypeSavings WalletType = "savings"
	WalletTypeOther   WalletType = "other"
)

// UnknownName is the display name of sentinel records returned for stale references
const UnknownName = "Unknown"

// UnknownColor is the color tag of sentinel records
const UnknownColor = "#6c757d"

// Valid reports whether t is one of the known wallet types
func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeCash, WalletTypeBank, WalletTypeDigital, WalletTypeSavings, WalletTypeOther:
		return true
	}
	return false
}

// Wallet represents a monetary account with a running balance.
// Balance always equals OpeningBalance plus the net effect of every
// transaction that references the wallet; only the ledger service writes it.
type Wallet struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Type           WalletType      `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Color          string          `json:"color"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// Validate ensures the wallet adheres to domain rules
func (w *Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return NewValidationError("name", "wallet name cannot be empty")
	}
	if !w.Type.Valid() {
		return NewValidationError("type", "wallet type must be cash, bank, digital, savings or other")
	}
	return nil
}

// UnknownWallet returns the sentinel wallet used for dangling references
func UnknownWallet(id int64) Wallet {
	return Wallet{
		ID:    id,
		Name:  UnknownName,
		Type:  WalletTypeOther,
		Color: UnknownColor,
	}
}
