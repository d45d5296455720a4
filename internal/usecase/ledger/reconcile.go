package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// Drift reports a wallet whose stored balance disagrees with its log
type Drift struct {
	WalletID int64
	Stored   decimal.Decimal
	Expected decimal.Decimal
}

// ExpectedBalances recomputes every wallet balance as opening balance plus
// the effects of the transactions referencing it
func ExpectedBalances(wallets []domain.Wallet, transactions []domain.Transaction) map[int64]decimal.Decimal {
	expected := make(map[int64]decimal.Decimal, len(wallets))
	for _, w := range wallets {
		expected[w.ID] = w.OpeningBalance
	}
	for _, tx := range transactions {
		if base, ok := expected[tx.WalletID]; ok {
			expected[tx.WalletID] = base.Add(tx.Effect())
		}
	}
	return expected
}

// Reconcile compares every stored balance with the balance recomputed from
// the transaction log. It never writes.
func (s *LedgerService) Reconcile(ctx context.Context) []Drift {
	wallets := s.Store.Wallets(ctx)
	expected := ExpectedBalances(wallets, s.Store.Transactions(ctx))

	var drifts []Drift
	for _, w := range wallets {
		if !w.Balance.Equal(expected[w.ID]) {
			drifts = append(drifts, Drift{WalletID: w.ID, Stored: w.Balance, Expected: expected[w.ID]})
		}
	}
	return drifts
}
