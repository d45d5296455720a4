package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
)

// DefaultWalletColor is used when a wallet is created without a color
const DefaultWalletColor = "#4a6bff"

// AddWalletInput represents the input for creating a wallet
type AddWalletInput struct {
	Name           string
	Type           domain.WalletType
	OpeningBalance decimal.Decimal
	Color          string
}

// EditWalletInput carries the wallet fields to change; nil fields keep their value
type EditWalletInput struct {
	Name           *string
	Type           *domain.WalletType
	Color          *string
	OpeningBalance *decimal.Decimal
}

// AddWallet creates a wallet whose balance starts at its opening balance
func (s *LedgerService) AddWallet(ctx context.Context, input AddWalletInput) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.OpeningBalance.IsNegative() {
		return nil, domain.NewValidationError("openingBalance", "opening balance cannot be negative")
	}

	now := s.Now()
	wallet := domain.Wallet{
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		Balance:        input.OpeningBalance,
		OpeningBalance: input.OpeningBalance,
		Color:          firstNonEmpty(input.Color, DefaultWalletColor),
		CreatedAt:      now,
	}
	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	wallets, err := s.Store.LoadWallets(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.Store.NextID(ctx, domain.CounterWallet)
	if err != nil {
		return nil, err
	}
	wallet.ID = id
	wallets = append(wallets, wallet)

	if err := s.Store.Begin().PutWallets(wallets).Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "wallet added", log.FieldWalletID, wallet.ID)
	return &wallet, nil
}

// EditWallet renames, recolours or retypes a wallet.
// A new opening balance shifts the running balance by the same delta, so
// the balance stays equal to opening balance plus the transaction log.
func (s *LedgerService) EditWallet(ctx context.Context, id int64, input EditWalletInput) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.Store.LoadWallets(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(wallets, func(w domain.Wallet) bool { return w.ID == id })
	if idx < 0 {
		return nil, domain.NewNotFoundError("wallet", id)
	}

	updated := wallets[idx]
	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		updated.Type = *input.Type
	}
	if input.Color != nil {
		updated.Color = *input.Color
	}
	if input.OpeningBalance != nil {
		if input.OpeningBalance.IsNegative() {
			return nil, domain.NewValidationError("openingBalance", "opening balance cannot be negative")
		}
		delta := input.OpeningBalance.Sub(updated.OpeningBalance)
		updated.OpeningBalance = *input.OpeningBalance
		updated.Balance = updated.Balance.Add(delta)
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	updated.UpdatedAt = &now
	wallets[idx] = updated

	if err := s.Store.Begin().PutWallets(wallets).Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "wallet edited", log.FieldWalletID, id)
	return &updated, nil
}

// DeleteWallet removes a wallet.
// Logic:
//  1. Find the wallet (NotFoundError if absent)
//  2. Count the transactions referencing it; without cascade any reference
//     fails with ErrWalletHasTransactions
//  3. With cascade, drop those transactions; for every transfer leg among
//     them also drop its counter-leg and reverse it on the other wallet
//  4. Commit wallets and transactions together
func (s *LedgerService) DeleteWallet(ctx context.Context, id int64, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	idx := st.walletIndex(id)
	if idx < 0 {
		return domain.NewNotFoundError("wallet", id)
	}

	groups := make(map[string]bool)
	count := 0
	for _, tx := range st.transactions {
		if tx.WalletID != id {
			continue
		}
		count++
		if tx.TransferGroupID != nil {
			groups[tx.TransferGroupID.String()] = true
		}
	}

	if count > 0 && !cascade {
		return &domain.ValidationError{
			Field:   "walletId",
			Message: fmt.Sprintf("wallet %s has %d transactions", st.wallets[idx].Name, count),
			Err:     domain.ErrWalletHasTransactions,
		}
	}

	now := s.Now()
	kept := make([]domain.Transaction, 0, len(st.transactions))
	for _, tx := range st.transactions {
		if tx.WalletID == id {
			continue
		}
		if tx.TransferGroupID != nil && groups[tx.TransferGroupID.String()] {
			st.reverseEffect(tx, now)
			continue
		}
		kept = append(kept, tx)
	}
	st.transactions = kept
	st.wallets = slices.Delete(st.wallets, idx, idx+1)

	if err := s.commit(ctx, st); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "wallet deleted",
		log.FieldWalletID, id,
		log.FieldCount, count)
	return nil
}
