package ledger

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
)

// AddTransactionInput represents the input for recording an income or expense
type AddTransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	CategoryID  int64
	WalletID    int64
	Date        time.Time
	Notes       string
}

// EditTransactionInput carries the fields to change; nil fields keep their value
type EditTransactionInput struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *domain.TransactionType
	CategoryID  *int64
	WalletID    *int64
	Date        *time.Time
	Notes       *string
}

// AddTransaction records a new income or expense and moves the wallet balance.
// Logic:
//  1. Validate amount, type and date
//  2. Resolve wallet and category; the category type must equal the transaction type
//  3. Allocate the id from lastTransactionId
//  4. Append the transaction and apply +amount (income) or -amount (expense)
//  5. Commit wallets and transactions together
//
// Balances may go negative; only transfers are floored.
func (s *LedgerService) AddTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	tx := domain.Transaction{
		Description: input.Description,
		Amount:      input.Amount,
		Type:        input.Type,
		CategoryID:  input.CategoryID,
		WalletID:    input.WalletID,
		Date:        input.Date,
		Notes:       input.Notes,
		CreatedAt:   now,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.checkReferences(tx); err != nil {
		return nil, err
	}

	id, err := s.Store.NextID(ctx, domain.CounterTransaction)
	if err != nil {
		return nil, err
	}
	tx.ID = id

	st.transactions = append(st.transactions, tx)
	st.applyEffect(tx, now)

	if err := s.commit(ctx, st); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "transaction added",
		log.FieldTxID, tx.ID,
		log.FieldWalletID, tx.WalletID,
		log.FieldAmount, tx.Effect().String())
	return &tx, nil
}

// EditTransaction changes a transaction and keeps both affected wallets consistent.
// Logic:
//  1. Find the transaction (NotFoundError if absent)
//  2. Build the new version from the old one plus the supplied fields
//  3. Validate it and resolve its wallet and category
//  4. Reverse the OLD effect on the OLD wallet
//  5. Apply the NEW effect on the NEW wallet
//  6. Commit wallets and transactions together
//
// Transfer legs may be edited but keep their direction and carry no category.
func (s *LedgerService) EditTransaction(ctx context.Context, id int64, input EditTransactionInput) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	idx := st.transactionIndex(id)
	if idx < 0 {
		return nil, domain.NewNotFoundError("transaction", id)
	}
	old := st.transactions[idx]

	updated := old
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.Amount != nil {
		updated.Amount = *input.Amount
	}
	if input.Type != nil {
		if old.IsTransferLeg() && *input.Type != old.Type {
			return nil, domain.NewValidationError("type", "cannot change the direction of a transfer leg")
		}
		updated.Type = *input.Type
	}
	if input.CategoryID != nil {
		updated.CategoryID = *input.CategoryID
	}
	if input.WalletID != nil {
		updated.WalletID = *input.WalletID
	}
	if input.Date != nil {
		updated.Date = *input.Date
	}
	if input.Notes != nil {
		updated.Notes = *input.Notes
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := st.checkReferences(updated); err != nil {
		return nil, err
	}

	now := s.Now()
	updated.UpdatedAt = &now

	st.reverseEffect(old, now)
	st.applyEffect(updated, now)
	st.transactions[idx] = updated

	if err := s.commit(ctx, st); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "transaction edited",
		log.FieldTxID, id,
		log.FieldWalletID, updated.WalletID)
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the wallet
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	idx := st.transactionIndex(id)
	if idx < 0 {
		return domain.NewNotFoundError("transaction", id)
	}
	tx := st.transactions[idx]

	st.reverseEffect(tx, s.Now())
	st.transactions = slices.Delete(st.transactions, idx, idx+1)

	if err := s.commit(ctx, st); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "transaction deleted",
		log.FieldTxID, id,
		log.FieldWalletID, tx.WalletID)
	return nil
}
