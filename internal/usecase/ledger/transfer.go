package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
)

// TransferInput represents the input for moving funds between two wallets
type TransferInput struct {
	FromWalletID int64
	ToWalletID   int64
	Amount       decimal.Decimal
	Date         time.Time
	Notes        string
}

// TransferResult holds both legs of a transfer
type TransferResult struct {
	GroupID uuid.UUID
	Debit   domain.Transaction // expense leg on the source wallet
	Credit  domain.Transaction // income leg on the destination wallet
}

// Transfer moves funds from one wallet to another as two linked transactions.
// Logic:
//  1. Reject self-transfers, non-positive amounts and missing dates
//  2. Resolve both wallets; the source balance must cover the amount
//  3. Allocate two transaction ids
//  4. Append an expense leg on the source and an income leg on the
//     destination, sharing a fresh transfer group id and the same date
//  5. Debit the source, credit the destination
//  6. Commit wallets and transactions together
func (s *LedgerService) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.FromWalletID == input.ToWalletID {
		return nil, domain.NewValidationError("toWalletId", "cannot transfer to the same wallet")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("amount", "transfer amount must be positive")
	}
	if input.Date.IsZero() {
		return nil, domain.NewValidationError("date", "transfer date is missing or malformed")
	}

	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	fromIdx := st.walletIndex(input.FromWalletID)
	if fromIdx < 0 {
		return nil, domain.NewNotFoundError("wallet", input.FromWalletID)
	}
	toIdx := st.walletIndex(input.ToWalletID)
	if toIdx < 0 {
		return nil, domain.NewNotFoundError("wallet", input.ToWalletID)
	}
	from, to := st.wallets[fromIdx], st.wallets[toIdx]

	if from.Balance.LessThan(input.Amount) {
		return nil, domain.NewValidationError("amount",
			fmt.Sprintf("insufficient balance in %s: %s available", from.Name, from.Balance.String()))
	}

	debitID, err := s.Store.NextID(ctx, domain.CounterTransaction)
	if err != nil {
		return nil, err
	}
	creditID, err := s.Store.NextID(ctx, domain.CounterTransaction)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	groupID := uuid.New()
	debitNote := "Transfer to " + to.Name
	creditNote := "Transfer from " + from.Name

	debit := domain.Transaction{
		ID:              debitID,
		Description:     firstNonEmpty(input.Notes, debitNote),
		Amount:          input.Amount,
		Type:            domain.TransactionTypeExpense,
		WalletID:        from.ID,
		Date:            input.Date,
		Notes:           debitNote,
		TransferGroupID: &groupID,
		CreatedAt:       now,
	}
	credit := domain.Transaction{
		ID:              creditID,
		Description:     firstNonEmpty(input.Notes, creditNote),
		Amount:          input.Amount,
		Type:            domain.TransactionTypeIncome,
		WalletID:        to.ID,
		Date:            input.Date,
		Notes:           creditNote,
		TransferGroupID: &groupID,
		CreatedAt:       now,
	}

	st.transactions = append(st.transactions, debit, credit)
	st.applyEffect(debit, now)
	st.applyEffect(credit, now)

	if err := s.commit(ctx, st); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "transfer recorded",
		log.FieldTransferID, groupID.String(),
		log.FieldAmount, input.Amount.String(),
		"from_wallet_id", from.ID,
		"to_wallet_id", to.ID)
	return &TransferResult{GroupID: groupID, Debit: debit, Credit: credit}, nil
}

// DeleteTransfer removes every leg of a transfer and reverses their effects
func (s *LedgerService) DeleteTransfer(ctx context.Context, groupID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	now := s.Now()
	kept := make([]domain.Transaction, 0, len(st.transactions))
	removed := 0
	for _, tx := range st.transactions {
		if tx.TransferGroupID != nil && *tx.TransferGroupID == groupID {
			st.reverseEffect(tx, now)
			removed++
			continue
		}
		kept = append(kept, tx)
	}
	if removed == 0 {
		return &domain.NotFoundError{Entity: "transfer", Key: groupID.String()}
	}
	st.transactions = kept

	if err := s.commit(ctx, st); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "transfer deleted",
		log.FieldTransferID, groupID.String(),
		log.FieldCount, removed)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
