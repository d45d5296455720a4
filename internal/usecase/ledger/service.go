package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
	"github.com/simaogato/moneymaster-backend/internal/records"
)

// LedgerService owns every write to wallets and transactions.
// Each mutation loads the collections it touches, changes in-memory copies
// and commits them as one unit, so a failure at any step leaves the store
// exactly as it was.
type LedgerService struct {
	Store *records.Store
	Now   func() time.Time

	logger *log.Logger
	mu     sync.Mutex // serialises load, mutate and commit of concurrent callers
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(store *records.Store, logger *log.Logger) *LedgerService {
	return &LedgerService{
		Store:  store,
		Now:    time.Now,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentLedger),
	}
}

// GetWallet returns the wallet, or the "Unknown" sentinel when absent
func (s *LedgerService) GetWallet(ctx context.Context, id int64) domain.Wallet {
	for _, w := range s.Store.Wallets(ctx) {
		if w.ID == id {
			return w
		}
	}
	return domain.UnknownWallet(id)
}

// GetCategory returns the category, or the "Unknown" sentinel when absent
func (s *LedgerService) GetCategory(ctx context.Context, id int64) domain.Category {
	for _, c := range s.Store.Categories(ctx) {
		if c.ID == id {
			return c
		}
	}
	return domain.UnknownCategory(id)
}

// ListWallets returns every wallet
func (s *LedgerService) ListWallets(ctx context.Context) []domain.Wallet {
	return s.Store.Wallets(ctx)
}

// ListCategories returns every category
func (s *LedgerService) ListCategories(ctx context.Context) []domain.Category {
	return s.Store.Categories(ctx)
}

// ListTransactions returns every transaction in stored order
func (s *LedgerService) ListTransactions(ctx context.Context) []domain.Transaction {
	return s.Store.Transactions(ctx)
}

// ledgerState is the working copy of the collections a mutation touches
type ledgerState struct {
	wallets      []domain.Wallet
	categories   []domain.Category
	transactions []domain.Transaction
}

// loadState reads wallets, categories and transactions strictly.
// An unreadable collection aborts the mutation instead of being overwritten.
func (s *LedgerService) loadState(ctx context.Context) (*ledgerState, error) {
	wallets, err := s.Store.LoadWallets(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.Store.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.Store.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return &ledgerState{
		wallets:      wallets,
		categories:   categories,
		transactions: transactions,
	}, nil
}

// commit writes wallets and transactions as one unit
func (s *LedgerService) commit(ctx context.Context, st *ledgerState) error {
	return s.Store.Begin().
		PutWallets(st.wallets).
		PutTransactions(st.transactions).
		Commit(ctx)
}

func (st *ledgerState) walletIndex(id int64) int {
	for i := range st.wallets {
		if st.wallets[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *ledgerState) transactionIndex(id int64) int {
	for i := range st.transactions {
		if st.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *ledgerState) category(id int64) (domain.Category, bool) {
	for _, c := range st.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// applyEffect adds the signed effect of tx to its wallet.
// A wallet that no longer exists is skipped.
func (st *ledgerState) applyEffect(tx domain.Transaction, now time.Time) {
	if i := st.walletIndex(tx.WalletID); i >= 0 {
		st.wallets[i].Balance = st.wallets[i].Balance.Add(tx.Effect())
		st.wallets[i].UpdatedAt = &now
	}
}

// reverseEffect removes the signed effect of tx from its wallet
func (st *ledgerState) reverseEffect(tx domain.Transaction, now time.Time) {
	if i := st.walletIndex(tx.WalletID); i >= 0 {
		st.wallets[i].Balance = st.wallets[i].Balance.Sub(tx.Effect())
		st.wallets[i].UpdatedAt = &now
	}
}

// checkReferences verifies the wallet exists and, for regular transactions,
// that the category exists and shares the transaction's type
func (st *ledgerState) checkReferences(tx domain.Transaction) error {
	if st.walletIndex(tx.WalletID) < 0 {
		return domain.NewNotFoundError("wallet", tx.WalletID)
	}
	if tx.IsTransferLeg() {
		if tx.CategoryID != 0 {
			return domain.NewValidationError("categoryId", "transfer legs carry no category")
		}
		return nil
	}
	category, ok := st.category(tx.CategoryID)
	if !ok {
		return domain.NewNotFoundError("category", tx.CategoryID)
	}
	if category.Type != tx.Type {
		return domain.NewValidationError("categoryId",
			"category "+category.Name+" is "+string(category.Type)+", transaction is "+string(tx.Type))
	}
	return nil
}
