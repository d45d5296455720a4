package records

import (
	"context"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// UnitOfWork stages full-collection replacements and commits them together
type UnitOfWork struct {
	store *Store
	batch domain.Batch
	err   error
}

// PutWallets stages the wallets collection
func (u *UnitOfWork) PutWallets(wallets []domain.Wallet) *UnitOfWork {
	return stage(u, domain.CollectionWallets, wallets)
}

// PutCategories stages the categories collection
func (u *UnitOfWork) PutCategories(categories []domain.Category) *UnitOfWork {
	return stage(u, domain.CollectionCategories, categories)
}

// PutTransactions stages the transactions collection
func (u *UnitOfWork) PutTransactions(transactions []domain.Transaction) *UnitOfWork {
	return stage(u, domain.CollectionTransactions, transactions)
}

// PutBudgets stages the budgets collection
func (u *UnitOfWork) PutBudgets(budgets []domain.Budget) *UnitOfWork {
	return stage(u, domain.CollectionBudgets, budgets)
}

// Commit writes every staged collection in one store call.
// Nothing is written when staging failed or nothing was staged.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.err != nil {
		return u.err
	}
	if len(u.batch) == 0 {
		return nil
	}
	if err := u.store.backend.Save(ctx, u.batch); err != nil {
		return &domain.StoreError{Op: "save", Err: err}
	}
	return nil
}

func stage[T any](u *UnitOfWork, collection domain.Collection, items []T) *UnitOfWork {
	if u.err != nil {
		return u
	}
	doc, err := encode(collection, items)
	if err != nil {
		u.err = err
		return u
	}
	u.batch[collection] = doc
	return u
}
