// Package records gives typed access to the collections of a domain.RecordStore.
//
// Two read flavours exist. The plain accessors (Wallets, Transactions...)
// never fail: an absent, unreadable or corrupt collection reads as empty and
// the failure is logged. The Load* variants return a *domain.StoreError
// instead and are used on mutation paths so that an unreadable collection is
// never silently replaced by a rewritten one.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
)

// Store decodes and encodes record collections
type Store struct {
	backend domain.RecordStore
	logger  *log.Logger
}

// New wraps a record store backend
func New(backend domain.RecordStore, logger *log.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  log.OrDiscard(logger).WithComponent(log.ComponentRecords),
	}
}

// Wallets returns every wallet, or none when the collection cannot be read
func (s *Store) Wallets(ctx context.Context) []domain.Wallet {
	return degrade(ctx, s, domain.CollectionWallets, s.LoadWallets)
}

// Categories returns every category, or none when the collection cannot be read
func (s *Store) Categories(ctx context.Context) []domain.Category {
	return degrade(ctx, s, domain.CollectionCategories, s.LoadCategories)
}

// Transactions returns every transaction, or none when the collection cannot be read
func (s *Store) Transactions(ctx context.Context) []domain.Transaction {
	return degrade(ctx, s, domain.CollectionTransactions, s.LoadTransactions)
}

// Budgets returns every budget, or none when the collection cannot be read
func (s *Store) Budgets(ctx context.Context) []domain.Budget {
	return degrade(ctx, s, domain.CollectionBudgets, s.LoadBudgets)
}

// LoadWallets decodes the wallets collection
func (s *Store) LoadWallets(ctx context.Context) ([]domain.Wallet, error) {
	return load[domain.Wallet](ctx, s.backend, domain.CollectionWallets)
}

// LoadCategories decodes the categories collection
func (s *Store) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	return load[domain.Category](ctx, s.backend, domain.CollectionCategories)
}

// LoadTransactions decodes the transactions collection
func (s *Store) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return load[domain.Transaction](ctx, s.backend, domain.CollectionTransactions)
}

// LoadBudgets decodes the budgets collection
func (s *Store) LoadBudgets(ctx context.Context) ([]domain.Budget, error) {
	return load[domain.Budget](ctx, s.backend, domain.CollectionBudgets)
}

// NextID allocates the next id of a counter
func (s *Store) NextID(ctx context.Context, counter domain.Counter) (int64, error) {
	id, err := s.backend.NextID(ctx, counter)
	if err != nil {
		return 0, &domain.StoreError{Op: "next id", Collection: string(counter), Err: err}
	}
	return id, nil
}

// InitCounter seeds a counter that has never been set
func (s *Store) InitCounter(ctx context.Context, counter domain.Counter, value int64) error {
	if err := s.backend.InitCounter(ctx, counter, value); err != nil {
		return &domain.StoreError{Op: "init counter", Collection: string(counter), Err: err}
	}
	return nil
}

// Begin starts a unit of work whose staged collections are written by one Save
func (s *Store) Begin() *UnitOfWork {
	return &UnitOfWork{store: s, batch: make(domain.Batch)}
}

func load[T any](ctx context.Context, backend domain.RecordStore, collection domain.Collection) ([]T, error) {
	doc, err := backend.Load(ctx, collection)
	if err != nil {
		return nil, &domain.StoreError{Op: "load", Collection: string(collection), Err: err}
	}
	if len(doc) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, &domain.StoreError{Op: "decode", Collection: string(collection), Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func degrade[T any](ctx context.Context, s *Store, collection domain.Collection, loader func(context.Context) ([]T, error)) []T {
	items, err := loader(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "collection unreadable, treating as empty",
			log.FieldCollection, string(collection),
			log.FieldError, err)
		return []T{}
	}
	return items
}

func encode[T any](collection domain.Collection, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	doc, err := json.Marshal(items)
	if err != nil {
		return nil, &domain.StoreError{Op: "encode", Collection: string(collection), Err: fmt.Errorf("marshal: %w", err)}
	}
	return doc, nil
}

// Exists reports whether the collection was ever stored, even as an empty list
func (s *Store) Exists(ctx context.Context, collection domain.Collection) (bool, error) {
	doc, err := s.backend.Load(ctx, collection)
	if err != nil {
		return false, &domain.StoreError{Op: "load", Collection: string(collection), Err: err}
	}
	return len(doc) > 0, nil
}
