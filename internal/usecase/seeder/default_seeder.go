package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/log"
	"github.com/simaogato/moneymaster-backend/internal/records"
)

// DefaultSeeder writes the default dataset into a fresh store
type DefaultSeeder struct {
	Store  *records.Store
	Now    func() time.Time
	logger *log.Logger
}

// NewDefaultSeeder creates a new DefaultSeeder instance
func NewDefaultSeeder(store *records.Store, logger *log.Logger) *DefaultSeeder {
	return &DefaultSeeder{
		Store:  store,
		Now:    time.Now,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentSeeder),
	}
}

// Seed ensures a store has its default data.
// Logic:
//  1. Check every collection for existence; a collection the user emptied still exists
//  2. Stage each missing collection from the default dataset
//     - Sample transactions are staged only together with the sample wallets
//  3. Commit the staged collections as one unit
//  4. Initialise the id counters to the seed sizes when they were never set
//
// Running Seed again is a no-op.
func (s *DefaultSeeder) Seed(ctx context.Context) error {
	data := DefaultDataset(s.Now())

	missing := make(map[domain.Collection]bool, len(domain.Collections))
	for _, collection := range domain.Collections {
		exists, err := s.Store.Exists(ctx, collection)
		if err != nil {
			// Unreadable data is never overwritten
			s.logger.WarnContext(ctx, "skipping unreadable collection",
				log.FieldCollection, string(collection),
				log.FieldError, err)
			continue
		}
		missing[collection] = !exists
	}

	uow := s.Store.Begin()
	seeded := 0
	if missing[domain.CollectionWallets] {
		uow.PutWallets(data.Wallets)
		seeded++
	}
	if missing[domain.CollectionCategories] {
		uow.PutCategories(data.Categories)
		seeded++
	}
	if missing[domain.CollectionTransactions] {
		txs := data.Transactions
		if !missing[domain.CollectionWallets] {
			txs = []domain.Transaction{}
		}
		uow.PutTransactions(txs)
		seeded++
	}
	if missing[domain.CollectionBudgets] {
		uow.PutBudgets(data.Budgets)
		seeded++
	}

	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("seed collections: %w", err)
	}

	counters := map[domain.Counter]int64{
		domain.CounterTransaction: int64(len(data.Transactions)),
		domain.CounterWallet:      int64(len(data.Wallets)),
		domain.CounterBudget:      int64(len(data.Budgets)),
	}
	for _, counter := range []domain.Counter{domain.CounterTransaction, domain.CounterWallet, domain.CounterBudget} {
		if err := s.Store.InitCounter(ctx, counter, counters[counter]); err != nil {
			return fmt.Errorf("seed counters: %w", err)
		}
	}

	if seeded > 0 {
		s.logger.InfoContext(ctx, "default data seeded", log.FieldCount, seeded)
	}
	return nil
}
