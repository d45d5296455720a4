package domain

import "context"

// Collection names a persisted record collection
type Collection string

const (
	CollectionWallets      Collection = "wallets"
	CollectionCategories   Collection = "categories"
	CollectionTransactions Collection = "transactions"
	CollectionBudgets      Collection = "budgets"
)

// Collections lists every collection the store holds
var Collections = []Collection{
	CollectionWallets,
	CollectionCategories,
	CollectionTransactions,
	CollectionBudgets,
}

// Counter names a persisted id counter
type Counter string

const (
	CounterTransaction Counter = "lastTransactionId"
	CounterWallet      Counter = "lastWalletId"
	CounterBudget      Counter = "lastBudgetId"
)

// Batch holds the encoded documents of the collections written by one unit of work
type Batch map[Collection][]byte

// RecordStore defines the persistence contract for record collections and id counters.
// Documents are JSON arrays; the store never interprets them.
type RecordStore interface {
	// Load returns the document stored for a collection.
	// A missing collection yields a nil document and no error.
	Load(ctx context.Context, collection Collection) ([]byte, error)

	// Save overwrites every collection in the batch atomically:
	// either all documents are written or none is
	Save(ctx context.Context, batch Batch) error

	// NextID increments the counter and returns its new value.
	// The increment is persisted before NextID returns so ids are never reused
	NextID(ctx context.Context, counter Counter) (int64, error)

	// InitCounter sets the counter to value only if it has never been set
	InitCounter(ctx context.Context, counter Counter, value int64) error
}
