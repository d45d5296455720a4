package seeder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/memory"
	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/records"
)

var fixedNow = time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

// MockRecordStore is a mock implementation of domain.RecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Load(ctx context.Context, collection domain.Collection) ([]byte, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRecordStore) Save(ctx context.Context, batch domain.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockRecordStore) NextID(ctx context.Context, counter domain.Counter) (int64, error) {
	args := m.Called(ctx, counter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordStore) InitCounter(ctx context.Context, counter domain.Counter, value int64) error {
	args := m.Called(ctx, counter, value)
	return args.Error(0)
}

func newSeeder(backend domain.RecordStore) (*DefaultSeeder, *records.Store) {
	store := records.New(backend, nil)
	s := NewDefaultSeeder(store, nil)
	s.Now = func() time.Time { return fixedNow }
	return s, store
}

func TestDefaultSeeder_Seed_FreshStore(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	s, store := newSeeder(backend)

	require.NoError(t, s.Seed(ctx))

	wallets := store.Wallets(ctx)
	categories := store.Categories(ctx)
	txs := store.Transactions(ctx)
	budgets := store.Budgets(ctx)

	assert.Len(t, wallets, 3)
	assert.Len(t, categories, 10)
	assert.Len(t, txs, 6)
	assert.Len(t, budgets, 3)

	income, expense := 0, 0
	for _, c := range categories {
		if c.Type == domain.TransactionTypeIncome {
			income++
		} else {
			expense++
		}
	}
	assert.Equal(t, 3, income)
	assert.Equal(t, 7, expense)

	for _, tx := range txs {
		assert.True(t, tx.InMonth(2026, time.October, time.UTC), "sample transaction %d outside current month", tx.ID)
	}
	for _, b := range budgets {
		assert.True(t, b.Covers(10, 2026))
	}

	for counter, want := range map[domain.Counter]int64{
		domain.CounterTransaction: 6,
		domain.CounterWallet:      3,
		domain.CounterBudget:      3,
	} {
		got, ok := backend.Counter(counter)
		assert.True(t, ok)
		assert.Equal(t, want, got, "counter %s", counter)
	}
}

func TestDefaultSeeder_Seed_BalancesMatchLog(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(memory.NewStore())
	require.NoError(t, s.Seed(ctx))

	wallets := store.Wallets(ctx)
	txs := store.Transactions(ctx)

	displayed := map[int64]int64{1: 5000000, 2: 15000000, 3: 2500000}
	for _, w := range wallets {
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(displayed[w.ID])), "wallet %d balance", w.ID)

		expected := w.OpeningBalance
		for _, tx := range txs {
			if tx.WalletID == w.ID {
				expected = expected.Add(tx.Effect())
			}
		}
		assert.True(t, w.Balance.Equal(expected), "wallet %d drifted from its log", w.ID)
	}
}

func TestDefaultSeeder_Seed_Idempotent(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	s, store := newSeeder(backend)

	require.NoError(t, s.Seed(ctx))
	_, err := backend.NextID(ctx, domain.CounterTransaction)
	require.NoError(t, err)

	// User removes every budget; a restart must not bring them back
	require.NoError(t, store.Begin().PutBudgets(nil).Commit(ctx))

	require.NoError(t, s.Seed(ctx))

	assert.Empty(t, store.Budgets(ctx))
	assert.Len(t, store.Wallets(ctx), 3)
	v, _ := backend.Counter(domain.CounterTransaction)
	assert.Equal(t, int64(7), v, "counters are never reset")
}

func TestDefaultSeeder_Seed_SkipsTransactionsForExistingWallets(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	backend.Put(domain.CollectionWallets, []byte(`[{"id":1,"name":"Mine","type":"cash","balance":"10","openingBalance":"10"}]`))
	s, store := newSeeder(backend)

	require.NoError(t, s.Seed(ctx))

	wallets := store.Wallets(ctx)
	require.Len(t, wallets, 1)
	assert.Equal(t, "Mine", wallets[0].Name)
	assert.Empty(t, store.Transactions(ctx))
	assert.Len(t, store.Categories(ctx), 10)
}

func TestDefaultSeeder_Seed_NeverOverwritesCorruptCollection(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	backend.Put(domain.CollectionCategories, []byte(`{corrupt`))
	s, _ := newSeeder(backend)

	require.NoError(t, s.Seed(ctx))

	doc, err := backend.Load(ctx, domain.CollectionCategories)
	require.NoError(t, err)
	assert.Equal(t, `{corrupt`, string(doc))
}

func TestDefaultSeeder_Seed_UnreadableCollectionSkipped(t *testing.T) {
	ctx := context.Background()
	backend := new(MockRecordStore)
	backend.On("Load", ctx, domain.CollectionWallets).Return(nil, errors.New("io error"))
	backend.On("Load", ctx, mock.Anything).Return([]byte(`[]`), nil)
	backend.On("InitCounter", ctx, mock.Anything, mock.Anything).Return(nil)
	s, _ := newSeeder(backend)

	require.NoError(t, s.Seed(ctx))

	backend.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	backend.AssertNumberOfCalls(t, "InitCounter", 3)
}

func TestDefaultSeeder_Seed_SaveFailure(t *testing.T) {
	ctx := context.Background()
	backend := new(MockRecordStore)
	backend.On("Load", ctx, mock.Anything).Return(nil, nil)
	backend.On("Save", ctx, mock.Anything).Return(errors.New("read-only filesystem"))
	s, _ := newSeeder(backend)

	err := s.Seed(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))
	backend.AssertNotCalled(t, "InitCounter", mock.Anything, mock.Anything, mock.Anything)
}
