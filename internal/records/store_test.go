package records

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
)

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

func TestStore_EmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := New(memory.NewStore(), nil)

	assert.Empty(t, s.Wallets(ctx))
	assert.NotNil(t, s.Wallets(ctx))

	txs, err := s.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestStore_CorruptCollectionDegrades(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	backend.Put(domain.CollectionTransactions, []byte(`{"broken":`))
	s := New(backend, nil)

	assert.Empty(t, s.Transactions(ctx))

	_, err := s.LoadTransactions(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))
}

func TestStore_NullDocumentReadsEmpty(t *testing.T) {
	backend := memory.NewStore()
	backend.Put(domain.CollectionBudgets, []byte(`null`))
	s := New(backend, nil)

	budgets, err := s.LoadBudgets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, budgets)
	assert.Empty(t, budgets)
}

func TestStore_LoadErrorDegrades(t *testing.T) {
	ctx := context.Background()
	backend := new(MockRecordStore)
	backend.On("Load", ctx, domain.CollectionWallets).Return(nil, errors.New("io error"))
	s := New(backend, nil)

	assert.Empty(t, s.Wallets(ctx))

	_, err := s.LoadWallets(ctx)
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "load", storeErr.Op)
	assert.Equal(t, "wallets", storeErr.Collection)
	backend.AssertExpectations(t)
}

func TestUnitOfWork_CommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(memory.NewStore(), nil)
	created := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

	wallets := []domain.Wallet{{
		ID:             1,
		Name:           "Cash",
		Type:           domain.WalletTypeCash,
		Balance:        decimal.RequireFromString("1500.25"),
		OpeningBalance: decimal.NewFromInt(1000),
		CreatedAt:      created,
	}}
	txs := []domain.Transaction{{
		ID:         1,
		Amount:     decimal.RequireFromString("500.25"),
		Type:       domain.TransactionTypeIncome,
		CategoryID: 1,
		WalletID:   1,
		Date:       created,
		CreatedAt:  created,
	}}

	require.NoError(t, s.Begin().PutWallets(wallets).PutTransactions(txs).Commit(ctx))

	gotWallets := s.Wallets(ctx)
	require.Len(t, gotWallets, 1)
	assert.True(t, gotWallets[0].Balance.Equal(decimal.RequireFromString("1500.25")))
	assert.True(t, gotWallets[0].CreatedAt.Equal(created))

	gotTxs := s.Transactions(ctx)
	require.Len(t, gotTxs, 1)
	assert.True(t, gotTxs[0].Amount.Equal(decimal.RequireFromString("500.25")))
}

func TestUnitOfWork_SingleSaveCall(t *testing.T) {
	ctx := context.Background()
	backend := new(MockRecordStore)
	backend.On("Save", ctx, mock.MatchedBy(func(batch domain.Batch) bool {
		_, hasWallets := batch[domain.CollectionWallets]
		_, hasTxs := batch[domain.CollectionTransactions]
		return len(batch) == 2 && hasWallets && hasTxs
	})).Return(nil).Once()
	s := New(backend, nil)

	err := s.Begin().PutWallets(nil).PutTransactions([]domain.Transaction{}).Commit(ctx)
	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestUnitOfWork_SaveFailure(t *testing.T) {
	ctx := context.Background()
	backend := new(MockRecordStore)
	backend.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))
	s := New(backend, nil)

	err := s.Begin().PutBudgets([]domain.Budget{}).Commit(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestUnitOfWork_EmptyCommitIsNoop(t *testing.T) {
	backend := new(MockRecordStore)
	s := New(backend, nil)

	require.NoError(t, s.Begin().Commit(context.Background()))
	backend.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStore_NextIDFailure(t *testing.T) {
	ctx := context.Background()
	backend := new(MockRecordStore)
	backend.On("NextID", ctx, domain.CounterWallet).Return(int64(0), errors.New("locked"))
	s := New(backend, nil)

	_, err := s.NextID(ctx, domain.CounterWallet)
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))
}
