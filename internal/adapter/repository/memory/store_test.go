package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

func TestStore_LoadAbsentCollection(t *testing.T) {
	s := NewStore()

	doc, err := s.Load(context.Background(), domain.CollectionWallets)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestStore_SaveBatchAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Save(ctx, domain.Batch{
		domain.CollectionWallets:      []byte(`[{"id":1}]`),
		domain.CollectionTransactions: []byte(`[]`),
	})
	require.NoError(t, err)

	wallets, err := s.Load(ctx, domain.CollectionWallets)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(wallets))

	// Mutating the returned slice must not leak into the store
	wallets[0] = 'x'
	again, _ := s.Load(ctx, domain.CollectionWallets)
	assert.JSONEq(t, `[{"id":1}]`, string(again))
}

func TestStore_Counters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.InitCounter(ctx, domain.CounterTransaction, 6))
	require.NoError(t, s.InitCounter(ctx, domain.CounterTransaction, 100))

	id, err := s.NextID(ctx, domain.CounterTransaction)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	id, err = s.NextID(ctx, domain.CounterWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestStore_NextIDConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.NextID(ctx, domain.CounterBudget)
			assert.NoError(t, err)
			_, dup := seen.LoadOrStore(id, true)
			assert.False(t, dup, "id %d issued twice", id)
		}()
	}
	wg.Wait()

	v, ok := s.Counter(domain.CounterBudget)
	assert.True(t, ok)
	assert.Equal(t, int64(50), v)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().Load(ctx, domain.CollectionWallets)
	assert.ErrorIs(t, err, context.Canceled)
}
