//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/moneymaster-backend/internal/adapter/repository/sqlkv"
	"github.com/simaogato/moneymaster-backend/internal/domain"
)

func openTestStore(t *testing.T) (*sqlkv.Store, func()) {
	t.Helper()
	dsn := os.Getenv("MONEYMASTER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MONEYMASTER_TEST_POSTGRES_DSN not set")
	}

	store, err := Open(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.DB().ExecContext(ctx, `TRUNCATE collections, counters`)
	require.NoError(t, err)

	return store, func() { store.Close() }
}

func TestStore_RoundTrip(t *testing.T) {
	store, cleanup := openTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Batch{
		domain.CollectionWallets:      []byte(`[{"id":1,"name":"Cash"}]`),
		domain.CollectionTransactions: []byte(`[]`),
	}))

	doc, err := store.Load(ctx, domain.CollectionWallets)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Cash"}]`, string(doc))

	missing, err := store.Load(ctx, domain.CollectionBudgets)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Counters(t *testing.T) {
	store, cleanup := openTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.InitCounter(ctx, domain.CounterTransaction, 6))
	require.NoError(t, store.InitCounter(ctx, domain.CounterTransaction, 99))

	id, err := store.NextID(ctx, domain.CounterTransaction)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}
