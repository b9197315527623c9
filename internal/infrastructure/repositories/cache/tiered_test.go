package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-cache-service/internal/domain/interfaces"
)

// countingStore wraps a MemoryStore and counts reads
type countingStore struct {
	*MemoryStore
	gets     int
	setErr   error
	onDelete func()
}

func (c *countingStore) Remove(ctx context.Context, key string) (bool, error) {
	if c.onDelete != nil {
		c.onDelete()
	}
	return c.MemoryStore.Remove(ctx, key)
}

func (c *countingStore) Get(ctx context.Context, key string) (string, error) {
	c.gets++
	return c.MemoryStore.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	return c.MemoryStore.Set(ctx, key, value, ttl)
}

func newTestTiered(t *testing.T) (*TieredStore, *countingStore) {
	t.Helper()
	l2 := &countingStore{MemoryStore: NewMemoryStore()}
	tiered, err := NewTieredStore(l2, 1<<20, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tiered.Close() })
	return tiered, l2
}

func TestTieredStore_SetThenGetServedFromL1(t *testing.T) {
	tiered, l2 := newTestTiered(t)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "price_current_crypto_BTC", "payload", 12*time.Hour))

	val, err := tiered.Get(ctx, "price_current_crypto_BTC")
	require.NoError(t, err)
	assert.Equal(t, "payload", val)
	assert.Equal(t, 0, l2.gets)
}

func TestTieredStore_PromotesL2Hits(t *testing.T) {
	tiered, l2 := newTestTiered(t)
	ctx := context.Background()

	require.NoError(t, l2.MemoryStore.Set(ctx, "price_historical_index_SPX_2024-01-02", "hist", 0))

	val, err := tiered.Get(ctx, "price_historical_index_SPX_2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "hist", val)

	_, err = tiered.Get(ctx, "price_historical_index_SPX_2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, 1, l2.gets)
}

func TestTieredStore_MissAndDelete(t *testing.T) {
	tiered, _ := newTestTiered(t)
	ctx := context.Background()

	_, err := tiered.Get(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, tiered.Set(ctx, "k", "v", 0))
	require.NoError(t, tiered.Delete(ctx, "k"))

	_, err = tiered.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestTieredStore_DeleteIsNotUndoneByConcurrentRead(t *testing.T) {
	tiered, l2 := newTestTiered(t)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "price_current_crypto_BTC", "payload", time.Hour))

	// a read racing the delete, before L2 drops the key
	l2.onDelete = func() {
		_, _ = tiered.Get(ctx, "price_current_crypto_BTC")
	}
	existed, err := tiered.Remove(ctx, "price_current_crypto_BTC")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = tiered.Get(ctx, "price_current_crypto_BTC")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	l2.onDelete = nil
	existed, err = tiered.Remove(ctx, "price_current_crypto_BTC")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestTieredStore_L2FailureSkipsL1(t *testing.T) {
	tiered, l2 := newTestTiered(t)
	ctx := context.Background()

	l2.setErr = interfaces.ErrStoreFull
	err := tiered.Set(ctx, "k", "v", time.Minute)
	assert.True(t, errors.Is(err, interfaces.ErrStoreFull))

	_, err = tiered.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestTieredStore_KeysFromL2(t *testing.T) {
	tiered, _ := newTestTiered(t)
	ctx := context.Background()

	require.NoError(t, tiered.Set(ctx, "price_current_crypto_BTC", "1", time.Hour))
	require.NoError(t, tiered.Set(ctx, "price_current_stock_AAPL", "2", time.Hour))
	require.NoError(t, tiered.Set(ctx, "price_historical_crypto_BTC_2024-01-02", "3", 0))

	keys, err := tiered.Keys(ctx, "price_current_")
	require.NoError(t, err)
	assert.Equal(t, []string{"price_current_crypto_BTC", "price_current_stock_AAPL"}, keys)

	assert.NoError(t, tiered.Ping(ctx))
}
