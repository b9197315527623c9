package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/logging"
)

// DefaultL1TTL bounds how long a value may be served from process memory
const DefaultL1TTL = time.Minute

// TieredStore puts a ristretto L1 in front of another Store.
// Reads check L1 first; writes and deletes go to L2 before L1.
type TieredStore struct {
	l1    *ristretto.Cache[string, []byte]
	l2    interfaces.Store
	l1TTL time.Duration
}

// NewTieredStore creates a two-level store. maxCost is the L1 capacity in bytes.
func NewTieredStore(l2 interfaces.Store, maxCost int64, l1TTL time.Duration) (*TieredStore, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost / 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	if l1TTL <= 0 {
		l1TTL = DefaultL1TTL
	}
	return &TieredStore{
		l1:    rc,
		l2:    l2,
		l1TTL: l1TTL,
	}, nil
}

// Get checks L1, then L2. L2 hits are promoted with the L1 TTL.
func (t *TieredStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := t.l1.Get(key); ok {
		logging.Cache().Hit(ctx, key, "l1")
		return string(v), nil
	}

	val, err := t.l2.Get(ctx, key)
	if err != nil {
		return "", err
	}
	t.promote(key, val, t.l1TTL)
	return val, nil
}

// Set writes L2 then L1; an L2 failure leaves L1 untouched
func (t *TieredStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := t.l2.Set(ctx, key, value, ttl); err != nil {
		t.l1.Del(key)
		return err
	}

	l1TTL := t.l1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	t.promote(key, value, l1TTL)
	return nil
}

// Delete removes key from L2 and then from L1, so a concurrent Get cannot
// promote the deleted value back into L1
func (t *TieredStore) Delete(ctx context.Context, key string) error {
	_, err := t.Remove(ctx, key)
	return err
}

// Remove deletes key and reports whether L2 held it. L1 is dropped even when
// L2 fails.
func (t *TieredStore) Remove(ctx context.Context, key string) (bool, error) {
	var (
		existed bool
		err     error
	)
	if remover, ok := t.l2.(interfaces.Remover); ok {
		existed, err = remover.Remove(ctx, key)
	} else {
		err = t.l2.Delete(ctx, key)
		existed = err == nil
	}
	t.l1.Del(key)
	return existed, err
}

// Keys enumerates L2 only, since L1 may have evicted entries
func (t *TieredStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return t.l2.Keys(ctx, prefix)
}

// Ping forwards to L2 when it supports it
func (t *TieredStore) Ping(ctx context.Context) error {
	if p, ok := t.l2.(interfaces.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases L1 and closes L2 when it is closable
func (t *TieredStore) Close() error {
	t.l1.Close()
	if c, ok := t.l2.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (t *TieredStore) promote(key, value string, ttl time.Duration) {
	t.l1.SetWithTTL(key, []byte(value), int64(len(value)), ttl)
	t.l1.Wait()
}
