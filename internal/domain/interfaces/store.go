package interfaces

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyNotFound is returned by Store.Get for absent or expired keys
	ErrKeyNotFound = errors.New("key not found")
	// ErrStoreFull is returned by Store.Set when the backend is out of space
	ErrStoreFull = errors.New("store is full")
)

// Store is the persistent key-value layer under the price cache.
// Values are opaque strings; a zero ttl means the backend never expires the key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Remover is implemented by stores that can tell whether a delete found the key
type Remover interface {
	Remove(ctx context.Context, key string) (bool, error)
}

// Pinger is implemented by stores backed by a remote server
type Pinger interface {
	Ping(ctx context.Context) error
}
