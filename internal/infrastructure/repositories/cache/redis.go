package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"price-cache-service/internal/domain/interfaces"
)

// scanBatchSize is the COUNT hint passed to SCAN
const scanBatchSize = 200

// RedisClient is the subset of *redis.Client used by RedisStore
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore implements interfaces.Store on top of Redis
type RedisStore struct {
	client RedisClient
}

// NewRedisStore creates a store with its own client
func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{
		client: rdb,
	}
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client RedisClient) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// Get retrieves a value from Redis
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value; a zero TTL persists the key
func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		if isOutOfMemory(err) {
			return fmt.Errorf("redis set %s: %w", key, interfaces.ErrStoreFull)
		}
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key from Redis
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	_, err := r.Remove(ctx, key)
	return err
}

// Remove deletes key and reports whether Redis held it
func (r *RedisStore) Remove(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del %s: %w", key, err)
	}
	return n > 0, nil
}

// Keys walks SCAN MATCH prefix* until the cursor wraps. SCAN may return a
// key more than once during a rehash, so the result is deduplicated.
func (r *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	seen := make(map[string]struct{})
	match := escapeGlob(prefix) + "*"

	for {
		page, next, err := r.client.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", match, err)
		}
		for _, key := range page {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Ping checks if Redis connection is alive
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// isOutOfMemory matches the error Redis returns when maxmemory is reached
func isOutOfMemory(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM")
}

// escapeGlob quotes the glob metacharacters understood by MATCH
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
