package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Checkout idempotency keys: idem:checkout:{buyer_store_id}:{client_key}.
const (
	keyCheckout = "idem:checkout:%s:%s"

	// TTL long enough to cover client retries, short enough that a reused
	// key eventually becomes a fresh checkout again.
	TTL = 24 * time.Hour
)

// Store remembers the serialized response of a completed checkout so a
// retried request with the same Idempotency-Key replays the result instead
// of touching inventory twice.
type Store interface {
	Get(ctx context.Context, buyerStoreID uuid.UUID, key string) ([]byte, bool, error)
	Save(ctx context.Context, buyerStoreID uuid.UUID, key string, response []byte) error
}

// RedisStore backs the idempotency guard with Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects a store to the given Redis address.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisStore) Get(ctx context.Context, buyerStoreID uuid.UUID, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, fmt.Sprintf(keyCheckout, buyerStoreID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Save(ctx context.Context, buyerStoreID uuid.UUID, key string, response []byte) error {
	return s.client.Set(ctx, fmt.Sprintf(keyCheckout, buyerStoreID, key), response, TTL).Err()
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// DisabledStore is used when no Redis address is configured; every request
// is treated as new.
type DisabledStore struct{}

func (DisabledStore) Get(context.Context, uuid.UUID, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (DisabledStore) Save(context.Context, uuid.UUID, string, []byte) error {
	return nil
}
