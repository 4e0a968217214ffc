package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no cart exists under the given id.
var ErrNotFound = errors.New("cart: not found")

// Store persists carts as opaque blobs keyed by cart id.
type Store interface {
	Get(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps carts in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cart")
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "failed to decode cart")
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode cart")
	}
	if err := s.client.Set(ctx, cartKey(c.ID), raw, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to write cart")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, cartKey(id)).Err(); err != nil {
		return errors.Wrap(err, "failed to delete cart")
	}
	return nil
}

// MemoryStore is the in-process Store used by tests and dev setups without
// Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string]*Cart{}}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *c
	clone.LineItems = append([]LineItem(nil), c.LineItems...)
	return &clone, nil
}

func (s *MemoryStore) Save(ctx context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *c
	clone.LineItems = append([]LineItem(nil), c.LineItems...)
	s.carts[c.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, id)
	return nil
}
