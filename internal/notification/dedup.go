package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Category is the notification class used in the dedup composite key.
type Category string

const (
	CategorySuccess    Category = "SUCCESS"
	CategoryFailure    Category = "FAILURE"
	CategoryCancelled  Category = "CANCELLED"
	CategoryRefund     Category = "REFUND"
)

// DedupStore remembers which (orderId, category) pairs have already been
// notified. Process-local by default: a restart re-enables resending,
// an accepted trade-off unless a caller wires the Redis-backed store.
type DedupStore interface {
	// MarkIfAbsent records the key if it hasn't been seen before and
	// reports whether this call was the one that recorded it.
	MarkIfAbsent(ctx context.Context, orderID string, category Category) (firstTime bool, err error)
}

// MemoryDedupStore is the default in-process DedupStore.
type MemoryDedupStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryDedupStore returns an empty in-memory dedup set.
func NewMemoryDedupStore() *MemoryDedupStore {
	return &MemoryDedupStore{seen: make(map[string]struct{})}
}

func key(orderID string, category Category) string {
	return fmt.Sprintf("%s:%s", orderID, category)
}

// MarkIfAbsent is safe for concurrent use.
func (s *MemoryDedupStore) MarkIfAbsent(_ context.Context, orderID string, category Category) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(orderID, category)
	if _, ok := s.seen[k]; ok {
		return false, nil
	}
	s.seen[k] = struct{}{}
	return true, nil
}

// RedisDedupStore persists sent keys in Redis so the dedup set survives a
// process restart, resolving the design note's pluggable-set open question
// for deployments that need it.
type RedisDedupStore struct {
	client *redis.Client
}

// NewRedisDedupStore wraps an existing Redis client.
func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

// MarkIfAbsent uses SETNX so the check-and-record is atomic across
// concurrent notification workers sharing the same Redis instance.
func (s *RedisDedupStore) MarkIfAbsent(ctx context.Context, orderID string, category Category) (bool, error) {
	ok, err := s.client.SetNX(ctx, "notification:dedup:"+key(orderID, category), 1, 0).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
