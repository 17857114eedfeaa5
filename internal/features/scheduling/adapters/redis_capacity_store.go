package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pedidos-service/internal/core/cache"
	"pedidos-service/internal/features/scheduling/domain"
)

const capacityKeyPrefix = "cupos_"

// RedisCapacityStore implements ports.CapacityStore on top of the cache
// adapter. Each calendar day gets its own key; records expire at the end of
// that day, so counters reset implicitly at day rollover.
type RedisCapacityStore struct {
	cache cache.Cache
}

// NewRedisCapacityStore creates a new RedisCapacityStore.
func NewRedisCapacityStore(c cache.Cache) *RedisCapacityStore {
	return &RedisCapacityStore{
		cache: c,
	}
}

// Get loads the capacity state for a day, returning a zeroed state when the
// day has no record yet.
func (r *RedisCapacityStore) Get(ctx context.Context, day string) (*domain.CapacityState, error) {
	data, err := r.cache.Get(ctx, capacityKeyPrefix+day)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return &domain.CapacityState{}, nil
		}
		return nil, fmt.Errorf("failed to load capacity for %s: %w", day, err)
	}

	var state domain.CapacityState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal capacity for %s: %w", day, err)
	}

	return &state, nil
}

// Put stores the capacity state for a day with an end-of-day expiry.
func (r *RedisCapacityStore) Put(ctx context.Context, day string, state *domain.CapacityState, endOfDay time.Time) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal capacity for %s: %w", day, err)
	}

	if err := r.cache.SetUntil(ctx, capacityKeyPrefix+day, data, endOfDay); err != nil {
		return fmt.Errorf("failed to save capacity for %s: %w", day, err)
	}

	return nil
}
