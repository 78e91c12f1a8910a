package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog/navigator/internal/cart"
	"catalog/navigator/internal/domain"

	"github.com/redis/go-redis/v9"
)

type CartStateManager interface {
	SaveCart(ctx context.Context, snapshot cart.Snapshot) error
	LoadCart(ctx context.Context, id string) (*cart.Snapshot, error)
	DeleteCart(ctx context.Context, id string) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisStateManager stores carts as JSON under "<prefix><cart id>". A zero ttl keeps carts forever.
func NewRedisStateManager(redisClient *redis.Client, keyPrefix string, ttl time.Duration) CartStateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
	}
}

func (s *redisStateManager) SaveCart(ctx context.Context, snapshot cart.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", snapshot.ID, err)
	}

	key := s.keyPrefix + snapshot.ID
	if err := s.redisClient.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", snapshot.ID, err)
	}
	return nil
}

func (s *redisStateManager) LoadCart(ctx context.Context, id string) (*cart.Snapshot, error) {
	key := s.keyPrefix + id
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cart %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart %s: %w", id, err)
	}

	var snapshot cart.Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", id, err)
	}

	return &snapshot, nil
}

func (s *redisStateManager) DeleteCart(ctx context.Context, id string) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, err)
	}
	return nil
}
