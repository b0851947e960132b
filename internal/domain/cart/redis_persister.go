// internal/domain/cart/redis_persister.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cart:session:"

// RedisPersister keeps a session cart as one JSON value with a sliding TTL
type RedisPersister struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisPersister creates a persister for one cart session
func NewRedisPersister(client *redis.Client, sessionID string, ttl time.Duration) *RedisPersister {
	return &RedisPersister{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

func (p *RedisPersister) key() string {
	return sessionKeyPrefix + p.sessionID
}

// Load reads the session cart; a missing key is an empty cart
func (p *RedisPersister) Load(ctx context.Context) ([]Item, error) {
	data, err := p.client.Get(ctx, p.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode session cart: %w", err)
	}
	return items, nil
}

// Save overwrites the session cart and refreshes its TTL
func (p *RedisPersister) Save(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return p.Clear(ctx)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode session cart: %w", err)
	}
	if err := p.client.Set(ctx, p.key(), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session cart: %w", err)
	}
	return nil
}

// Clear deletes the session cart
func (p *RedisPersister) Clear(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete session cart: %w", err)
	}
	return nil
}
