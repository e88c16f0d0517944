// Package redis stores the subscription list as one JSON value under a key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/repository/subscription"
)

const DefaultKey = "subscriptions"

// Client is the subset of go-redis used by Backend
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

type Backend struct {
	client Client
	key    string
}

func New(client Client, key string) *Backend {
	if key == "" {
		key = DefaultKey
	}
	return &Backend{client: client, key: key}
}

func (b *Backend) Load(ctx context.Context) ([]entity.Subscription, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, subscription.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", b.key, err)
	}
	return subscription.Unmarshal(raw)
}

func (b *Backend) Save(ctx context.Context, subs []entity.Subscription) error {
	data, err := subscription.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encode subscriptions: %w", err)
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", b.key, err)
	}
	return nil
}
