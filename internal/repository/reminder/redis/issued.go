// Package redis keeps the issued reminder IDs in a Redis set so dedup survives
// a restart of the server.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultKey = "reminders:issued"

// Client is the subset of go-redis used by IssuedStore
type Client interface {
	SAdd(ctx context.Context, key string, members ...any) *goredis.IntCmd
	SIsMember(ctx context.Context, key string, member any) *goredis.BoolCmd
	SRem(ctx context.Context, key string, members ...any) *goredis.IntCmd
}

type IssuedStore struct {
	client Client
	key    string
}

func NewIssuedStore(client Client, key string) *IssuedStore {
	if key == "" {
		key = DefaultKey
	}
	return &IssuedStore{client: client, key: key}
}

func (s *IssuedStore) IsIssued(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember %q: %w", s.key, err)
	}
	return ok, nil
}

func (s *IssuedStore) MarkIssued(ctx context.Context, id string) error {
	if err := s.client.SAdd(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("redis sadd %q: %w", s.key, err)
	}
	return nil
}

func (s *IssuedStore) Forget(ctx context.Context, id string) error {
	if err := s.client.SRem(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("redis srem %q: %w", s.key, err)
	}
	return nil
}
