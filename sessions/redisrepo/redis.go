// Package redisrepo keeps the client session in Redis so several processes
// can share one login.
package redisrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-church-admin/sessions"
	"github.com/redis/go-redis/v9"
)

// Repo implements sessions.Repo on a Redis client. Multi-key writes run in a
// MULTI/EXEC transaction.
type Repo struct {
	client redis.UniversalClient
	prefix string
}

var _ sessions.Repo = (*Repo)(nil)

// New creates a Redis-backed repo. Every key is stored under prefix.
func New(client redis.UniversalClient, prefix string) *Repo {
	return &Repo{
		client: client,
		prefix: prefix,
	}
}

func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (r *Repo) PutAll(ctx context.Context, values map[string]string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	return nil
}

func (r *Repo) DeleteAll(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}
	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Repo) Close() error {
	return r.client.Close()
}
