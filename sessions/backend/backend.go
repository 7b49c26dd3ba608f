// Package backend selects and opens the configured sessions.Repo.
package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/jrsteele09/go-church-admin/sessions"
	"github.com/jrsteele09/go-church-admin/sessions/boltrepo"
	"github.com/jrsteele09/go-church-admin/sessions/redisrepo"
	sessionrepofake "github.com/jrsteele09/go-church-admin/sessions/repofake"
	"github.com/jrsteele09/go-church-admin/sessions/sqliterepo"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

// Open opens the backend named by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (sessions.Repo, error) {
	switch cfg.GetSessionBackend() {
	case config.BackendBolt:
		return boltrepo.NewFromFile(cfg.GetSessionPath(), nil)
	case config.BackendSQLite:
		return sqliterepo.Open(ctx, cfg.GetSessionPath())
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("[backend Open] redis %s: %w", cfg.GetRedisAddr(), err)
		}
		return redisrepo.New(client, cfg.GetRedisPrefix()), nil
	case config.BackendMemory:
		return sessionrepofake.NewFakeSessionRepo(), nil
	default:
		return nil, fmt.Errorf("[backend Open] unknown session backend %q", cfg.GetSessionBackend())
	}
}

// Lazy returns a Repo that opens the configured backend on first use. An
// open failure is returned from that and every later call.
func Lazy(cfg config.StoreConfig) sessions.Repo {
	return &lazyRepo{cfg: cfg}
}

type lazyRepo struct {
	cfg  config.StoreConfig
	once sync.Once
	repo sessions.Repo
	err  error
	mu   sync.Mutex
}

func (l *lazyRepo) open(ctx context.Context) (sessions.Repo, error) {
	l.once.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.repo, l.err = Open(ctx, l.cfg)
	})
	return l.repo, l.err
}

func (l *lazyRepo) Get(ctx context.Context, key string) (string, bool, error) {
	repo, err := l.open(ctx)
	if err != nil {
		return "", false, err
	}
	return repo.Get(ctx, key)
}

func (l *lazyRepo) PutAll(ctx context.Context, values map[string]string) error {
	repo, err := l.open(ctx)
	if err != nil {
		return err
	}
	return repo.PutAll(ctx, values)
}

func (l *lazyRepo) DeleteAll(ctx context.Context, keys ...string) error {
	repo, err := l.open(ctx)
	if err != nil {
		return err
	}
	return repo.DeleteAll(ctx, keys...)
}

// Close closes the backend if it was ever opened.
func (l *lazyRepo) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.repo == nil {
		return nil
	}
	return l.repo.Close()
}
