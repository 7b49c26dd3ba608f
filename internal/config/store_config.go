package config

import (
	"fmt"
	"strings"
)

// SessionBackend selects where the persisted session lives.
type SessionBackend string

const (
	BackendBolt   SessionBackend = "bolt"
	BackendRedis  SessionBackend = "redis"
	BackendSQLite SessionBackend = "sqlite"
	BackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch SessionBackend(v) {
	case BackendBolt, BackendRedis, BackendSQLite, BackendMemory:
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: bolt, redis, sqlite, memory)", v)
	}
}

type StoreConfig interface {
	GetSessionBackend() SessionBackend
	GetSessionPath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Store struct {
	Backend       SessionBackend `env:"SESSION_BACKEND" envDefault:"bolt"`
	Path          string         `env:"SESSION_PATH"    envDefault:"./data/session.db"`
	RedisAddr     string         `env:"REDIS_ADDR"      envDefault:"localhost:6379"`
	RedisPassword string         `env:"REDIS_PASSWORD"`
	RedisDB       int            `env:"REDIS_DB"        envDefault:"0"`
	RedisPrefix   string         `env:"REDIS_PREFIX"    envDefault:"churchadmin:"`
}

var _ StoreConfig = Store{}

func (s Store) GetSessionBackend() SessionBackend {
	if s.Backend == "" {
		return BackendBolt
	}
	return s.Backend
}

func (s Store) GetSessionPath() string {
	return s.Path
}

func (s Store) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Store) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Store) GetRedisDB() int {
	return s.RedisDB
}

func (s Store) GetRedisPrefix() string {
	return s.RedisPrefix
}
