package modelcache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backends accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config selects and configures the model cache store.
type Config struct {
	Backend       string        `env:"MODEL_CACHE_BACKEND"    envDefault:"memory"`
	TTL           time.Duration `env:"MODEL_CACHE_TTL"        envDefault:"12h"`
	File          string        `env:"MODEL_CACHE_FILE"       envDefault:".glimpse/models.json"`
	RedisAddr     string        `env:"REDIS_ADDR"             envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"               envDefault:"0"`
	KeyPrefix     string        `env:"MODEL_CACHE_KEY_PREFIX"`
}

// NewStore builds the configured store (DI constructor).
func NewStore(cfg *Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(cfg.File)
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisStore(client, cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown model cache backend %q", cfg.Backend)
	}
}

// NewFromConfig builds the cache over store using cfg's TTL (DI constructor).
func NewFromConfig(cfg *Config, store Store) *Cache {
	return New(store, WithTTL(cfg.TTL))
}
