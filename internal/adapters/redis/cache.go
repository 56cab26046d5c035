package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/rehearse/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces reply keys.
const DefaultPrefix = "rehearse:reply:"

// Cache implements ports.ReplyCache using Redis.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ReplyCache = (*Cache)(nil)

type Option func(*Cache)

// WithTTL sets the expiration for cached replies.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached replies.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a Redis reply cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis reply cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

func (c *Cache) hitsKey() string {
	return c.prefix + "hits"
}

// Get returns the cached reply, counting hits per key.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get from redis: %w", err)
	}

	// Hit counting is best effort.
	c.client.ZIncrBy(ctx, c.hitsKey(), 1, key)
	return val, true, nil
}

// Set stores a reply and resets its hit count.
func (c *Cache) Set(ctx context.Context, key, reply string) error {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.key(key), reply, c.ttl)
	pipe.ZAdd(ctx, c.hitsKey(), backend.Z{Score: 0, Member: key})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Hits returns how often the reply under key was served from the cache.
func (c *Cache) Hits(ctx context.Context, key string) (int, error) {
	score, err := c.client.ZScore(ctx, c.hitsKey(), key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read hits: %w", err)
	}
	return int(score), nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
