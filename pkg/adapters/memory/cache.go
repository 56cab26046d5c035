package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/rehearse/pkg/ports"
)

// Cache implements ports.ReplyCache in memory.
// Safe for concurrent use.
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

type entry struct {
	reply   string
	expires time.Time
}

var _ ports.ReplyCache = (*Cache)(nil)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL expires replies after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty in-memory reply cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a live cached reply.
func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return "", false, nil
	}
	return e.reply, true, nil
}

// Set stores a reply.
func (c *Cache) Set(_ context.Context, key, reply string) error {
	e := entry{reply: reply}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Len reports how many replies are stored, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
