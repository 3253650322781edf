package storage

import (
	"context"
	"sync"

	"wealth/internal/cache"
)

// Cached serves repeated reads from an LRU in front of a slower backend.
// Writes go through to the backend first and then refresh the cache.
//
// Every write bumps a per-key generation. A fill or refresh only reaches the
// cache when no other write to the key landed while it talked to the backend,
// so a slow read can never reinstate bytes that a newer write replaced.
type Cached struct {
	next  Backend
	cache *cache.LRUCache[[]byte]

	mu      sync.Mutex
	seq     uint64
	gens    map[string]uint64
	cleared uint64
}

func NewCached(next Backend, lru *cache.LRUCache[[]byte]) *Cached {
	return &Cached{next: next, cache: lru, gens: make(map[string]uint64)}
}

// generation changes whenever key is written, deleted or the cache is cleared.
// Callers hold c.mu.
func (c *Cached) generation(key string) uint64 {
	return max(c.gens[key], c.cleared)
}

func (c *Cached) snapshot(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(key)
}

func (c *Cached) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		return append([]byte(nil), v...), true, nil
	}
	gen := c.snapshot(key)
	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}

	c.mu.Lock()
	if c.generation(key) == gen {
		c.cache.Set(key, append([]byte(nil), v...))
	}
	c.mu.Unlock()
	return v, true, nil
}

func (c *Cached) Set(ctx context.Context, key string, value []byte) error {
	gen := c.snapshot(key)
	err := c.next.Set(ctx, key, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil || c.generation(key) != gen {
		// A concurrent write makes the final backend value unknown here.
		c.cache.Delete(key)
	} else {
		c.cache.Set(key, append([]byte(nil), value...))
	}
	c.seq++
	c.gens[key] = c.seq
	return err
}

func (c *Cached) Delete(ctx context.Context, keys ...string) error {
	err := c.next.Delete(ctx, keys...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	for _, k := range keys {
		c.cache.Delete(k)
		c.gens[k] = c.seq
	}
	return err
}

func (c *Cached) Keys(ctx context.Context, prefix string) ([]string, error) {
	return c.next.Keys(ctx, prefix)
}

func (c *Cached) Clear(ctx context.Context) error {
	err := c.next.Clear(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
	c.seq++
	c.cleared = c.seq
	clear(c.gens)
	return err
}

func (c *Cached) Close() error {
	c.mu.Lock()
	c.cache.Clear()
	c.mu.Unlock()
	return c.next.Close()
}
