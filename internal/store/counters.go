package store

import (
	"context"

	"wealth/internal/core"
)

// Counters hands out monotonically increasing numeric ids. Each counter key
// holds the next id to give out and starts at 1.
type Counters struct {
	store *KeyedStore
}

func NewCounters(s *KeyedStore) *Counters {
	return &Counters{store: s}
}

// NextID returns the current value of counterKey and advances it.
func (c *Counters) NextID(ctx context.Context, counterKey string) (core.ID, error) {
	var id int64
	err := c.store.Serialize(ctx, counterKey, func() error {
		id = c.peek(ctx, counterKey)
		return c.store.Set(ctx, counterKey, id+1)
	})
	if err != nil {
		return "", err
	}
	return core.IDFromInt(id), nil
}

// Peek returns the id the next NextID call would hand out.
func (c *Counters) Peek(ctx context.Context, counterKey string) int64 {
	return c.peek(ctx, counterKey)
}

func (c *Counters) peek(ctx context.Context, counterKey string) int64 {
	// Older workspaces stored counters as strings; core.ID reads either.
	raw := Get[core.ID](ctx, c.store, counterKey, "")
	n, ok := raw.Int()
	if !ok || n < 1 {
		return 1
	}
	return n
}

// Set stores n as the next id for counterKey.
func (c *Counters) Set(ctx context.Context, counterKey string, n int64) error {
	return c.store.Serialize(ctx, counterKey, func() error {
		return c.store.Set(ctx, counterKey, n)
	})
}

// Snapshot returns the stored counters. Counters never written are omitted.
func (c *Counters) Snapshot(ctx context.Context) map[string]int64 {
	out := make(map[string]int64, len(CounterKeys))
	for _, k := range CounterKeys {
		if _, ok := c.store.GetRaw(ctx, k); ok {
			out[k] = c.peek(ctx, k)
		}
	}
	return out
}

// Raise moves counterKey forward to at least n, never backwards.
func (c *Counters) Raise(ctx context.Context, counterKey string, n int64) error {
	return c.store.Serialize(ctx, counterKey, func() error {
		if c.peek(ctx, counterKey) >= n {
			return nil
		}
		return c.store.Set(ctx, counterKey, n)
	})
}
