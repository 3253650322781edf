package store

import (
	"context"
	"sync"
)

// KeyQueue serializes work per key. Callers for the same key run one at a
// time in arrival order; different keys never block each other.
type KeyQueue struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewKeyQueue() *KeyQueue {
	return &KeyQueue{slots: make(map[string]*slot)}
}

// Do runs fn once every earlier Do for key has finished. It gives up with
// ctx.Err() if ctx ends while waiting; once fn starts it runs to completion.
func (q *KeyQueue) Do(ctx context.Context, key string, fn func() error) error {
	s := q.acquire(key)
	defer q.release(key, s)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.ch }()

	return fn()
}

func (q *KeyQueue) acquire(key string) *slot {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		q.slots[key] = s
	}
	s.refs++
	return s
}

func (q *KeyQueue) release(key string, s *slot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(q.slots, key)
	}
}

// Len reports how many keys currently have queued or running work.
func (q *KeyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.slots)
}
