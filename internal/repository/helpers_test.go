package repository

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"wealth/internal/storage"
	"wealth/internal/store"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newRepos(t *testing.T) (*Repositories, *storage.Memory, *fixedClock) {
	t.Helper()
	mem := storage.NewMemory()
	clock := &fixedClock{t: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)}
	r := New(store.New(mem, nil), Options{
		Hasher: NewBcryptHasher(bcrypt.MinCost),
		Now:    clock.Now,
	})
	return r, mem, clock
}

func raw(t *testing.T, mem *storage.Memory, key string) string {
	t.Helper()
	v, _, err := mem.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("raw get %s: %v", key, err)
	}
	return string(v)
}
