package services

import (
	"testing"
	"time"

	"wealth/internal/repository"
	"wealth/internal/storage"
	"wealth/internal/store"
)

func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.New(store.New(storage.NewMemory(), nil), repository.Options{
		Hasher: repository.PlainHasher{},
		Now:    func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) },
	})
}
