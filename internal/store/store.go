// Package store turns a raw storage backend into the JSON keyed store the
// repositories share.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/storage"
)

// KeyedStore reads and writes JSON values under string keys.
//
// Reads never fail: a missing key, a backend error or undecodable bytes all
// yield the caller's default, and the failure is logged. Writes log and
// return a STORAGE_FAILURE error so callers can avoid confirming lost data.
type KeyedStore struct {
	backend storage.Backend
	queue   *KeyQueue
	logger  *log.Logger
}

func New(backend storage.Backend, logger *log.Logger) *KeyedStore {
	return &KeyedStore{
		backend: backend,
		queue:   NewKeyQueue(),
		logger:  log.OrDiscard(logger).WithComponent(log.ComponentStore),
	}
}

// Get decodes the value at key, or returns def.
func Get[T any](ctx context.Context, s *KeyedStore, key string, def T) T {
	raw, ok := s.GetRaw(ctx, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decode stored value",
			log.FieldKey, key, log.FieldOperation, log.OpDecode, log.FieldError, err)
		return def
	}
	return v
}

// ErrUnchanged may be returned by an Update callback to skip the write.
var ErrUnchanged = errors.New("store: unchanged")

// Update runs a read-modify-write of key while holding the key's queue slot,
// so concurrent updates of the same key apply one after the other.
func Update[T any](ctx context.Context, s *KeyedStore, key string, def T, fn func(T) (T, error)) (T, error) {
	var out T
	err := s.queue.Do(ctx, key, func() error {
		current := Get(ctx, s, key, def)
		next, err := fn(current)
		if errors.Is(err, ErrUnchanged) {
			out = current
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Set(ctx, key, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	return out, err
}

// Serialize runs fn while holding key's queue slot without reading or
// writing anything itself.
func (s *KeyedStore) Serialize(ctx context.Context, key string, fn func() error) error {
	return s.queue.Do(ctx, key, fn)
}

// GetRaw returns the stored bytes at key.
func (s *KeyedStore) GetRaw(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read key",
			log.FieldKey, key, log.FieldOperation, log.OpRead, log.FieldError, err)
		return nil, false
	}
	return raw, ok
}

// Set encodes value as JSON and stores it under key.
func (s *KeyedStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode value",
			log.FieldKey, key, log.FieldOperation, log.OpEncode, log.FieldError, err)
		return core.Wrap(core.ErrStorageFailure, fmt.Errorf("encode %s: %w", key, err))
	}
	return s.SetRaw(ctx, key, raw)
}

// SetRaw stores raw as-is. raw must already be valid JSON.
func (s *KeyedStore) SetRaw(ctx context.Context, key string, raw []byte) error {
	if err := s.backend.Set(ctx, key, raw); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write key",
			log.FieldKey, key, log.FieldOperation, log.OpWrite, log.FieldError, err)
		return core.Wrap(core.ErrStorageFailure, err)
	}
	return nil
}

func (s *KeyedStore) Remove(ctx context.Context, key string) error {
	return s.RemoveMany(ctx, key)
}

// RemoveMany deletes keys; absent keys are fine.
func (s *KeyedStore) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.backend.Delete(ctx, keys...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete keys",
			log.FieldCount, len(keys), log.FieldOperation, log.OpDelete, log.FieldError, err)
		return core.Wrap(core.ErrStorageFailure, err)
	}
	return nil
}

// Keys lists stored keys starting with prefix. A backend failure is logged
// and reported as an empty list.
func (s *KeyedStore) Keys(ctx context.Context, prefix string) []string {
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list keys",
			log.FieldPrefix, prefix, log.FieldOperation, log.OpRead, log.FieldError, err)
		return nil
	}
	return keys
}

// Clear erases every key.
func (s *KeyedStore) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear store",
			log.FieldOperation, log.OpClear, log.FieldError, err)
		return core.Wrap(core.ErrStorageFailure, err)
	}
	return nil
}
