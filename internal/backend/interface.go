package backend

import (
	"context"
	"time"

	"wealth/internal/cache"
	"wealth/internal/events"
	"wealth/internal/storage"
	"wealth/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the opened workspace and its cleanup function
type BackendResult struct {
	// Storage is the raw backend, already wrapped by the read cache when
	// one is configured.
	Storage   storage.Backend
	Store     *store.KeyedStore
	Publisher events.Publisher
	// Cache is nil when caching is disabled.
	Cache   *cache.LRUCache[[]byte]
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the storage described by config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisURL       string
	RedisKeyPrefix string

	// Read cache; disabled when CacheSize is 0
	CacheSize int
	CacheTTL  time.Duration

	// Workspace events (optional)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RedisBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
