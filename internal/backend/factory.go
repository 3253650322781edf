package backend

import (
	"context"
	"errors"
	"fmt"

	"wealth/internal/cache"
	"wealth/internal/events"
	"wealth/internal/log"
	"wealth/internal/storage"
	"wealth/internal/store"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: log.OrDiscard(logger).WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		raw storage.Backend
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		raw, err = f.createSQLiteBackend(config)
	case RedisBackend:
		raw, err = f.createRedisBackend(ctx, config)
	case MemoryBackend:
		raw = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Storage: raw}
	var manager *cache.Manager
	if config.CacheSize > 0 && config.Type != MemoryBackend {
		result.Cache = cache.NewLRUCache[[]byte](config.CacheSize, config.CacheTTL)
		result.Storage = storage.NewCached(raw, result.Cache)

		manager = cache.NewManager(f.logger)
		manager.Register(result.Cache)
		manager.StartCleanup(config.CacheTTL)
		f.logger.Info("Enabled read cache", "size", config.CacheSize, "ttl", config.CacheTTL)
	}

	result.Publisher = f.createPublisher(config)
	result.Store = store.New(result.Storage, f.logger)
	result.Cleanup = func() error {
		if manager != nil {
			manager.Stop()
		}
		return errors.Join(result.Publisher.Close(), result.Storage.Close())
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (storage.Backend, error) {
	db, err := storage.NewSQLite(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return db, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (storage.Backend, error) {
	r, err := storage.NewRedis(ctx, config.RedisURL, config.RedisKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis backend: %w", err)
	}
	f.logger.Info("Initialized Redis backend", log.FieldPrefix, config.RedisKeyPrefix)
	return r, nil
}

func (f *DefaultFactory) createMemoryBackend() storage.Backend {
	f.logger.Info("Initialized memory backend")
	return storage.NewMemory()
}

// createPublisher always logs events and also sends them to AMQP when
// configured. A broker that cannot be reached is not fatal.
func (f *DefaultFactory) createPublisher(config Config) events.Publisher {
	logPub := events.NewLogPublisher(f.logger)
	if config.AMQPURL == "" {
		return logPub
	}
	amqpPub, err := events.NewAMQPPublisher(config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey, f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP publisher, continuing without it", log.FieldError, err)
		return logPub
	}
	f.logger.Info("Initialized AMQP publisher",
		"exchange", config.AMQPExchange,
		"routing_key", config.AMQPRoutingKey)
	return events.Multi{logPub, amqpPub}
}
