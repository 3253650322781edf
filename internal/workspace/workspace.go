// Package workspace moves the whole keyed store in and out of the versioned
// export document, and takes, restores and clears snapshots of it.
package workspace

import (
	"context"
	"sync"
	"time"

	"wealth/internal/events"
	"wealth/internal/log"
	"wealth/internal/repository"
	"wealth/internal/store"
)

// Options tune a Workspace.
type Options struct {
	Publisher events.Publisher
	Now       func() time.Time
	Logger    *log.Logger
}

// Workspace runs the whole-store operations. They hold one lock between them
// so an import never interleaves with a clear or another import.
type Workspace struct {
	repos     *repository.Repositories
	store     *store.KeyedStore
	counters  *store.Counters
	publisher events.Publisher
	now       func() time.Time
	logger    *log.Logger

	mu sync.Mutex
}

func New(repos *repository.Repositories, opts Options) *Workspace {
	logger := log.OrDiscard(opts.Logger).WithComponent(log.ComponentWorkspace)
	if opts.Publisher == nil {
		opts.Publisher = events.NewLogPublisher(logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Workspace{
		repos:     repos,
		store:     repos.Store,
		counters:  repos.Counters,
		publisher: opts.Publisher,
		now:       opts.Now,
		logger:    logger,
	}
}

// publish announces a completed operation. Delivery failures are logged only.
func (w *Workspace) publish(ctx context.Context, e events.Event) {
	e.Timestamp = w.now().UTC()
	if err := w.publisher.Publish(ctx, e); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish workspace event",
			"type", e.Type, log.FieldError, err)
	}
}
