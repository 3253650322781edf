package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"wealth/internal/core"
	"wealth/internal/log"
)

// GoalsAutosaver persists goal edits after a quiet period. Each Schedule for
// a user restarts that user's timer; only the latest document is written.
type GoalsAutosaver struct {
	allocator *SavingsAllocator
	delay     time.Duration
	logger    *log.Logger

	mu      sync.Mutex
	pending map[core.ID]*pendingSave
	closed  bool

	// held while a document is being written
	saving sync.Mutex
}

type pendingSave struct {
	doc   core.GoalsDocument
	timer *time.Timer
}

func NewGoalsAutosaver(allocator *SavingsAllocator, delay time.Duration, logger *log.Logger) *GoalsAutosaver {
	return &GoalsAutosaver{
		allocator: allocator,
		delay:     delay,
		logger:    log.OrDiscard(logger).WithComponent(log.ComponentSavings),
		pending:   make(map[core.ID]*pendingSave),
	}
}

// Schedule queues doc to be saved once no further edits arrive for delay.
// A zero delay saves synchronously.
func (s *GoalsAutosaver) Schedule(ctx context.Context, doc core.GoalsDocument) error {
	if s.delay <= 0 {
		_, err := s.allocator.Save(ctx, doc)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("goals autosaver closed")
	}

	if p, ok := s.pending[doc.UserID]; ok {
		p.doc = doc
		p.timer.Reset(s.delay)
		return nil
	}
	userID := doc.UserID
	p := &pendingSave{doc: doc}
	p.timer = time.AfterFunc(s.delay, func() {
		if err := s.saveUser(context.WithoutCancel(ctx), userID); err != nil {
			s.logger.Error("Debounced goals save failed", log.FieldUserID, userID, log.FieldError, err)
		}
	})
	s.pending[userID] = p
	return nil
}

// Pending reports how many users have unsaved edits.
func (s *GoalsAutosaver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush saves every pending document now.
func (s *GoalsAutosaver) Flush(ctx context.Context) error {
	s.mu.Lock()
	users := make([]core.ID, 0, len(s.pending))
	for id, p := range s.pending {
		p.timer.Stop()
		users = append(users, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range users {
		if err := s.saveUser(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	// Wait for a timer-triggered save that may already be running.
	s.saving.Lock()
	s.saving.Unlock()
	return errors.Join(errs...)
}

// Close flushes and refuses further edits.
func (s *GoalsAutosaver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *GoalsAutosaver) saveUser(ctx context.Context, userID core.ID) error {
	s.saving.Lock()
	defer s.saving.Unlock()

	s.mu.Lock()
	p, ok := s.pending[userID]
	if ok {
		delete(s.pending, userID)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if _, err := s.allocator.Save(ctx, p.doc); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Goals autosaved", log.FieldUserID, userID)
	return nil
}
