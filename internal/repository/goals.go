package repository

import (
	"context"
	"fmt"
	"time"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/store"
)

// Goals keeps at most one savings document per user in the goals array.
type Goals struct {
	store    *store.KeyedStore
	counters *store.Counters
	now      func() time.Time
	logger   *log.Logger
}

func NewGoals(s *store.KeyedStore, c *store.Counters, now func() time.Time, logger *log.Logger) *Goals {
	return &Goals{
		store:    s,
		counters: c,
		now:      now,
		logger:   log.OrDiscard(logger).WithComponent(log.ComponentGoals),
	}
}

// Get returns the user's goals document.
func (r *Goals) Get(ctx context.Context, userID core.ID) (core.GoalsDocument, bool) {
	for _, d := range store.Get(ctx, r.store, store.KeyGoals, []core.GoalsDocument{}) {
		if d.UserID == userID {
			return d.Normalized(), true
		}
	}
	return core.GoalsDocument{}, false
}

// Save upserts the user's document. Field amounts are recomputed from the
// total so the stored document is always consistent.
func (r *Goals) Save(ctx context.Context, userID core.ID, totalAmount string, fields []core.GoalField) (core.GoalsDocument, error) {
	if len(fields) > core.MaxGoalFields {
		return core.GoalsDocument{}, core.ErrGoalLimitReached
	}
	total := core.ParseTotal(totalAmount)
	doc := core.GoalsDocument{
		UserID:      userID,
		TotalAmount: totalAmount,
		GoalFields:  make([]core.GoalField, len(fields)),
		UpdatedAt:   r.now().UTC(),
	}
	for i, f := range fields {
		f.Amount = core.GoalAmount(f.Percentage, total)
		doc.GoalFields[i] = f
	}

	_, err := store.Update(ctx, r.store, store.KeyGoals, []core.GoalsDocument{}, func(docs []core.GoalsDocument) ([]core.GoalsDocument, error) {
		for i, d := range docs {
			if d.UserID == userID {
				doc.ID = d.ID
				docs[i] = doc
				return docs, nil
			}
		}
		id, err := r.counters.NextID(ctx, store.KeyGoalCounter)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		return append(docs, doc), nil
	})
	if err != nil {
		return core.GoalsDocument{}, err
	}

	r.logger.InfoContext(ctx, "Goals saved", log.FieldUserID, userID, log.FieldCount, len(doc.GoalFields))
	return doc, nil
}

// Delete removes the user's document if there is one.
func (r *Goals) Delete(ctx context.Context, userID core.ID) error {
	_, err := store.Update(ctx, r.store, store.KeyGoals, []core.GoalsDocument{}, func(docs []core.GoalsDocument) ([]core.GoalsDocument, error) {
		kept := docs[:0]
		for _, d := range docs {
			if d.UserID != userID {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(docs) {
			return nil, store.ErrUnchanged
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("delete goals: %w", err)
	}
	return nil
}
