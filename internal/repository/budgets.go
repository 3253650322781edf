package repository

import (
	"context"
	"strings"
	"time"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/store"
)

// Budgets stores one allocation per user under budget_<userId>.
type Budgets struct {
	store  *store.KeyedStore
	now    func() time.Time
	logger *log.Logger
}

func NewBudgets(s *store.KeyedStore, now func() time.Time, logger *log.Logger) *Budgets {
	return &Budgets{
		store:  s,
		now:    now,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentBudget),
	}
}

// Get returns the user's allocation normalized for legacy records.
func (r *Budgets) Get(ctx context.Context, userID core.ID) (core.BudgetAllocation, bool) {
	b := store.Get[*core.BudgetAllocation](ctx, r.store, store.BudgetKey(userID), nil)
	if b == nil {
		return core.BudgetAllocation{}, false
	}
	return normalizeBudget(*b, userID), true
}

// Save writes b as a brand new allocation with a fresh id and creation time.
func (r *Budgets) Save(ctx context.Context, userID core.ID, b core.BudgetAllocation) (core.BudgetAllocation, error) {
	return r.Modify(ctx, userID, func(core.BudgetAllocation, bool) (core.BudgetAllocation, error) {
		b.ID = ""
		b.CreatedAt = time.Time{}
		return b, nil
	})
}

// Update replaces the stored allocation, keeping its id and creation time.
func (r *Budgets) Update(ctx context.Context, userID core.ID, b core.BudgetAllocation) (core.BudgetAllocation, error) {
	return r.Modify(ctx, userID, func(current core.BudgetAllocation, exists bool) (core.BudgetAllocation, error) {
		if exists {
			b.ID = current.ID
			b.CreatedAt = current.CreatedAt
		}
		return b, nil
	})
}

// Modify is a serialized read-modify-write of the user's allocation. fn sees
// the normalized current value and whether one exists; its result is
// validated, stamped and written once.
func (r *Budgets) Modify(ctx context.Context, userID core.ID, fn func(current core.BudgetAllocation, exists bool) (core.BudgetAllocation, error)) (core.BudgetAllocation, error) {
	key := store.BudgetKey(userID)
	out, err := store.Update[*core.BudgetAllocation](ctx, r.store, key, nil, func(cur *core.BudgetAllocation) (*core.BudgetAllocation, error) {
		var current core.BudgetAllocation
		if cur != nil {
			current = normalizeBudget(*cur, userID)
		}
		next, err := fn(current, cur != nil)
		if err != nil {
			return nil, err
		}
		// Bucket amounts are always derived from income on write.
		next, err = next.Normalized().Reallocate(next.MonthlyIncome, next.Percentages(), next.Currency)
		if err != nil {
			return nil, err
		}
		if err := next.Validate(); err != nil {
			return nil, err
		}
		now := r.now().UTC()
		if next.ID == "" {
			next.ID = core.NewUUID()
		}
		if next.CreatedAt.IsZero() {
			next.CreatedAt = now
		}
		next.UpdatedAt = now
		next.UserID = userID
		return &next, nil
	})
	if err != nil {
		return core.BudgetAllocation{}, err
	}
	r.logger.InfoContext(ctx, "Budget saved", log.FieldUserID, userID)
	return *out, nil
}

// Delete removes the user's allocation.
func (r *Budgets) Delete(ctx context.Context, userID core.ID) error {
	return r.store.Serialize(ctx, store.BudgetKey(userID), func() error {
		return r.store.Remove(ctx, store.BudgetKey(userID))
	})
}

// UserIDs lists every user with a stored allocation.
func (r *Budgets) UserIDs(ctx context.Context) []core.ID {
	keys := r.store.Keys(ctx, store.BudgetPrefix)
	ids := make([]core.ID, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, core.ID(strings.TrimPrefix(k, store.BudgetPrefix)))
	}
	return ids
}

func normalizeBudget(b core.BudgetAllocation, userID core.ID) core.BudgetAllocation {
	b = b.Normalized()
	if b.UserID == "" {
		b.UserID = userID
	}
	return b
}
