package services

import (
	"context"
	"errors"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/repository"
	"wealth/internal/store"
)

var (
	errNoBudget     = core.WithMessage(core.ErrNotFound, "budget allocation not found")
	errNoBudgetItem = core.WithMessage(core.ErrNotFound, "budget item not found")
)

// BudgetEngine applies changes to a user's allocation. Every operation is a
// single serialized write of the whole allocation.
type BudgetEngine struct {
	budgets *repository.Budgets
	logger  *log.Logger
}

func NewBudgetEngine(budgets *repository.Budgets, logger *log.Logger) *BudgetEngine {
	return &BudgetEngine{
		budgets: budgets,
		logger:  log.OrDiscard(logger).WithComponent(log.ComponentBudget),
	}
}

// Compose sets income, currency and the needs/wants/savings split. Existing
// items and spent amounts are carried over.
func (e *BudgetEngine) Compose(ctx context.Context, userID core.ID, in core.BudgetInput) (core.BudgetAllocation, error) {
	if err := core.Validate(in); err != nil {
		return core.BudgetAllocation{}, err
	}
	pct := core.Percentages{Needs: in.Needs, Wants: in.Wants, Savings: in.Savings}
	if err := pct.Check(); err != nil {
		return core.BudgetAllocation{}, err
	}

	b, err := e.budgets.Modify(ctx, userID, func(current core.BudgetAllocation, _ bool) (core.BudgetAllocation, error) {
		return current.Reallocate(in.MonthlyIncome, pct, in.Currency)
	})
	if err != nil {
		return core.BudgetAllocation{}, err
	}
	e.logger.InfoContext(ctx, "Budget composed",
		log.FieldUserID, userID, "income", in.MonthlyIncome, "currency", in.Currency)
	return b, nil
}

func (e *BudgetEngine) Get(ctx context.Context, userID core.ID) (core.BudgetAllocation, error) {
	b, ok := e.budgets.Get(ctx, userID)
	if !ok {
		return core.BudgetAllocation{}, errNoBudget
	}
	return b, nil
}

func (e *BudgetEngine) Delete(ctx context.Context, userID core.ID) error {
	return e.budgets.Delete(ctx, userID)
}

// AddItem appends a line item to the bucket named by in.Category.
func (e *BudgetEngine) AddItem(ctx context.Context, userID core.ID, in core.BudgetItemInput) (core.BudgetItem, error) {
	if err := core.Validate(in); err != nil {
		return core.BudgetItem{}, err
	}
	item := core.BudgetItem{
		ID:          core.NewUUID(),
		Name:        in.Name,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
	}
	_, err := e.budgets.Modify(ctx, userID, func(current core.BudgetAllocation, exists bool) (core.BudgetAllocation, error) {
		if !exists {
			return current, errNoBudget
		}
		return current.WithItem(item)
	})
	if err != nil {
		return core.BudgetItem{}, err
	}
	e.logger.InfoContext(ctx, "Budget item added",
		log.FieldUserID, userID, log.FieldItemID, item.ID, log.FieldCategory, item.Category)
	return item, nil
}

// UpdateItem merges patch into the item. A new category moves it.
func (e *BudgetEngine) UpdateItem(ctx context.Context, userID, itemID core.ID, patch core.BudgetItemPatch) (core.BudgetItem, error) {
	var updated core.BudgetItem
	_, err := e.budgets.Modify(ctx, userID, func(current core.BudgetAllocation, exists bool) (core.BudgetAllocation, error) {
		if !exists {
			return current, errNoBudget
		}
		next, item, err := current.UpdateItem(itemID, patch)
		if errors.Is(err, core.ErrNotFound) {
			return current, errNoBudgetItem
		}
		if err != nil {
			return current, err
		}
		if err := core.Validate(core.BudgetItemInput{Category: item.Category, Name: item.Name, Amount: item.Amount, Description: item.Description}); err != nil {
			return current, err
		}
		updated = item
		return next, nil
	})
	if err != nil {
		return core.BudgetItem{}, err
	}
	e.logger.InfoContext(ctx, "Budget item updated",
		log.FieldUserID, userID, log.FieldItemID, itemID, log.FieldCategory, updated.Category)
	return updated, nil
}

// DeleteItem removes the item wherever it is. Unknown items are a no-op.
func (e *BudgetEngine) DeleteItem(ctx context.Context, userID, itemID core.ID) error {
	_, err := e.budgets.Modify(ctx, userID, func(current core.BudgetAllocation, exists bool) (core.BudgetAllocation, error) {
		if !exists {
			return current, errNoBudget
		}
		if _, _, found := current.FindItem(itemID); !found {
			return current, store.ErrUnchanged
		}
		return current.WithoutItem(itemID), nil
	})
	if err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "Budget item deleted", log.FieldUserID, userID, log.FieldItemID, itemID)
	return nil
}

// Summary derives used and remaining amounts per bucket.
func (e *BudgetEngine) Summary(b core.BudgetAllocation) core.BudgetSummary {
	return b.Summarize()
}

// BucketUsed is the sum of the bucket's item amounts.
func BucketUsed(b core.Bucket) float64 { return b.Used() }

// BucketRemaining is the bucket amount minus what its items use.
func BucketRemaining(b core.Bucket) float64 { return b.Remaining() }

// IncomeShareOfSpent is spent / income when both are set.
func IncomeShareOfSpent(b core.Bucket, income float64) (float64, bool) {
	return b.IncomeShareOfSpent(income)
}
