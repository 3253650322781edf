package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category names a budget bucket.
type Category string

const (
	Needs   Category = "needs"
	Wants   Category = "wants"
	Savings Category = "savings"
)

// Categories lists the buckets in storage order.
var Categories = []Category{Needs, Wants, Savings}

// PercentageTolerance is the accepted distance of the bucket sum from 100.
var PercentageTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

func (c Category) Valid() bool {
	switch c {
	case Needs, Wants, Savings:
		return true
	}
	return false
}

// ParseCategory validates a user-supplied category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", WithMessage(ErrInvalidInput, fmt.Sprintf("unknown budget category %q", s))
	}
	return c, nil
}

type (
	BudgetItem struct {
		ID          ID       `json:"_id"`
		Name        string   `json:"name"`
		Amount      float64  `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description,omitempty"`
	}

	// BudgetItemPatch is a partial update. A Category different from the
	// item's current bucket moves the item.
	BudgetItemPatch struct {
		Name        *string   `json:"name,omitempty"`
		Amount      *float64  `json:"amount,omitempty"`
		Category    *Category `json:"category,omitempty"`
		Description *string   `json:"description,omitempty"`
	}

	Bucket struct {
		Amount     float64      `json:"amount"`
		Percentage float64      `json:"percentage"`
		Items      []BudgetItem `json:"items"`
		Spent      float64      `json:"spent"`
	}

	// Percentages is the needs/wants/savings split requested by the user.
	Percentages struct {
		Needs   float64
		Wants   float64
		Savings float64
	}

	// BudgetAllocation is the aggregate root of a user's budget. Mutating
	// methods return a new value and leave the receiver untouched.
	BudgetAllocation struct {
		ID            ID        `json:"_id"`
		UserID        ID        `json:"userId"`
		MonthlyIncome float64   `json:"monthlyIncome"`
		Needs         Bucket    `json:"needs"`
		Wants         Bucket    `json:"wants"`
		Savings       Bucket    `json:"savings"`
		Currency      string    `json:"currency"`
		CreatedAt     time.Time `json:"createdAt"`
		UpdatedAt     time.Time `json:"updatedAt"`
	}
)

func (p Percentages) Of(c Category) float64 {
	switch c {
	case Needs:
		return p.Needs
	case Wants:
		return p.Wants
	default:
		return p.Savings
	}
}

// Sum adds the three percentages without binary rounding noise.
func (p Percentages) Sum() decimal.Decimal {
	return decimal.NewFromFloat(p.Needs).
		Add(decimal.NewFromFloat(p.Wants)).
		Add(decimal.NewFromFloat(p.Savings))
}

// Check enforces that the split adds up to 100 within PercentageTolerance.
func (p Percentages) Check() error {
	sum := p.Sum()
	if sum.Sub(hundred).Abs().GreaterThan(PercentageTolerance) {
		return WithMessage(ErrBudgetPercentageSum,
			fmt.Sprintf("percentages must add up to 100%%, got %s%%", sum.String()))
	}
	return nil
}

// ShareOf returns income × pct / 100.
func ShareOf(income, pct float64) float64 {
	v, _ := decimal.NewFromFloat(income).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Float64()
	return v
}

// Used is the sum of the bucket's item amounts.
func (b Bucket) Used() float64 {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(decimal.NewFromFloat(it.Amount))
	}
	v, _ := total.Float64()
	return v
}

// Remaining is the allocated amount minus Used; negative when over budget.
func (b Bucket) Remaining() float64 {
	v, _ := decimal.NewFromFloat(b.Amount).Sub(decimal.NewFromFloat(b.Used())).Float64()
	return v
}

// IncomeShareOfSpent returns spent / income when both are present.
func (b Bucket) IncomeShareOfSpent(income float64) (float64, bool) {
	if b.Spent == 0 || income == 0 {
		return 0, false
	}
	return b.Spent / income, true
}

func (b Bucket) clone() Bucket {
	items := make([]BudgetItem, len(b.Items))
	copy(items, b.Items)
	b.Items = items
	return b
}

// Bucket returns the bucket for c.
func (a BudgetAllocation) Bucket(c Category) Bucket {
	switch c {
	case Needs:
		return a.Needs
	case Wants:
		return a.Wants
	default:
		return a.Savings
	}
}

func (a BudgetAllocation) withBucket(c Category, b Bucket) BudgetAllocation {
	switch c {
	case Needs:
		a.Needs = b
	case Wants:
		a.Wants = b
	default:
		a.Savings = b
	}
	return a
}

// Clone deep-copies the item lists.
func (a BudgetAllocation) Clone() BudgetAllocation {
	a.Needs = a.Needs.clone()
	a.Wants = a.Wants.clone()
	a.Savings = a.Savings.clone()
	return a
}

// Normalized fills fields missing from legacy records: nil item lists become
// empty lists and items lacking a category take their bucket's.
func (a BudgetAllocation) Normalized() BudgetAllocation {
	a = a.Clone()
	for _, c := range Categories {
		b := a.Bucket(c)
		for i := range b.Items {
			if b.Items[i].Category == "" {
				b.Items[i].Category = c
			}
		}
		a = a.withBucket(c, b)
	}
	return a
}

// Percentages returns the current split.
func (a BudgetAllocation) Percentages() Percentages {
	return Percentages{Needs: a.Needs.Percentage, Wants: a.Wants.Percentage, Savings: a.Savings.Percentage}
}

// Reallocate applies a new income and split, recomputing every bucket amount
// and keeping the existing items and spent values.
func (a BudgetAllocation) Reallocate(income float64, pct Percentages, currency string) (BudgetAllocation, error) {
	if err := pct.Check(); err != nil {
		return a, err
	}
	a = a.Clone()
	a.MonthlyIncome = income
	a.Currency = currency
	for _, c := range Categories {
		b := a.Bucket(c)
		b.Percentage = pct.Of(c)
		b.Amount = ShareOf(income, b.Percentage)
		a = a.withBucket(c, b)
	}
	return a, nil
}

// FindItem locates an item across the three buckets.
func (a BudgetAllocation) FindItem(id ID) (BudgetItem, Category, bool) {
	for _, c := range Categories {
		for _, it := range a.Bucket(c).Items {
			if it.ID == id {
				return it, c, true
			}
		}
	}
	return BudgetItem{}, "", false
}

// WithItem appends item to the bucket named by its category.
func (a BudgetAllocation) WithItem(item BudgetItem) (BudgetAllocation, error) {
	if !item.Category.Valid() {
		return a, WithMessage(ErrInvalidInput, fmt.Sprintf("unknown budget category %q", item.Category))
	}
	a = a.Clone()
	b := a.Bucket(item.Category)
	b.Items = append(b.Items, item)
	return a.withBucket(item.Category, b), nil
}

// WithoutItem removes the item with id from whichever bucket holds it.
// Removing an unknown id returns an unchanged copy.
func (a BudgetAllocation) WithoutItem(id ID) BudgetAllocation {
	a = a.Clone()
	for _, c := range Categories {
		b := a.Bucket(c)
		kept := b.Items[:0]
		for _, it := range b.Items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		b.Items = kept
		a = a.withBucket(c, b)
	}
	return a
}

// UpdateItem merges patch into the item with id. When the patch names a
// different category the item moves to the end of that bucket.
func (a BudgetAllocation) UpdateItem(id ID, patch BudgetItemPatch) (BudgetAllocation, BudgetItem, error) {
	item, from, ok := a.FindItem(id)
	if !ok {
		return a, BudgetItem{}, WithMessage(ErrNotFound, "budget item not found")
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Amount != nil {
		item.Amount = *patch.Amount
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	to := from
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return a, BudgetItem{}, WithMessage(ErrInvalidInput, fmt.Sprintf("unknown budget category %q", *patch.Category))
		}
		to = *patch.Category
	}
	item.Category = to

	a = a.Clone()
	if to == from {
		b := a.Bucket(from)
		for i := range b.Items {
			if b.Items[i].ID == id {
				b.Items[i] = item
			}
		}
		return a.withBucket(from, b), item, nil
	}
	a = a.WithoutItem(id)
	b := a.Bucket(to)
	b.Items = append(b.Items, item)
	return a.withBucket(to, b), item, nil
}

// Validate checks the percentage-sum and amount invariants.
func (a BudgetAllocation) Validate() error {
	if err := a.Percentages().Check(); err != nil {
		return err
	}
	for _, c := range Categories {
		b := a.Bucket(c)
		want := decimal.NewFromFloat(ShareOf(a.MonthlyIncome, b.Percentage))
		if want.Sub(decimal.NewFromFloat(b.Amount)).Abs().GreaterThan(decimal.RequireFromString("0.000001")) {
			return WithMessage(ErrInvalidInput, fmt.Sprintf("%s amount %v does not match %v%% of %v", c, b.Amount, b.Percentage, a.MonthlyIncome))
		}
		for _, it := range b.Items {
			if it.Category != c {
				return WithMessage(ErrInvalidInput, fmt.Sprintf("item %s has category %s but is stored in %s", it.ID, it.Category, c))
			}
		}
	}
	return nil
}

// Summarize derives used/remaining amounts for every bucket.
func (a BudgetAllocation) Summarize() BudgetSummary {
	s := BudgetSummary{MonthlyIncome: a.MonthlyIncome, Currency: a.Currency}
	allocated, used := decimal.Zero, decimal.Zero
	for _, c := range Categories {
		b := a.Bucket(c)
		bs := BucketSummary{
			Category:   c,
			Percentage: b.Percentage,
			Amount:     b.Amount,
			Used:       b.Used(),
			Remaining:  b.Remaining(),
			Items:      len(b.Items),
		}
		bs.OverBudget = bs.Remaining < 0
		s.Buckets = append(s.Buckets, bs)
		allocated = allocated.Add(decimal.NewFromFloat(b.Amount))
		used = used.Add(decimal.NewFromFloat(bs.Used))
	}
	s.TotalAllocated, _ = allocated.Float64()
	s.TotalUsed, _ = used.Float64()
	return s
}
