package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxGoalFields caps the number of savings goals per user.
const MaxGoalFields = 5

// DefaultGoalNames are handed to new goal fields by position.
var DefaultGoalNames = []string{
	"Emergency Fund",
	"Vacation Fund",
	"Investment Portfolio",
	"Home Down Payment",
	"Retirement Fund",
}

// DefaultGoalName returns the name for the field at position i (0-based).
func DefaultGoalName(i int) string {
	if i >= 0 && i < len(DefaultGoalNames) {
		return DefaultGoalNames[i]
	}
	return fmt.Sprintf("Goal %d", i+1)
}

// ParseTotal reads the free-text total of a goals document. Anything that
// does not parse as a number counts as zero.
func ParseTotal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// GoalAmount returns pct% of total.
func GoalAmount(pct, total float64) float64 {
	return ShareOf(total, pct)
}

// Progress returns amount/target clamped to [0,1], and false when no target is set.
func (f GoalField) Progress() (float64, bool) {
	if f.TargetAmount <= 0 {
		return 0, false
	}
	p := f.Amount / f.TargetAmount
	switch {
	case p < 0:
		return 0, true
	case p > 1:
		return 1, true
	}
	return p, true
}

// TotalPercentage sums the field percentages.
func (d GoalsDocument) TotalPercentage() float64 {
	sum := decimal.Zero
	for _, f := range d.GoalFields {
		sum = sum.Add(decimal.NewFromFloat(f.Percentage))
	}
	v, _ := sum.Float64()
	return v
}

// IsValid reports whether the percentages fit within 100.
func (d GoalsDocument) IsValid() bool {
	return decimal.NewFromFloat(d.TotalPercentage()).LessThanOrEqual(hundred)
}

// Clone copies the field list.
func (d GoalsDocument) Clone() GoalsDocument {
	fields := make([]GoalField, len(d.GoalFields))
	copy(fields, d.GoalFields)
	d.GoalFields = fields
	return d
}

// FieldIndex returns the position of the field with id, or -1.
func (d GoalsDocument) FieldIndex(id string) int {
	for i, f := range d.GoalFields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Normalized fills a nil field list.
func (d GoalsDocument) Normalized() GoalsDocument {
	if d.GoalFields == nil {
		d.GoalFields = []GoalField{}
	}
	return d
}
