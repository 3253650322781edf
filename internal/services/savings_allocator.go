package services

import (
	"context"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/repository"
)

// SavingsAllocator edits a goals document. Edits are pure: each returns a new
// document with amounts kept at percentage × total. Load, Save and Reset go
// through the goals repository.
type SavingsAllocator struct {
	goals  *repository.Goals
	logger *log.Logger
}

func NewSavingsAllocator(goals *repository.Goals, logger *log.Logger) *SavingsAllocator {
	return &SavingsAllocator{
		goals:  goals,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentSavings),
	}
}

// Load returns the stored document or an empty one for the user.
func (a *SavingsAllocator) Load(ctx context.Context, userID core.ID) core.GoalsDocument {
	if d, ok := a.goals.Get(ctx, userID); ok {
		return d
	}
	return core.GoalsDocument{UserID: userID, GoalFields: []core.GoalField{}}
}

func (a *SavingsAllocator) Save(ctx context.Context, doc core.GoalsDocument) (core.GoalsDocument, error) {
	return a.goals.Save(ctx, doc.UserID, doc.TotalAmount, doc.GoalFields)
}

// Reset deletes the user's goals.
func (a *SavingsAllocator) Reset(ctx context.Context, userID core.ID) error {
	if err := a.goals.Delete(ctx, userID); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "Goals reset", log.FieldUserID, userID)
	return nil
}

// SetTotal replaces the total and recomputes every amount.
func (a *SavingsAllocator) SetTotal(doc core.GoalsDocument, total string) core.GoalsDocument {
	doc = doc.Clone()
	doc.TotalAmount = total
	t := core.ParseTotal(total)
	for i := range doc.GoalFields {
		doc.GoalFields[i].Amount = core.GoalAmount(doc.GoalFields[i].Percentage, t)
	}
	return doc
}

// SetPercentage updates one field and its amount.
func (a *SavingsAllocator) SetPercentage(doc core.GoalsDocument, fieldID string, pct float64) (core.GoalsDocument, error) {
	return a.editField(doc, fieldID, func(f *core.GoalField) {
		f.Percentage = pct
		f.Amount = core.GoalAmount(pct, core.ParseTotal(doc.TotalAmount))
	})
}

// SetTarget updates only the target amount.
func (a *SavingsAllocator) SetTarget(doc core.GoalsDocument, fieldID string, target float64) (core.GoalsDocument, error) {
	return a.editField(doc, fieldID, func(f *core.GoalField) { f.TargetAmount = target })
}

func (a *SavingsAllocator) RenameField(doc core.GoalsDocument, fieldID, name string) (core.GoalsDocument, error) {
	return a.editField(doc, fieldID, func(f *core.GoalField) { f.Name = name })
}

// AddField appends an empty goal named after its position.
func (a *SavingsAllocator) AddField(doc core.GoalsDocument) (core.GoalsDocument, core.GoalField, error) {
	if len(doc.GoalFields) >= core.MaxGoalFields {
		return doc, core.GoalField{}, core.ErrGoalLimitReached
	}
	f := core.GoalField{
		ID:   string(core.NewUUID()),
		Name: core.DefaultGoalName(len(doc.GoalFields)),
	}
	doc = doc.Clone()
	doc.GoalFields = append(doc.GoalFields, f)
	return doc, f, nil
}

func (a *SavingsAllocator) RemoveField(doc core.GoalsDocument, fieldID string) core.GoalsDocument {
	doc = doc.Clone()
	kept := doc.GoalFields[:0]
	for _, f := range doc.GoalFields {
		if f.ID != fieldID {
			kept = append(kept, f)
		}
	}
	doc.GoalFields = kept
	return doc
}

// Progress is amount/target clamped to [0,1]; false when no target is set.
func (a *SavingsAllocator) Progress(f core.GoalField) (float64, bool) {
	return f.Progress()
}

func (a *SavingsAllocator) TotalPercentage(doc core.GoalsDocument) float64 {
	return doc.TotalPercentage()
}

// IsValid reports whether the percentages stay within 100.
func (a *SavingsAllocator) IsValid(doc core.GoalsDocument) bool {
	return doc.IsValid()
}

func (a *SavingsAllocator) editField(doc core.GoalsDocument, fieldID string, edit func(*core.GoalField)) (core.GoalsDocument, error) {
	i := doc.FieldIndex(fieldID)
	if i < 0 {
		return doc, core.WithMessage(core.ErrNotFound, fmt.Sprintf("goal %s not found", fieldID))
	}
	doc = doc.Clone()
	edit(&doc.GoalFields[i])
	return doc, nil
}
