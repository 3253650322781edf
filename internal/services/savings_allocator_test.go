package services

import (
	"context"
	"errors"
	"testing"

	"wealth/internal/core"
)

func TestSavingsAllocation(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	a := NewSavingsAllocator(r.Goals, nil)

	doc := a.Load(ctx, "1")
	doc = a.SetTotal(doc, "10000")

	var ids []string
	for _, pct := range []float64{50, 30, 10} {
		var (
			f   core.GoalField
			err error
		)
		doc, f, err = a.AddField(doc)
		if err != nil {
			t.Fatalf("add field: %v", err)
		}
		if doc, err = a.SetPercentage(doc, f.ID, pct); err != nil {
			t.Fatalf("set percentage: %v", err)
		}
		ids = append(ids, f.ID)
	}
	if doc.GoalFields[0].Name != "Emergency Fund" || doc.GoalFields[2].Name != "Investment Portfolio" {
		t.Fatalf("default names = %q, %q", doc.GoalFields[0].Name, doc.GoalFields[2].Name)
	}
	for i, want := range []float64{5000, 3000, 1000} {
		if doc.GoalFields[i].Amount != want {
			t.Fatalf("field %d amount = %v, want %v", i, doc.GoalFields[i].Amount, want)
		}
	}
	if a.TotalPercentage(doc) != 90 || !a.IsValid(doc) {
		t.Fatalf("90%% should be valid")
	}

	doc, _ = a.SetPercentage(doc, ids[0], 60)
	doc, _ = a.SetPercentage(doc, ids[2], 20)
	if a.TotalPercentage(doc) != 110 || a.IsValid(doc) {
		t.Fatalf("110%% should be invalid")
	}
	saved, err := a.Save(ctx, doc)
	if err != nil {
		t.Fatalf("invalid split must still be persistable: %v", err)
	}
	if saved.GoalFields[0].Amount != 6000 {
		t.Fatalf("saved amount = %v", saved.GoalFields[0].Amount)
	}

	doc, _, _ = a.AddField(doc)
	doc, _, _ = a.AddField(doc)
	if _, _, err := a.AddField(doc); !errors.Is(err, core.ErrGoalLimitReached) {
		t.Fatalf("expected GOAL_LIMIT_REACHED, got %v", err)
	}

	doc, _ = a.SetTarget(doc, ids[1], 6000)
	if p, ok := a.Progress(doc.GoalFields[1]); !ok || p != 0.5 {
		t.Fatalf("progress = %v, %v", p, ok)
	}
	doc, _ = a.RenameField(doc, ids[1], "Car")
	if doc.GoalFields[1].Name != "Car" {
		t.Fatalf("rename failed")
	}
	doc = a.RemoveField(doc, ids[1])
	if len(doc.GoalFields) != 4 || doc.FieldIndex(ids[1]) != -1 {
		t.Fatalf("remove failed: %d fields", len(doc.GoalFields))
	}
	if _, err := a.SetTarget(doc, "nope", 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	doc = a.SetTotal(doc, "abc")
	for _, f := range doc.GoalFields {
		if f.Amount != 0 {
			t.Fatalf("unparsable total should zero amounts, got %v", f.Amount)
		}
	}

	if err := a.Reset(ctx, "1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if d := a.Load(ctx, "1"); d.ID != "" || len(d.GoalFields) != 0 {
		t.Fatalf("reset left %+v", d)
	}
}
