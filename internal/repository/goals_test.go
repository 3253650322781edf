package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"wealth/internal/core"
)

func TestGoalsSaveUpsert(t *testing.T) {
	ctx := context.Background()
	r, _, clock := newRepos(t)

	if _, ok := r.Goals.Get(ctx, "1"); ok {
		t.Fatalf("expected no document")
	}

	fields := []core.GoalField{{ID: "a", Name: "Emergency Fund", Percentage: 50}, {ID: "b", Name: "Vacation Fund", Percentage: 30}}
	doc, err := r.Goals.Save(ctx, "1", "10000", fields)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.ID != "1" || doc.GoalFields[0].Amount != 5000 || doc.GoalFields[1].Amount != 3000 {
		t.Fatalf("doc = %+v", doc)
	}

	clock.t = clock.t.Add(time.Hour)
	doc2, err := r.Goals.Save(ctx, "1", "2000", fields[:1])
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if doc2.ID != doc.ID {
		t.Fatalf("id changed on upsert: %s -> %s", doc.ID, doc2.ID)
	}
	if !doc2.UpdatedAt.Equal(clock.t) {
		t.Fatalf("updatedAt = %v", doc2.UpdatedAt)
	}

	got, ok := r.Goals.Get(ctx, "1")
	if !ok || got.TotalAmount != "2000" || len(got.GoalFields) != 1 || got.GoalFields[0].Amount != 1000 {
		t.Fatalf("stored = %+v", got)
	}

	if _, err := r.Goals.Save(ctx, "2", "1", nil); err != nil {
		t.Fatalf("save second user: %v", err)
	}
	if d, _ := r.Goals.Get(ctx, "2"); d.ID != "2" || d.GoalFields == nil {
		t.Fatalf("second doc = %+v", d)
	}

	if err := r.Goals.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := r.Goals.Get(ctx, "1"); ok {
		t.Fatalf("document survived delete")
	}
	if _, ok := r.Goals.Get(ctx, "2"); !ok {
		t.Fatalf("delete removed another user's document")
	}
	if err := r.Goals.Delete(ctx, "1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGoalsLimit(t *testing.T) {
	r, _, _ := newRepos(t)
	fields := make([]core.GoalField, core.MaxGoalFields+1)
	if _, err := r.Goals.Save(context.Background(), "1", "1", fields); !errors.Is(err, core.ErrGoalLimitReached) {
		t.Fatalf("expected GOAL_LIMIT_REACHED, got %v", err)
	}
}
