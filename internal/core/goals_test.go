package core

import "testing"

func TestDefaultGoalName(t *testing.T) {
	cases := map[int]string{
		0: "Emergency Fund",
		4: "Retirement Fund",
		5: "Goal 6",
		9: "Goal 10",
	}
	for i, want := range cases {
		if got := DefaultGoalName(i); got != want {
			t.Fatalf("DefaultGoalName(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestParseTotal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"10000", 10000},
		{" 12.5 ", 12.5},
		{"", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		if got := ParseTotal(tc.in); got != tc.want {
			t.Fatalf("ParseTotal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGoalFieldProgress(t *testing.T) {
	cases := []struct {
		f    GoalField
		want float64
		ok   bool
	}{
		{GoalField{Amount: 500, TargetAmount: 1000}, 0.5, true},
		{GoalField{Amount: 5000, TargetAmount: 1000}, 1, true},
		{GoalField{Amount: -5, TargetAmount: 1000}, 0, true},
		{GoalField{Amount: 500}, 0, false},
	}
	for i, tc := range cases {
		got, ok := tc.f.Progress()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("case %d: got %v,%v want %v,%v", i, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGoalsDocumentValidity(t *testing.T) {
	d := GoalsDocument{GoalFields: []GoalField{{Percentage: 50}, {Percentage: 30}, {Percentage: 10}}}
	if d.TotalPercentage() != 90 || !d.IsValid() {
		t.Fatalf("expected 90%% valid, got %v", d.TotalPercentage())
	}
	d.GoalFields[0].Percentage = 70
	if d.IsValid() {
		t.Fatalf("110%% should be invalid")
	}
}
