package workspace_test

import (
	"context"
	"encoding/json"
	"testing"

	"wealth/internal/core"
	"wealth/internal/workspace"
)

func TestReport(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)

	empty := ws.BuildReport(ctx, "1")
	if empty.Budget != nil || empty.Goals != nil || empty.Portfolio.TotalAssets != 0 {
		t.Fatalf("empty report = %+v", empty)
	}

	seed(t, repos)
	repos.Goals.Save(ctx, "1", "1000", []core.GoalField{
		{ID: "g1", Name: "Emergency Fund", Percentage: 50, TargetAmount: 1000},
		{ID: "g2", Name: "Vacation Fund", Percentage: 10},
	})
	repos.Growth.Append(ctx, core.GrowthSample{UserID: "1", Month: "2025-02", PortfolioValue: 900, IsInitialValue: true})

	r := ws.BuildReport(ctx, "1")
	if r.ExportInfo.Date != "2025-03-14" || r.ExportInfo.Version != workspace.CurrentVersion {
		t.Fatalf("export info = %+v", r.ExportInfo)
	}
	p := r.Portfolio
	if p.TotalValue != 248500 || p.TotalDisplay != "$248,500.00" || p.Holdings != 250000 || p.Debts != -1500 {
		t.Fatalf("portfolio = %+v", p)
	}
	if p.Assets[1].Display != "-$1,500.00" {
		t.Fatalf("debt display = %q", p.Assets[1].Display)
	}
	if r.Budget == nil || r.Budget.Allocation.Needs.Amount != 2000 || r.Budget.Allocation.Needs.Display != "$2,000.00" {
		t.Fatalf("budget = %+v", r.Budget)
	}
	if r.Goals == nil || r.Goals.TotalPercentage != 60 || !r.Goals.Valid {
		t.Fatalf("goals = %+v", r.Goals)
	}
	if pr := r.Goals.Fields[0].Progress; pr == nil || *pr != 0.5 {
		t.Fatalf("progress = %v", pr)
	}
	if r.Goals.Fields[1].Progress != nil {
		t.Fatalf("goal without target should have no progress")
	}
	if len(r.Growth) != 1 || r.Growth[0].PortfolioValue != 900 {
		t.Fatalf("growth = %+v", r.Growth)
	}

	data, err := ws.Report(ctx, "1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	for _, k := range []string{"exportInfo", "portfolio", "budget", "goals", "growth"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("report lacks %s", k)
		}
	}
}
