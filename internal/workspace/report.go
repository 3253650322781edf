package workspace

import (
	"context"
	"encoding/json"

	"wealth/internal/core"
)

// Report is the read-only, human oriented view of one user's data. It is
// not importable.
type Report struct {
	ExportInfo ReportInfo      `json:"exportInfo"`
	Portfolio  ReportPortfolio `json:"portfolio"`
	Budget     *ReportBudget   `json:"budget"`
	Goals      *ReportGoals    `json:"goals"`
	Growth     []ReportGrowth  `json:"growth"`
}

type ReportInfo struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Version string `json:"version"`
}

type ReportPortfolio struct {
	TotalValue   float64       `json:"totalValue"`
	TotalDisplay string        `json:"totalDisplay"`
	TotalAssets  int           `json:"totalAssets"`
	Holdings     float64       `json:"holdings"`
	Debts        float64       `json:"debts"`
	Assets       []ReportAsset `json:"assets"`
}

type ReportAsset struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Display  string  `json:"display"`
}

type ReportBudget struct {
	MonthlyIncome float64          `json:"monthlyIncome"`
	Currency      string           `json:"currency"`
	Allocation    ReportAllocation `json:"allocation"`
}

type ReportAllocation struct {
	Needs   ReportBucket `json:"needs"`
	Wants   ReportBucket `json:"wants"`
	Savings ReportBucket `json:"savings"`
}

type ReportBucket struct {
	Percentage float64      `json:"percentage"`
	Amount     float64      `json:"amount"`
	Used       float64      `json:"used"`
	Remaining  float64      `json:"remaining"`
	Display    string       `json:"display"`
	Items      []ReportItem `json:"items"`
}

type ReportItem struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

type ReportGoals struct {
	TotalAmount     string       `json:"totalAmount"`
	TotalPercentage float64      `json:"totalPercentage"`
	Valid           bool         `json:"valid"`
	Fields          []ReportGoal `json:"fields"`
}

type ReportGoal struct {
	Name         string   `json:"name"`
	Percentage   float64  `json:"percentage"`
	Amount       float64  `json:"amount"`
	TargetAmount float64  `json:"targetAmount"`
	Progress     *float64 `json:"progress,omitempty"`
}

type ReportGrowth struct {
	Month          string  `json:"month"`
	PortfolioValue float64 `json:"portfolioValue"`
	IsInitialValue bool    `json:"isInitialValue"`
}

// BuildReport assembles the report of userID.
func (w *Workspace) BuildReport(ctx context.Context, userID core.ID) Report {
	now := w.now().UTC()
	assets := w.repos.Assets.ListByUser(ctx, userID)
	summary := core.SummarizePortfolio(assets)

	r := Report{
		ExportInfo: ReportInfo{
			Date:    now.Format("2006-01-02"),
			Time:    now.Format("15:04:05"),
			Version: CurrentVersion,
		},
		Portfolio: ReportPortfolio{
			TotalValue:   summary.TotalValue,
			TotalDisplay: core.FormatMoney(summary.TotalValue, portfolioCurrency(assets)),
			TotalAssets:  summary.TotalAssets,
			Holdings:     summary.Holdings,
			Debts:        summary.Debts,
			Assets:       make([]ReportAsset, 0, len(assets)),
		},
		Growth: []ReportGrowth{},
	}
	for _, a := range assets {
		r.Portfolio.Assets = append(r.Portfolio.Assets, ReportAsset{
			Name:     a.Name,
			Type:     a.Type,
			Value:    a.Value,
			Currency: a.Currency,
			Display:  core.FormatMoney(a.Value, a.Currency),
		})
	}

	if b, ok := w.repos.Budgets.Get(ctx, userID); ok {
		r.Budget = &ReportBudget{
			MonthlyIncome: b.MonthlyIncome,
			Currency:      b.Currency,
			Allocation: ReportAllocation{
				Needs:   reportBucket(b.Needs, b.Currency),
				Wants:   reportBucket(b.Wants, b.Currency),
				Savings: reportBucket(b.Savings, b.Currency),
			},
		}
	}

	if g, ok := w.repos.Goals.Get(ctx, userID); ok {
		rg := &ReportGoals{
			TotalAmount:     g.TotalAmount,
			TotalPercentage: g.TotalPercentage(),
			Valid:           g.IsValid(),
			Fields:          make([]ReportGoal, 0, len(g.GoalFields)),
		}
		for _, f := range g.GoalFields {
			goal := ReportGoal{
				Name:         f.Name,
				Percentage:   f.Percentage,
				Amount:       f.Amount,
				TargetAmount: f.TargetAmount,
			}
			if p, ok := f.Progress(); ok {
				goal.Progress = &p
			}
			rg.Fields = append(rg.Fields, goal)
		}
		r.Goals = rg
	}

	for _, s := range w.repos.Growth.Series(ctx, userID) {
		r.Growth = append(r.Growth, ReportGrowth{
			Month:          s.Month,
			PortfolioValue: s.PortfolioValue,
			IsInitialValue: s.IsInitialValue,
		})
	}
	return r
}

// Report renders BuildReport as pretty-printed JSON.
func (w *Workspace) Report(ctx context.Context, userID core.ID) ([]byte, error) {
	out, err := json.MarshalIndent(w.BuildReport(ctx, userID), "", "  ")
	if err != nil {
		return nil, err
	}
	return out, nil
}

func reportBucket(b core.Bucket, currency string) ReportBucket {
	rb := ReportBucket{
		Percentage: b.Percentage,
		Amount:     b.Amount,
		Used:       b.Used(),
		Remaining:  b.Remaining(),
		Display:    core.FormatMoney(b.Amount, currency),
		Items:      make([]ReportItem, 0, len(b.Items)),
	}
	for _, it := range b.Items {
		rb.Items = append(rb.Items, ReportItem{Name: it.Name, Amount: it.Amount, Description: it.Description})
	}
	return rb
}

// portfolioCurrency is the currency shared by every asset, or the default
// when they differ.
func portfolioCurrency(assets []core.Asset) string {
	if len(assets) == 0 {
		return core.DefaultCurrency
	}
	c := assets[0].Currency
	for _, a := range assets[1:] {
		if a.Currency != c {
			return core.DefaultCurrency
		}
	}
	return c
}
