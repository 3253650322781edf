package core

// PortfolioSummary aggregates a user's assets. Values of different currencies
// are summed as-is.
type PortfolioSummary struct {
	TotalValue  float64 `json:"totalValue"`
	TotalAssets int     `json:"totalAssets"`
	Holdings    float64 `json:"holdings"`
	Debts       float64 `json:"debts"`
}

// SummarizePortfolio sums signed asset values.
func SummarizePortfolio(assets []Asset) PortfolioSummary {
	s := PortfolioSummary{TotalAssets: len(assets)}
	for _, a := range assets {
		s.TotalValue += a.Value
		if a.IsDebt() {
			s.Debts += a.Value
		} else {
			s.Holdings += a.Value
		}
	}
	return s
}

// BucketSummary is the derived state of one budget bucket.
type BucketSummary struct {
	Category   Category `json:"category"`
	Percentage float64  `json:"percentage"`
	Amount     float64  `json:"amount"`
	Used       float64  `json:"used"`
	Remaining  float64  `json:"remaining"`
	OverBudget bool     `json:"overBudget"`
	Items      int      `json:"items"`
}

// BudgetSummary is the derived state of a whole allocation.
type BudgetSummary struct {
	MonthlyIncome  float64         `json:"monthlyIncome"`
	Currency       string          `json:"currency"`
	Buckets        []BucketSummary `json:"buckets"`
	TotalAllocated float64         `json:"totalAllocated"`
	TotalUsed      float64         `json:"totalUsed"`
}
