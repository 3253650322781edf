package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/repository"
)

// SampleResult reports what SampleNow did.
type SampleResult struct {
	Sample   core.GrowthSample
	Recorded bool
	Reason   string
}

// GrowthSampler records at most one portfolio value per user and month.
// It is meant to be called whenever the portfolio overview is shown.
type GrowthSampler struct {
	assets *repository.Assets
	growth *repository.Growth
	now    func() time.Time
	loc    *time.Location
	group  singleflight.Group
	logger *log.Logger
}

// NewGrowthSampler derives months in loc (UTC when nil) from now.
func NewGrowthSampler(assets *repository.Assets, growth *repository.Growth, now func() time.Time, loc *time.Location, logger *log.Logger) *GrowthSampler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GrowthSampler{
		assets: assets,
		growth: growth,
		now:    now,
		loc:    loc,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentGrowth),
	}
}

// SampleNow records the user's current portfolio total for this month unless
// the total is not positive or the month already has a sample. Concurrent
// calls for the same user share one execution.
func (s *GrowthSampler) SampleNow(ctx context.Context, userID core.ID) (SampleResult, error) {
	v, err, _ := s.group.Do(string(userID), func() (any, error) {
		return s.sample(ctx, userID)
	})
	if err != nil {
		return SampleResult{}, err
	}
	return v.(SampleResult), nil
}

func (s *GrowthSampler) sample(ctx context.Context, userID core.ID) (SampleResult, error) {
	total := PortfolioTotal(s.assets.ListByUser(ctx, userID))
	if total <= 0 {
		s.logger.DebugContext(ctx, "Skipping growth sample, portfolio not positive",
			log.FieldUserID, userID, log.FieldValue, total)
		return SampleResult{Reason: "portfolio total is not positive"}, nil
	}

	month := core.MonthOf(s.now(), s.loc)
	sample, recorded, err := s.growth.AppendIf(ctx, func(all []core.GrowthSample) (core.GrowthSample, bool) {
		first := true
		for _, g := range all {
			if g.UserID != userID {
				continue
			}
			if g.Month == month {
				return core.GrowthSample{}, false
			}
			first = false
		}
		return core.GrowthSample{
			UserID:         userID,
			Month:          month,
			PortfolioValue: total,
			IsInitialValue: first,
		}, true
	})
	if err != nil {
		return SampleResult{}, err
	}
	if !recorded {
		s.logger.DebugContext(ctx, "Month already sampled", log.FieldUserID, userID, log.FieldMonth, month)
		return SampleResult{Reason: "month " + month + " already sampled"}, nil
	}
	return SampleResult{Sample: sample, Recorded: true}, nil
}

// PortfolioTotal sums signed asset values; debts reduce the total.
func PortfolioTotal(assets []core.Asset) float64 {
	sum := decimal.Zero
	for _, a := range assets {
		sum = sum.Add(decimal.NewFromFloat(a.Value))
	}
	v, _ := sum.Float64()
	return v
}
