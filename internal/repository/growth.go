package repository

import (
	"context"
	"sort"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/store"
)

// Growth is the append-only log of monthly portfolio values. It does not
// dedupe by month; GrowthSampler does.
type Growth struct {
	store    *store.KeyedStore
	counters *store.Counters
	logger   *log.Logger
}

func NewGrowth(s *store.KeyedStore, c *store.Counters, logger *log.Logger) *Growth {
	return &Growth{
		store:    s,
		counters: c,
		logger:   log.OrDiscard(logger).WithComponent(log.ComponentGrowth),
	}
}

// ListByUser returns the user's samples in recording order.
func (r *Growth) ListByUser(ctx context.Context, userID core.ID) []core.GrowthSample {
	out := []core.GrowthSample{}
	for _, g := range store.Get(ctx, r.store, store.KeyGrowth, []core.GrowthSample{}) {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out
}

// Series returns the user's samples ordered by month for charting.
func (r *Growth) Series(ctx context.Context, userID core.ID) []core.GrowthSample {
	out := r.ListByUser(ctx, userID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Append records a sample and returns it with its id.
func (r *Growth) Append(ctx context.Context, sample core.GrowthSample) (core.GrowthSample, error) {
	_, err := store.Update(ctx, r.store, store.KeyGrowth, []core.GrowthSample{}, func(all []core.GrowthSample) ([]core.GrowthSample, error) {
		id, err := r.counters.NextID(ctx, store.KeyGrowthCounter)
		if err != nil {
			return nil, err
		}
		sample.ID = id
		return append(all, sample), nil
	})
	if err != nil {
		return core.GrowthSample{}, err
	}
	r.logger.InfoContext(ctx, "Growth sample recorded",
		log.FieldUserID, sample.UserID, log.FieldMonth, sample.Month, log.FieldValue, sample.PortfolioValue)
	return sample, nil
}

// AppendIf appends the sample built by build while holding the growth key,
// so the decision and the write see the same state. build returns false to
// skip the write.
func (r *Growth) AppendIf(ctx context.Context, build func(existing []core.GrowthSample) (core.GrowthSample, bool)) (core.GrowthSample, bool, error) {
	var (
		sample  core.GrowthSample
		written bool
	)
	_, err := store.Update(ctx, r.store, store.KeyGrowth, []core.GrowthSample{}, func(all []core.GrowthSample) ([]core.GrowthSample, error) {
		s, ok := build(all)
		if !ok {
			return nil, store.ErrUnchanged
		}
		id, err := r.counters.NextID(ctx, store.KeyGrowthCounter)
		if err != nil {
			return nil, err
		}
		s.ID = id
		sample, written = s, true
		return append(all, s), nil
	})
	if err != nil {
		return core.GrowthSample{}, false, err
	}
	if written {
		r.logger.InfoContext(ctx, "Growth sample recorded",
			log.FieldUserID, sample.UserID, log.FieldMonth, sample.Month, log.FieldValue, sample.PortfolioValue)
	}
	return sample, written, nil
}
