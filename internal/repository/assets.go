package repository

import (
	"context"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/store"
)

type Assets struct {
	store    *store.KeyedStore
	counters *store.Counters
	logger   *log.Logger
}

func NewAssets(s *store.KeyedStore, c *store.Counters, logger *log.Logger) *Assets {
	return &Assets{
		store:    s,
		counters: c,
		logger:   log.OrDiscard(logger).WithComponent(log.ComponentAssets),
	}
}

func (r *Assets) all(ctx context.Context) []core.Asset {
	return store.Get(ctx, r.store, store.KeyAssets, []core.Asset{})
}

// ListByUser returns the user's assets in insertion order with legacy fields
// defaulted. The stored records are left as they are.
func (r *Assets) ListByUser(ctx context.Context, userID core.ID) []core.Asset {
	out := []core.Asset{}
	for _, a := range r.all(ctx) {
		if a.UserID == userID {
			out = append(out, a.Normalized())
		}
	}
	return out
}

func (r *Assets) Get(ctx context.Context, assetID core.ID) (core.Asset, error) {
	for _, a := range r.all(ctx) {
		if a.ID == assetID {
			return a.Normalized(), nil
		}
	}
	return core.Asset{}, assetNotFound(assetID)
}

// Add stores a new asset for userID. A negative value records a debt.
func (r *Assets) Add(ctx context.Context, userID core.ID, in core.AssetInput) (core.Asset, error) {
	if err := core.Validate(in); err != nil {
		return core.Asset{}, err
	}
	if in.Currency == "" {
		in.Currency = core.DefaultCurrency
	}

	var created core.Asset
	_, err := store.Update(ctx, r.store, store.KeyAssets, []core.Asset{}, func(assets []core.Asset) ([]core.Asset, error) {
		id, err := r.counters.NextID(ctx, store.KeyAssetCounter)
		if err != nil {
			return nil, err
		}
		created = core.Asset{
			ID:       id,
			Name:     in.Name,
			Type:     in.Type,
			Value:    in.Value,
			Currency: in.Currency,
			UserID:   userID,
		}
		return append(assets, created), nil
	})
	if err != nil {
		return core.Asset{}, err
	}

	r.logger.InfoContext(ctx, "Asset added",
		log.FieldUserID, userID, log.FieldAssetID, created.ID, log.FieldValue, created.Value)
	return created, nil
}

// Update merges the set fields of patch into the asset.
func (r *Assets) Update(ctx context.Context, assetID core.ID, patch core.AssetPatch) (core.Asset, error) {
	var updated core.Asset
	_, err := store.Update(ctx, r.store, store.KeyAssets, []core.Asset{}, func(assets []core.Asset) ([]core.Asset, error) {
		for i, a := range assets {
			if a.ID != assetID {
				continue
			}
			next := patch.Apply(a)
			if err := core.Validate(core.AssetInput{Name: next.Name, Type: next.Type, Value: next.Value, Currency: next.Currency}); err != nil {
				return nil, err
			}
			assets[i] = next
			updated = next
			return assets, nil
		}
		return nil, assetNotFound(assetID)
	})
	if err != nil {
		return core.Asset{}, err
	}

	r.logger.InfoContext(ctx, "Asset updated", log.FieldAssetID, assetID, log.FieldValue, updated.Value)
	return updated.Normalized(), nil
}

// Delete removes the asset. Unknown ids are not an error.
func (r *Assets) Delete(ctx context.Context, assetID core.ID) error {
	_, err := store.Update(ctx, r.store, store.KeyAssets, []core.Asset{}, func(assets []core.Asset) ([]core.Asset, error) {
		kept := assets[:0]
		for _, a := range assets {
			if a.ID != assetID {
				kept = append(kept, a)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Asset deleted", log.FieldAssetID, assetID)
	return nil
}

func assetNotFound(id core.ID) error {
	return core.WithMessage(core.ErrNotFound, fmt.Sprintf("asset %s not found", id))
}
