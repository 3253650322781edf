package workspace

import (
	"context"
	"encoding/json"
	"strings"

	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/store"
)

// ExportDocument snapshots the store. With a userID only that user's budget
// is included; the domain arrays are always complete.
func (w *Workspace) ExportDocument(ctx context.Context, userID core.ID) *Document {
	d := &Document{
		Version:    CurrentVersion,
		ExportDate: w.now().UTC().Format(exportDateLayout),
		AppName:    AppName,
		Users:      w.rawArray(ctx, store.KeyUsers),
		Assets:     w.rawArray(ctx, store.KeyAssets),
		Growth:     w.rawArray(ctx, store.KeyGrowth),
		Goals:      w.rawArray(ctx, store.KeyGoals),
		Budgets:    map[string]json.RawMessage{},
		Counters:   w.counters.Snapshot(ctx),
	}

	budgetKeys := w.store.Keys(ctx, store.BudgetPrefix)
	if userID != "" {
		budgetKeys = []string{store.BudgetKey(userID)}
	}
	for _, key := range budgetKeys {
		raw, ok := w.store.GetRaw(ctx, key)
		if !ok {
			continue
		}
		if !json.Valid(raw) {
			w.logger.WarnContext(ctx, "Skipping undecodable budget", log.FieldKey, key)
			continue
		}
		d.Budgets[strings.TrimPrefix(key, store.BudgetPrefix)] = raw
	}
	return d
}

// Export renders ExportDocument as pretty-printed JSON.
func (w *Workspace) Export(ctx context.Context, userID core.ID) ([]byte, error) {
	d := w.ExportDocument(ctx, userID)
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, core.Wrap(core.ErrStorageFailure, err)
	}
	w.logger.InfoContext(ctx, "Workspace exported",
		log.FieldOperation, log.OpExport, log.FieldUserID, userID, "budgets", len(d.Budgets))
	return out, nil
}

func (w *Workspace) rawArray(ctx context.Context, key string) json.RawMessage {
	raw, ok := w.store.GetRaw(ctx, key)
	if !ok || !json.Valid(raw) {
		return json.RawMessage("[]")
	}
	return raw
}
