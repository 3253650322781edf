package workspace

import (
	"context"
	"encoding/json"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/events"
	"wealth/internal/log"
	"wealth/internal/store"
)

// ImportOptions control Import.
type ImportOptions struct {
	// UserID restricts the budget import to this user when the document
	// has a budget for them.
	UserID core.ID
	// Backup snapshots the current state before anything is overwritten.
	Backup bool
}

// ImportSummary counts the records carried by the imported document.
type ImportSummary struct {
	Users     int    `json:"users"`
	Assets    int    `json:"assets"`
	Growth    int    `json:"growth"`
	Goals     int    `json:"goals"`
	Budgets   int    `json:"budgets"`
	BackupKey string `json:"backupKey,omitempty"`
}

func (s ImportSummary) counts() map[string]int {
	return map[string]int{
		"users":   s.Users,
		"assets":  s.Assets,
		"growth":  s.Growth,
		"goals":   s.Goals,
		"budgets": s.Budgets,
	}
}

// Import overwrites the store with the arrays and budgets present in data.
// Arrays are replaced wholesale, never merged. The document is fully checked
// before the first write.
func (w *Workspace) Import(ctx context.Context, data []byte, opts ImportOptions) (ImportSummary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sum, err := w.importLocked(ctx, data, opts)
	if err != nil {
		return ImportSummary{}, err
	}
	w.publish(ctx, events.Event{
		Type:      events.WorkspaceImported,
		UserID:    opts.UserID,
		BackupKey: sum.BackupKey,
		Counts:    sum.counts(),
	})
	return sum, nil
}

type plannedWrite struct {
	key string
	raw []byte
}

func (w *Workspace) importLocked(ctx context.Context, data []byte, opts ImportOptions) (ImportSummary, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return ImportSummary{}, err
	}

	var (
		sum     ImportSummary
		writes  []plannedWrite
		derived = map[string]int64{}
	)
	for _, a := range doc.arrays() {
		if !present(a.raw) {
			continue
		}
		records, maxID, err := decodeArray(a.key, a.raw)
		if err != nil {
			return ImportSummary{}, err
		}
		raw, err := compact(a.raw)
		if err != nil {
			return ImportSummary{}, err
		}
		writes = append(writes, plannedWrite{a.key, raw})
		if maxID > 0 {
			derived[a.counter] = maxID + 1
		}
		switch a.key {
		case store.KeyUsers:
			sum.Users = len(records)
		case store.KeyAssets:
			sum.Assets = len(records)
		case store.KeyGrowth:
			if err := checkMonths(records); err != nil {
				return ImportSummary{}, err
			}
			sum.Growth = len(records)
		case store.KeyGoals:
			sum.Goals = len(records)
		}
	}

	budgets := doc.Budgets
	if raw, ok := doc.Budgets[string(opts.UserID)]; opts.UserID != "" && ok {
		budgets = map[string]json.RawMessage{string(opts.UserID): raw}
	}
	for userID, raw := range budgets {
		if !present(raw) {
			continue
		}
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return ImportSummary{}, core.WithMessage(core.ErrInvalidDocument, "budget of user "+userID+" is not an object")
		}
		compacted, err := compact(raw)
		if err != nil {
			return ImportSummary{}, err
		}
		writes = append(writes, plannedWrite{store.BudgetKey(core.ID(userID)), compacted})
	}
	sum.Budgets = len(doc.Budgets)

	if opts.Backup {
		key, err := w.createBackupLocked(ctx, opts.UserID)
		if err != nil {
			return ImportSummary{}, err
		}
		sum.BackupKey = key
	}

	for _, pw := range writes {
		err := w.store.Serialize(ctx, pw.key, func() error {
			return w.store.SetRaw(ctx, pw.key, pw.raw)
		})
		if err != nil {
			return ImportSummary{}, err
		}
	}
	if err := w.restoreCounters(ctx, doc.Counters, derived); err != nil {
		return ImportSummary{}, err
	}

	w.logger.InfoContext(ctx, "Workspace imported",
		log.FieldOperation, log.OpImport, log.FieldVersion, doc.Version,
		"users", sum.Users, "assets", sum.Assets, "growth", sum.Growth,
		"goals", sum.Goals, "budgets", sum.Budgets)
	return sum, nil
}

// checkMonths rejects growth samples whose month is not YYYY-MM. Samples
// without a month are left as they are.
func checkMonths(samples []record) error {
	for i, r := range samples {
		if r.Month != nil && !core.ValidMonth(*r.Month) {
			return core.WithMessage(core.ErrInvalidDocument,
				fmt.Sprintf("growth[%d] has month %q, want YYYY-MM", i, *r.Month))
		}
	}
	return nil
}

// restoreCounters applies the exported counters, then raises every counter
// past the highest imported id so new records never collide.
func (w *Workspace) restoreCounters(ctx context.Context, exported, derived map[string]int64) error {
	for _, key := range store.CounterKeys {
		if n, ok := exported[key]; ok && n > 0 {
			if err := w.counters.Set(ctx, key, n); err != nil {
				return err
			}
		}
		if n, ok := derived[key]; ok {
			if err := w.counters.Raise(ctx, key, n); err != nil {
				return err
			}
		}
	}
	return nil
}
