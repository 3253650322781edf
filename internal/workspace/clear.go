package workspace

import (
	"context"

	"wealth/internal/events"
	"wealth/internal/log"
	"wealth/internal/store"
)

// Clear resets the workspace: every domain array, every counter, the session
// and every per-user budget. Backups are kept so a reset can be undone with
// RestoreBackup.
func (w *Workspace) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	keys := make([]string, 0, len(store.DomainKeys)+len(store.CounterKeys)+len(store.SessionKeys))
	keys = append(keys, store.DomainKeys...)
	keys = append(keys, store.CounterKeys...)
	keys = append(keys, store.SessionKeys...)
	keys = append(keys, w.store.Keys(ctx, store.BudgetPrefix)...)

	if err := w.store.RemoveMany(ctx, keys...); err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Workspace cleared", log.FieldOperation, log.OpClear, log.FieldCount, len(keys))
	w.publish(ctx, events.Event{Type: events.WorkspaceCleared})
	return nil
}

// Wipe erases every key, backups included.
func (w *Workspace) Wipe(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Clear(ctx); err != nil {
		return err
	}
	w.logger.WarnContext(ctx, "Workspace wiped", log.FieldOperation, log.OpClear)
	w.publish(ctx, events.Event{Type: events.WorkspaceCleared})
	return nil
}
