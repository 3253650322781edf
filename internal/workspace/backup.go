package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"wealth/internal/core"
	"wealth/internal/events"
	"wealth/internal/log"
	"wealth/internal/store"
)

// allUsers names backups taken without a user.
const allUsers core.ID = "all"

// BackupInfo describes a stored snapshot.
type BackupInfo struct {
	Key       string    `json:"key"`
	UserID    core.ID   `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateBackup stores an export of the current state under
// backup_<userId>_<millis> and returns the key.
func (w *Workspace) CreateBackup(ctx context.Context, userID core.ID) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key, err := w.createBackupLocked(ctx, userID)
	if err != nil {
		return "", err
	}
	w.publish(ctx, events.Event{Type: events.WorkspaceBackupCreated, UserID: userID, BackupKey: key})
	return key, nil
}

func (w *Workspace) createBackupLocked(ctx context.Context, userID core.ID) (string, error) {
	// An empty user exports every budget; only the key names it "all".
	data, err := w.Export(ctx, userID)
	if err != nil {
		return "", err
	}
	owner := userID
	if owner == "" {
		owner = allUsers
	}

	millis := w.now().UnixMilli()
	key := fmt.Sprintf("%s%d", store.BackupUserPrefix(owner), millis)
	// Two backups within the same millisecond get consecutive stamps.
	for {
		if _, taken := w.store.GetRaw(ctx, key); !taken {
			break
		}
		millis++
		key = fmt.Sprintf("%s%d", store.BackupUserPrefix(owner), millis)
	}

	if err := w.store.Set(ctx, key, string(data)); err != nil {
		return "", err
	}
	w.logger.InfoContext(ctx, "Backup created",
		log.FieldOperation, log.OpBackup, log.FieldUserID, owner, log.FieldBackupKey, key)
	return key, nil
}

// RestoreBackup imports the snapshot stored under key.
func (w *Workspace) RestoreBackup(ctx context.Context, key string) (ImportSummary, error) {
	if !strings.HasPrefix(key, store.BackupPrefix) {
		return ImportSummary{}, core.WithMessage(core.ErrNotFound, "backup not found")
	}
	raw, ok := w.store.GetRaw(ctx, key)
	if !ok {
		return ImportSummary{}, core.WithMessage(core.ErrNotFound, "backup not found")
	}
	data := backupText(raw)

	w.mu.Lock()
	defer w.mu.Unlock()
	sum, err := w.importLocked(ctx, data, ImportOptions{})
	if err != nil {
		return ImportSummary{}, err
	}
	w.logger.InfoContext(ctx, "Backup restored", log.FieldOperation, log.OpRestore, log.FieldBackupKey, key)
	w.publish(ctx, events.Event{Type: events.WorkspaceRestored, BackupKey: key, Counts: sum.counts()})
	return sum, nil
}

// ListBackups returns the snapshots of userID, or of everyone when userID is
// empty, oldest first.
func (w *Workspace) ListBackups(ctx context.Context, userID core.ID) []BackupInfo {
	prefix := store.BackupPrefix
	if userID != "" {
		prefix = store.BackupUserPrefix(userID)
	}
	var out []BackupInfo
	for _, key := range w.store.Keys(ctx, prefix) {
		info, ok := parseBackupKey(key)
		if !ok {
			continue
		}
		out = append(out, info)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// DeleteBackup removes one snapshot. Unknown keys are a no-op.
func (w *Workspace) DeleteBackup(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, store.BackupPrefix) {
		return core.WithMessage(core.ErrInvalidInput, fmt.Sprintf("%q is not a backup key", key))
	}
	return w.store.Remove(ctx, key)
}

// backupText unwraps a snapshot. Snapshots are stored as a JSON string; a
// document stored directly is accepted too.
func backupText(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return []byte(s)
		}
	}
	return raw
}

func parseBackupKey(key string) (BackupInfo, bool) {
	rest := strings.TrimPrefix(key, store.BackupPrefix)
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 {
		return BackupInfo{}, false
	}
	millis, err := strconv.ParseInt(rest[i+1:], 10, 64)
	if err != nil {
		return BackupInfo{}, false
	}
	return BackupInfo{
		Key:       key,
		UserID:    core.ID(rest[:i]),
		CreatedAt: time.UnixMilli(millis).UTC(),
	}, true
}
