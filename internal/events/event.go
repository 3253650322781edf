// Package events announces workspace-level changes to whoever listens.
package events

import (
	"encoding/json"
	"time"

	"wealth/internal/core"
)

// Type names a workspace event.
type Type string

const (
	WorkspaceImported      Type = "workspace.imported"
	WorkspaceCleared       Type = "workspace.cleared"
	WorkspaceBackupCreated Type = "workspace.backup_created"
	WorkspaceRestored      Type = "workspace.restored"
)

// Event is the message published after a successful workspace operation.
type Event struct {
	Type      Type           `json:"type"`
	UserID    core.ID        `json:"userId,omitempty"`
	BackupKey string         `json:"backupKey,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func New(t Type, userID core.ID) Event {
	return Event{Type: t, UserID: userID, Timestamp: time.Now().UTC()}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event body.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
