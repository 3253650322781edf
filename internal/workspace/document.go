package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"wealth/internal/core"
	"wealth/internal/store"
)

const (
	// CurrentVersion is written by Export.
	CurrentVersion = "1.1"
	// AppName identifies documents produced by this application.
	AppName = "WealthAndAssetManagerMobile"

	exportDateLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Document is the versioned export format. The domain arrays are kept as raw
// JSON so records round-trip untouched, unknown fields included.
type Document struct {
	Version    string                     `json:"version"`
	ExportDate string                     `json:"exportDate"`
	AppName    string                     `json:"appName,omitempty"`
	Users      json.RawMessage            `json:"users,omitempty"`
	Assets     json.RawMessage            `json:"assets,omitempty"`
	Growth     json.RawMessage            `json:"growth,omitempty"`
	Goals      json.RawMessage            `json:"goals,omitempty"`
	Budgets    map[string]json.RawMessage `json:"budgets"`
	Counters   map[string]int64           `json:"counters,omitempty"`
}

// migrations upgrade a document from the keyed version to the next one.
var migrations = map[string]func(*Document) string{
	// 1.0 predates per-user budgets.
	"1.0": func(d *Document) string {
		if d.Budgets == nil {
			d.Budgets = map[string]json.RawMessage{}
		}
		return "1.1"
	},
}

// array pairs a domain array of the document with its key and counter.
type array struct {
	key     string
	counter string
	raw     json.RawMessage
}

func (d *Document) arrays() []array {
	return []array{
		{store.KeyUsers, store.KeyUserCounter, d.Users},
		{store.KeyAssets, store.KeyAssetCounter, d.Assets},
		{store.KeyGrowth, store.KeyGrowthCounter, d.Growth},
		{store.KeyGoals, store.KeyGoalCounter, d.Goals},
	}
}

// ParseDocument decodes data, checks the mandatory fields and upgrades older
// versions to CurrentVersion.
func ParseDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, core.Wrap(core.ErrInvalidDocument, err)
	}
	if d.Version == "" || d.ExportDate == "" {
		return nil, core.WithMessage(core.ErrInvalidDocument, "invalid data format: missing version or export date")
	}
	for d.Version != CurrentVersion {
		up, ok := migrations[d.Version]
		if !ok {
			return nil, core.WithMessage(core.ErrInvalidDocument, fmt.Sprintf("unsupported export version %q", d.Version))
		}
		d.Version = up(&d)
	}
	return &d, nil
}

// record is the part of every stored object the importer looks at.
type record struct {
	ID    core.ID `json:"_id"`
	Month *string `json:"month"`
}

// present reports whether raw holds a value other than null.
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// decodeArray checks that raw is an array of objects and returns them along
// with the highest numeric id seen (0 when none).
func decodeArray(name string, raw json.RawMessage) ([]record, int64, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, core.WithMessage(core.ErrInvalidDocument, fmt.Sprintf("%s must be an array", name))
	}
	records := make([]record, len(items))
	var maxID int64
	for i, item := range items {
		if err := json.Unmarshal(item, &records[i]); err != nil {
			return nil, 0, core.WithMessage(core.ErrInvalidDocument, fmt.Sprintf("%s[%d] is not a record", name, i))
		}
		if n, ok := records[i].ID.Int(); ok && n > maxID {
			maxID = n
		}
	}
	return records, maxID, nil
}

func compact(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, core.Wrap(core.ErrInvalidDocument, err)
	}
	return buf.Bytes(), nil
}
