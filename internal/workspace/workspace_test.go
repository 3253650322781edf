package workspace_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"wealth/internal/core"
	"wealth/internal/events"
	"wealth/internal/repository"
	"wealth/internal/storage"
	"wealth/internal/store"
	"wealth/internal/workspace"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newWorkspace(t *testing.T) (*workspace.Workspace, *repository.Repositories, *events.Recorder) {
	t.Helper()
	now := func() time.Time { return testNow }
	repos := repository.New(store.New(storage.NewMemory(), nil), repository.Options{
		Hasher: repository.PlainHasher{},
		Now:    now,
	})
	rec := &events.Recorder{}
	return workspace.New(repos, workspace.Options{Publisher: rec, Now: now}), repos, rec
}

func seed(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	for _, email := range []string{"a@x", "b@x"} {
		if _, err := repos.Users.Signup(ctx, core.SignupInput{FirstName: "U", Email: email, Password: "p"}); err != nil {
			t.Fatalf("signup: %v", err)
		}
	}
	if _, err := repos.Assets.Add(ctx, "1", core.AssetInput{Name: "Home", Type: "Real Estate", Value: 250000, Currency: "USD"}); err != nil {
		t.Fatalf("add asset: %v", err)
	}
	if _, err := repos.Assets.Add(ctx, "1", core.AssetInput{Name: "Card", Type: "Debt", Value: -1500, Currency: "USD"}); err != nil {
		t.Fatalf("add asset: %v", err)
	}
	for _, id := range []core.ID{"1", "2"} {
		_, err := repos.Budgets.Modify(ctx, id, func(b core.BudgetAllocation, _ bool) (core.BudgetAllocation, error) {
			return b.Reallocate(4000, core.Percentages{Needs: 50, Wants: 30, Savings: 20}, "USD")
		})
		if err != nil {
			t.Fatalf("budget: %v", err)
		}
	}
}

func decode(t *testing.T, data []byte) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)
	seed(t, repos)

	data, err := ws.Export(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"version\": \"1.1\"") {
		t.Fatalf("export is not pretty printed:\n%s", data)
	}
	doc := decode(t, data)
	if string(doc["appName"]) != `"WealthAndAssetManagerMobile"` {
		t.Fatalf("appName = %s", doc["appName"])
	}
	if string(doc["exportDate"]) != `"2025-03-14T09:30:00.000Z"` {
		t.Fatalf("exportDate = %s", doc["exportDate"])
	}
	budgets := decode(t, doc["budgets"])
	if len(budgets) != 2 {
		t.Fatalf("full export has %d budgets", len(budgets))
	}
	var counters map[string]int64
	json.Unmarshal(doc["counters"], &counters)
	if counters[store.KeyUserCounter] != 3 || counters[store.KeyAssetCounter] != 3 {
		t.Fatalf("counters = %v", counters)
	}

	data, _ = ws.Export(ctx, "2")
	budgets = decode(t, decode(t, data)["budgets"])
	if _, ok := budgets["2"]; !ok || len(budgets) != 1 {
		t.Fatalf("user export budgets = %v", budgets)
	}
}

func TestImportRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"version":`},
		{"missing version", `{"exportDate":"2025-01-01T00:00:00.000Z"}`},
		{"missing export date", `{"version":"1.1"}`},
		{"future version", `{"version":"2.0","exportDate":"2025-01-01T00:00:00.000Z"}`},
		{"users not an array", `{"version":"1.1","exportDate":"x","assets":[],"users":{"a":1}}`},
		{"asset not a record", `{"version":"1.1","exportDate":"x","assets":[1,2]}`},
		{"budget not an object", `{"version":"1.1","exportDate":"x","budgets":{"1":[1]}}`},
		{"growth month not YYYY-MM", `{"version":"1.1","exportDate":"x","assets":[],"growth":[{"_id":1,"userId":1,"month":"2025-3","portfolioValue":10}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ws, repos, rec := newWorkspace(t)
			seed(t, repos)
			before, _ := repos.Store.GetRaw(ctx, store.KeyAssets)

			_, err := ws.Import(ctx, []byte(tt.doc), workspace.ImportOptions{})
			if !errors.Is(err, core.ErrInvalidDocument) {
				t.Fatalf("expected INVALID_DOCUMENT, got %v", err)
			}
			after, _ := repos.Store.GetRaw(ctx, store.KeyAssets)
			if string(after) != string(before) {
				t.Fatalf("rejected import wrote assets: %s", after)
			}
			if len(rec.Events) != 0 {
				t.Fatalf("rejected import published %v", rec.Types())
			}
		})
	}
}

func TestImportLegacyVersion(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)

	doc := `{"version":"1.0","exportDate":"2024-01-01T00:00:00.000Z",
		"users":[{"_id":7,"firstName":"Old","lastName":"","email":"o@x","password":"pw"}],
		"assets":[{"_id":3,"name":"Cash","type":"Cash","value":5,"userId":7}]}`
	sum, err := ws.Import(ctx, []byte(doc), workspace.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.Users != 1 || sum.Assets != 1 || sum.Budgets != 0 {
		t.Fatalf("summary = %+v", sum)
	}

	// Without exported counters they are derived from the imported ids.
	res, err := repos.Users.Signup(ctx, core.SignupInput{FirstName: "New", Email: "n@x", Password: "p"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if res.User.ID != "8" {
		t.Fatalf("new user id = %s, want 8", res.User.ID)
	}
	if got := repos.Assets.ListByUser(ctx, "7"); len(got) != 1 || got[0].Currency != "USD" {
		t.Fatalf("legacy assets = %+v", got)
	}
	if _, err := repos.Users.Login(ctx, "o@x", "pw"); err != nil {
		t.Fatalf("legacy plaintext login: %v", err)
	}
}

func TestImportSingleUserBudget(t *testing.T) {
	ctx := context.Background()
	ws, _, rec := newWorkspace(t)

	doc := `{"version":"1.1","exportDate":"2025-01-01T00:00:00.000Z",
		"budgets":{"1":{"_id":"a","monthlyIncome":1},"2":{"_id":"b","monthlyIncome":2}}}`
	sum, err := ws.Import(ctx, []byte(doc), workspace.ImportOptions{UserID: "2"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.Budgets != 2 {
		t.Fatalf("budgets counted = %d", sum.Budgets)
	}
	keys := ws.ExportDocument(ctx, "").Budgets
	if _, ok := keys["2"]; !ok || len(keys) != 1 {
		t.Fatalf("imported budgets = %v", keys)
	}
	if !reflect.DeepEqual(rec.Types(), []events.Type{events.WorkspaceImported}) {
		t.Fatalf("events = %v", rec.Types())
	}
	if rec.Events[0].Counts["budgets"] != 2 {
		t.Fatalf("event counts = %v", rec.Events[0].Counts)
	}
}

func TestImportWithBackup(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)
	seed(t, repos)

	sum, err := ws.Import(ctx, []byte(`{"version":"1.1","exportDate":"x","assets":[]}`), workspace.ImportOptions{UserID: "1", Backup: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.BackupKey != "backup_1_1741944600000" {
		t.Fatalf("backup key = %q", sum.BackupKey)
	}
	if got := repos.Assets.ListByUser(ctx, "1"); len(got) != 0 {
		t.Fatalf("assets not overwritten: %d", len(got))
	}

	if _, err := ws.RestoreBackup(ctx, sum.BackupKey); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := repos.Assets.ListByUser(ctx, "1"); len(got) != 2 {
		t.Fatalf("restored assets = %d", len(got))
	}
}

func TestWorkspaceBackupKeepsEveryBudget(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)
	seed(t, repos)

	key, err := ws.CreateBackup(ctx, "")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if key != "backup_all_1741944600000" {
		t.Fatalf("backup key = %q", key)
	}
	if err := ws.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	sum, err := ws.RestoreBackup(ctx, key)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if sum.Budgets != 2 {
		t.Fatalf("restored budgets = %d, want 2", sum.Budgets)
	}
	for _, id := range []core.ID{"1", "2"} {
		if b, ok := repos.Budgets.Get(ctx, id); !ok || b.MonthlyIncome != 4000 {
			t.Fatalf("budget of user %s = %+v, %v", id, b, ok)
		}
	}
}

func TestImportWithBackupWithoutUser(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)
	seed(t, repos)

	doc := `{"version":"1.1","exportDate":"x","budgets":{
		"1":{"_id":"b1","userId":1,"monthlyIncome":100,"currency":"USD",
			"needs":{"amount":50,"percentage":50,"items":[],"spent":0},
			"wants":{"amount":30,"percentage":30,"items":[],"spent":0},
			"savings":{"amount":20,"percentage":20,"items":[],"spent":0}}}}`
	sum, err := ws.Import(ctx, []byte(doc), workspace.ImportOptions{Backup: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.HasPrefix(sum.BackupKey, "backup_all_") {
		t.Fatalf("backup key = %q", sum.BackupKey)
	}
	if b, _ := repos.Budgets.Get(ctx, "1"); b.MonthlyIncome != 100 {
		t.Fatalf("budget not overwritten: %v", b.MonthlyIncome)
	}

	if _, err := ws.RestoreBackup(ctx, sum.BackupKey); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for _, id := range []core.ID{"1", "2"} {
		if b, ok := repos.Budgets.Get(ctx, id); !ok || b.MonthlyIncome != 4000 {
			t.Fatalf("budget of user %s after restore = %v, %v", id, b.MonthlyIncome, ok)
		}
	}
}

func TestBackups(t *testing.T) {
	ctx := context.Background()
	ws, repos, rec := newWorkspace(t)
	seed(t, repos)

	k1, err := ws.CreateBackup(ctx, "1")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	k2, _ := ws.CreateBackup(ctx, "1")
	if k1 == k2 {
		t.Fatalf("backups in the same millisecond share key %s", k1)
	}
	ws.CreateBackup(ctx, "2")

	list := ws.ListBackups(ctx, "1")
	if len(list) != 2 || list[0].Key != k1 || list[1].Key != k2 {
		t.Fatalf("backups of user 1 = %+v", list)
	}
	if !list[0].CreatedAt.Equal(testNow) {
		t.Fatalf("created at = %v", list[0].CreatedAt)
	}
	if n := len(ws.ListBackups(ctx, "")); n != 3 {
		t.Fatalf("all backups = %d", n)
	}

	// The stored value is the export text as a JSON string.
	raw, _ := repos.Store.GetRaw(ctx, k1)
	var text string
	if err := json.Unmarshal(raw, &text); err != nil || !strings.Contains(text, `"version": "1.1"`) {
		t.Fatalf("backup value = %.60s (%v)", raw, err)
	}

	if err := ws.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := len(ws.ListBackups(ctx, "")); n != 3 {
		t.Fatalf("clear removed backups, %d left", n)
	}
	if _, err := ws.RestoreBackup(ctx, k1); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := repos.Assets.ListByUser(ctx, "1"); len(got) != 2 {
		t.Fatalf("restored assets = %d", len(got))
	}
	if _, ok := repos.Budgets.Get(ctx, "1"); !ok {
		t.Fatalf("user backup should restore the user's budget")
	}

	if err := ws.DeleteBackup(ctx, k2); err != nil {
		t.Fatalf("delete backup: %v", err)
	}
	if _, err := ws.RestoreBackup(ctx, k2); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if err := ws.DeleteBackup(ctx, "users"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("deleting a non-backup key should fail, got %v", err)
	}

	want := []events.Type{
		events.WorkspaceBackupCreated,
		events.WorkspaceBackupCreated,
		events.WorkspaceBackupCreated,
		events.WorkspaceCleared,
		events.WorkspaceRestored,
	}
	if !reflect.DeepEqual(rec.Types(), want) {
		t.Fatalf("events = %v", rec.Types())
	}
}

func TestClearAndWipe(t *testing.T) {
	ctx := context.Background()
	ws, repos, _ := newWorkspace(t)
	seed(t, repos)
	repos.Session.Start(ctx, "local-token-1", "1")
	key, _ := ws.CreateBackup(ctx, "1")

	if err := ws.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all := repos.Store.Keys(ctx, "")
	if len(all) != 1 || all[0] != key {
		t.Fatalf("keys after clear = %v", all)
	}
	if _, ok := repos.Session.Current(ctx); ok {
		t.Fatalf("session survived clear")
	}

	// Counters start over after a clear.
	res, _ := repos.Users.Signup(ctx, core.SignupInput{FirstName: "A", Email: "a@x", Password: "p"})
	if res.User.ID != "1" {
		t.Fatalf("first id after clear = %s", res.User.ID)
	}

	if err := ws.Wipe(ctx); err != nil {
		t.Fatalf("wipe: %v", err)
	}
	if all := repos.Store.Keys(ctx, ""); len(all) != 0 {
		t.Fatalf("keys after wipe = %v", all)
	}
}
