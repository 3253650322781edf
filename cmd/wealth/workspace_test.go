package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"wealth/internal/cli"
	"wealth/internal/config"
	"wealth/internal/core"
)

func openMemoryApp(t *testing.T) *cli.App {
	t.Helper()
	app, err := cli.Open(context.Background(), &config.Config{
		DataBackend:     "memory",
		SavingsDebounce: time.Second,
		MonthTimezone:   "UTC",
	}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func TestImportOptions(t *testing.T) {
	ctx := context.Background()
	app := openMemoryApp(t)

	if _, err := (&importCmd{user: true}).options(ctx, app); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("-user without a session: expected NOT_FOUND, got %v", err)
	}
	if _, err := app.Auth.Signup(ctx, core.SignupInput{FirstName: "Ada", Email: "a@x", Password: "p"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	tests := []struct {
		name       string
		cmd        importCmd
		wantUser   core.ID
		wantBackup bool
	}{
		{"plain", importCmd{}, "", false},
		{"backup only keeps every budget", importCmd{backup: true}, "", true},
		{"user", importCmd{user: true}, "1", false},
		{"user and backup", importCmd{user: true, backup: true}, "1", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := tc.cmd.options(ctx, app)
			if err != nil {
				t.Fatalf("options: %v", err)
			}
			if opts.UserID != tc.wantUser || opts.Backup != tc.wantBackup {
				t.Fatalf("options = %+v", opts)
			}
		})
	}
}
