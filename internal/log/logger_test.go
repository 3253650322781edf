package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentStore, Handler: slog.NewTextHandler(&buf, nil)})
	l.WithComponent(ComponentWorkspace).Info("Exported", FieldUserID, "7")

	out := buf.String()
	if !strings.Contains(out, "component=workspace") || !strings.Contains(out, "user_id=7") {
		t.Fatalf("unexpected record: %s", out)
	}
	if l.Component() != ComponentStore {
		t.Fatalf("parent component changed to %q", l.Component())
	}
}

func TestContextLogger(t *testing.T) {
	l := Discard().WithComponent(ComponentCLI)
	if got := FromContext(NewContext(context.Background(), l)); got != l {
		t.Fatal("logger not carried by context")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("fallback component = %q", got.Component())
	}
}
