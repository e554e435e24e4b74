package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithRequestID_AddsField(t *testing.T) {
	var buf bytes.Buffer
	Set(zerolog.New(&buf))

	ctx := WithRequestID(context.Background(), "req-123")
	Error(ctx, errors.New("boom"), "failed to %s", "load")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("expected request_id, got %v", entry["request_id"])
	}
	if entry["error"] != "boom" {
		t.Errorf("expected error field, got %v", entry["error"])
	}
	if entry["message"] != "failed to load" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	Set(zerolog.New(&buf))

	Info(context.Background(), "hello")
	if buf.Len() == 0 {
		t.Fatal("expected global logger to receive the entry")
	}
}

func TestInit(t *testing.T) {
	if _, err := Init("verbose", ""); err == nil {
		t.Fatal("expected error for unknown level")
	}

	closeFn, err := Init("warn", filepath.Join(t.TempDir(), "app.log"))
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	defer closeFn()

	if lvl := FromContext(context.Background()).GetLevel(); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}
