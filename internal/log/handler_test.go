package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	ctxlog "github.com/ErlanBelekov/taskboard/internal/log"
	"github.com/ErlanBelekov/taskboard/internal/reqctx"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(ctxlog.NewContextHandler(slog.NewJSONHandler(buf, nil)))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestContextHandler_AddsRequestAndUserID(t *testing.T) {
	var buf bytes.Buffer
	ctx := reqctx.WithUserID(reqctx.WithRequestID(context.Background(), "req-1"), "user-1")

	newLogger(&buf).With("component", "test").InfoContext(ctx, "hello")

	rec := decode(t, &buf)
	if rec["request_id"] != "req-1" || rec["user_id"] != "user-1" {
		t.Errorf("record = %v", rec)
	}
	if rec["component"] != "test" {
		t.Errorf("WithAttrs lost: %v", rec)
	}
}

func TestContextHandler_NoContextValues(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf).InfoContext(context.Background(), "hello")

	rec := decode(t, &buf)
	if _, ok := rec["request_id"]; ok {
		t.Errorf("unexpected request_id: %v", rec)
	}
	if _, ok := rec["user_id"]; ok {
		t.Errorf("unexpected user_id: %v", rec)
	}
}
