package logger

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/funnel-builder-backend/internal/platform/ctxutil"
)

func TestRedactorKVs(t *testing.T) {
	r := &redactor{enabled: true}
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"

	got := r.kvs([]any{
		"funnel_id", "f-1",
		"Authorization", "Bearer abc",
		"note", jwt,
		"payload", map[string]any{"user_email": "a@b.c", "kind": "heading"},
		"dangling",
	})
	want := []any{
		"funnel_id", "f-1",
		"Authorization", "[REDACTED]",
		"note", "[REDACTED]",
		"payload", map[string]any{"user_email": "[REDACTED]", "kind": "heading"},
		"dangling",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kvs: got=%v want=%v", got, want)
	}
}

func TestRedactorHashesUserIDs(t *testing.T) {
	plain := &redactor{enabled: true}
	salted := &redactor{enabled: true, salt: "pepper"}

	a := plain.kvs([]any{"user_id", "u-1"})[1].(string)
	b := plain.kvs([]any{"user_id", "u-1"})[1].(string)
	c := salted.kvs([]any{"user_id", "u-1"})[1].(string)
	if !strings.HasPrefix(a, "hash:") || len(a) != len("hash:")+12 {
		t.Fatalf("hash format: got=%q", a)
	}
	if a != b {
		t.Fatalf("hash not stable: got=%q and %q", a, b)
	}
	if a == c {
		t.Fatalf("salt ignored: got=%q", c)
	}
}

func TestRedactorDisabled(t *testing.T) {
	r := &redactor{enabled: false}
	kv := []any{"token", "secret-value"}
	if got := r.kvs(kv); !reflect.DeepEqual(got, kv) {
		t.Fatalf("kvs: got=%v want=%v", got, kv)
	}
}

func TestWithContextAddsRequestFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewWithCore(core, false, "")

	userID := uuid.New()
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-1"})
	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID})

	log.WithContext(ctx).Info("saved")
	log.WithContext(context.Background()).Info("bare")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries: got=%d want=2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["user_id"] != userID.String() {
		t.Fatalf("fields: got=%v", fields)
	}
	if len(entries[1].ContextMap()) != 0 {
		t.Fatalf("bare context added fields: got=%v", entries[1].ContextMap())
	}
}
