package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"Warning": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	logger, buf := newBufferLogger("budget")

	logger.Info("saved", FieldUserID, int64(7))

	out := buf.String()
	if !strings.Contains(out, "component=budget") {
		t.Errorf("output missing component: %q", out)
	}
	if !strings.Contains(out, "user_id=7") {
		t.Errorf("output missing user_id: %q", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	logger, buf := newBufferLogger("app")

	logger.WithComponent(ComponentStorage).Warn("slow query")

	if out := buf.String(); !strings.Contains(out, "component=storage") {
		t.Errorf("output missing overridden component: %q", out)
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithUser(42, "dana").
		WithRecord(9, "Food", 1250).
		WithOperation(OpCreate).
		WithError(errors.New("boom"))

	want := map[string]any{
		FieldUserID:      int64(42),
		FieldUsername:    "dana",
		FieldRecordID:    int64(9),
		FieldCategory:    "Food",
		FieldAmountCents: int64(1250),
		FieldOperation:   OpCreate,
		FieldError:       "boom",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}

	slice := fields.ToSlice()
	if len(slice) != len(fields)*2 {
		t.Errorf("ToSlice length = %d, want %d", len(slice), len(fields)*2)
	}
}

func TestLogFieldsWithErrorNil(t *testing.T) {
	fields := NewFields().WithError(nil)
	if _, ok := fields[FieldError]; ok {
		t.Error("nil error should not add a field")
	}
}

func TestMiddlewareStoresLoggerInContext(t *testing.T) {
	logger, buf := newBufferLogger(ComponentHTTP)

	var fromCtx *Logger
	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = FromContext(r.Context())
		fromCtx.Info("inside handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if fromCtx == nil {
		t.Fatal("handler did not run")
	}
	if fromCtx.Component() != ComponentHTTP {
		t.Errorf("component = %q, want %q", fromCtx.Component(), ComponentHTTP)
	}
	if !strings.Contains(buf.String(), "inside handler") {
		t.Errorf("context logger did not write to the configured handler: %q", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("FromContext returned nil for empty context")
	}
	if logger.Component() != "unknown" {
		t.Errorf("component = %q, want unknown", logger.Component())
	}
}

func TestRequestIDMiddlewareEnrichesLogger(t *testing.T) {
	logger, buf := newBufferLogger(ComponentHTTP)

	chain := Middleware(logger)(RequestIDMiddleware(func(r *http.Request) string {
		return "req_test123"
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("handled")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	chain.ServeHTTP(httptest.NewRecorder(), req)

	if out := buf.String(); !strings.Contains(out, "request_id=req_test123") {
		t.Errorf("output missing request id: %q", out)
	}
}

func TestStructuredLoggerHTTPEnd(t *testing.T) {
	logger, buf := newBufferLogger(ComponentHTTP)
	sl := NewStructuredLogger(logger)

	req := httptest.NewRequest(http.MethodGet, "/api/summary?x=1", nil)
	sl.LogHTTPEnd(context.Background(), req, http.StatusInternalServerError, 12, "203.0.113.9", "req_abc")

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("5xx should log at error level: %q", out)
	}
	if !strings.Contains(out, "status_code=500") || !strings.Contains(out, "success=false") {
		t.Errorf("output missing response fields: %q", out)
	}
	if !strings.Contains(out, "client_ip=203.0.113.9") {
		t.Errorf("output missing client ip: %q", out)
	}
	if !strings.Contains(out, "request_id=req_abc") {
		t.Errorf("output missing request id: %q", out)
	}
}

func TestStructuredLoggerRecordCreated(t *testing.T) {
	logger, buf := newBufferLogger(ComponentExpense)
	sl := NewStructuredLogger(logger)

	sl.LogRecordCreated(context.Background(), ComponentExpense, 3, 11, "Transport", 4500)

	out := buf.String()
	for _, want := range []string{"user_id=3", "record_id=11", "category=Transport", "amount_cents=4500", "operation=create"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}
