package trace

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "fingenius/internal/log"
)

func newBufferLogger() (*applog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Component: applog.ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if !strings.HasPrefix(a, "req_") {
		t.Errorf("request id %q missing prefix", a)
	}
	if a == b {
		t.Error("request ids must be unique")
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", id)
	}
}

func TestMiddlewareSetsRequestIDAndLogs(t *testing.T) {
	logger, buf := newBufferLogger()
	m := NewMiddleware(func(r *http.Request) string { return "203.0.113.4" }, logger)

	var seenID string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/goals?x=1", nil))

	if seenID == "" {
		t.Fatal("handler saw no request id in context")
	}

	out := buf.String()
	if !strings.Contains(out, "HTTP request started") || !strings.Contains(out, "HTTP request completed") {
		t.Fatalf("missing start/complete lines: %q", out)
	}
	for _, want := range []string{
		"request_id=" + seenID,
		"client_ip=203.0.113.4",
		"status_code=404",
		"success=false",
		"path=/goals",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	// 4xx completions log at warn level
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("404 completion should log at warn: %q", out)
	}

	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Errorf("TotalRequests = %d, want 1", got)
	}
}
