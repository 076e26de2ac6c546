package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	athleteuc "github.com/kailas-cloud/athletedex/internal/usecase/athlete"
)

type panickingAthletes struct{ mockAthletes }

func (p *panickingAthletes) Stats(context.Context) (athleteuc.StatsView, bool, error) {
	panic("boom")
}

func TestRouter_RecoversPanics(t *testing.T) {
	s := NewServer(&panickingAthletes{}, mockHealth{report: healthyReport()}, 0, nil)
	w := serve(t, s, http.MethodGet, "/stats")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decode[ErrorResponse](t, w); body.Error != "Internal server error" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestRouter_RequestIDAndWideEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewRouter(newTestServer(&mockAthletes{}), RouterConfig{}, zap.New(core))

	r := httptest.NewRequest(http.MethodGet, "/stats", nil)
	r.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-123" || fields["path"] != "/stats" || fields["cache"] != "MISS" {
		t.Errorf("unexpected fields %+v", fields)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := NewRouter(newTestServer(&mockAthletes{}), RouterConfig{
		AllowedOrigins: []string{"https://app.example.com"},
	}, zap.NewNop())

	r := httptest.NewRequest(http.MethodOptions, "/athletes", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/stats", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	w := serve(t, newTestServer(&mockAthletes{}), http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
