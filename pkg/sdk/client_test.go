package athletedex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type recorded struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (r *recorded) last() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reqs[len(r.reqs)-1]
}

func newTestAPI(t *testing.T, h http.HandlerFunc) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, r)
		rec.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, rec
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "ftp://example.com", "://bad"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
}

func TestList(t *testing.T) {
	c, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("X-RateLimit-Limit", "30")
		w.Header().Set("X-RateLimit-Remaining", "29")
		w.Header().Set("X-RateLimit-Reset", "2025-03-01T10:05:00Z")
		writeBody(w, http.StatusOK, ListResult{
			Data:       []Athlete{{ID: 7, Name: "Jane Doe"}},
			Pagination: Pagination{Page: 1, PageSize: 20, Total: 1, TotalPages: 1},
		})
	})

	q := NewQuery().Search("jane").Gender(GenderFemale).ScoreBetween(50, 90.5).CategoryIDs(1, 2).PageSize(20)
	res, meta, err := c.List(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := rec.last()
	if r.URL.Path != "/athletes" || r.Method != http.MethodGet {
		t.Errorf("request = %s %s", r.Method, r.URL.Path)
	}
	got := r.URL.Query()
	if got.Get("search") != "jane" || got.Get("scoreMax") != "90.5" || got.Get("categoryIds") != "1,2" {
		t.Errorf("unexpected query %v", got)
	}
	if r.Header.Get("X-Request-Id") == "" {
		t.Error("expected a request id")
	}

	if len(res.Data) != 1 || res.Data[0].Name != "Jane Doe" {
		t.Errorf("unexpected data %+v", res.Data)
	}
	if !meta.CacheHit || meta.RateLimit.Limit != 30 || meta.RateLimit.Remaining != 29 {
		t.Errorf("unexpected meta %+v", meta)
	}
	if want := time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC); !meta.RateLimit.Reset.Equal(want) {
		t.Errorf("reset = %v, want %v", meta.RateLimit.Reset, want)
	}
}

func TestList_NilQuery(t *testing.T) {
	c, rec := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, ListResult{Data: []Athlete{}})
	})
	if _, _, err := c.List(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.last().URL.RawQuery != "" {
		t.Errorf("expected no query, got %q", rec.last().URL.RawQuery)
	}
}

func TestList_ValidationError(t *testing.T) {
	c, _ := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"message": "Invalid request parameters",
			"details": map[string][]string{"pageSize": {"must be at most 100"}},
		})
	})

	_, _, err := c.List(context.Background(), NewQuery().PageSize(500))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || len(apiErr.Details["pageSize"]) != 1 {
		t.Fatalf("expected details, got %+v", apiErr)
	}
}

func TestList_RateLimited(t *testing.T) {
	c, _ := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "42")
		writeBody(w, http.StatusTooManyRequests, map[string]string{
			"error":     "Rate limit exceeded",
			"message":   "Too many requests. Please try again later.",
			"resetTime": "2025-03-01T10:05:00Z",
		})
	})

	_, _, err := c.List(context.Background(), NewQuery().Search("x"))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	var apiErr *APIError
	errors.As(err, &apiErr)
	if apiErr.RetryAfter != 42*time.Second || apiErr.ResetTime.IsZero() {
		t.Errorf("unexpected retry info %+v", apiErr)
	}
}

func TestFiltersAndStats(t *testing.T) {
	c, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/filters":
			writeBody(w, http.StatusOK, FilterOptions{Conferences: []string{"SEC"}})
		case "/stats":
			writeBody(w, http.StatusOK, Stats{TotalAthletes: 12, AvgScore: 61.2})
		default:
			http.NotFound(w, r)
		}
	})

	f, _, err := c.Filters(context.Background())
	if err != nil || len(f.Conferences) != 1 {
		t.Fatalf("filters = %+v, err %v", f, err)
	}
	s, _, err := c.Stats(context.Background())
	if err != nil || s.TotalAthletes != 12 {
		t.Fatalf("stats = %+v, err %v", s, err)
	}
}

func TestStats_ServerError(t *testing.T) {
	c, _ := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	})
	_, _, err := c.Stats(context.Background())
	if !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
}

func TestInvalidateCache(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		query   string
		want    string
	}{
		{"all", "", "", "all"},
		{"pattern", "athletes:*", "pattern=athletes%3A%2A", "athletes:*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				p := r.URL.Query().Get("pattern")
				if p == "" {
					p = "all"
				}
				writeBody(w, http.StatusOK, map[string]any{"success": true, "pattern": p})
			})
			got, err := c.InvalidateCache(context.Background(), tt.pattern)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("pattern = %q, want %q", got, tt.want)
			}
			r := rec.last()
			if r.Method != http.MethodPost || r.URL.RawQuery != tt.query {
				t.Errorf("request = %s ?%s", r.Method, r.URL.RawQuery)
			}
		})
	}
}

func TestInvalidateCache_InvalidPattern(t *testing.T) {
	c, _ := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid cache pattern",
			"message": "invalid cache pattern",
		})
	})
	if _, err := c.InvalidateCache(context.Background(), "a b"); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestHealth_Degraded(t *testing.T) {
	c, _ := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusServiceUnavailable, HealthStatus{
			Status: "degraded",
			Checks: map[string]string{"database": "ok", "cache": "error"},
		})
	})

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Healthy() || h.Checks["cache"] != "error" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestForwardedFor(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Forwarded-For")
		writeBody(w, http.StatusOK, Stats{})
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithForwardedFor("203.0.113.9"), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := c.Stats(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "203.0.113.9" {
		t.Errorf("X-Forwarded-For = %q", got)
	}
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stats" {
			writeBody(w, http.StatusOK, Stats{})
			return
		}
		writeBody(w, http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, _, _ = c.Stats(context.Background())
	_, _, _ = c.Filters(context.Background())

	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("stats", "ok")); got != 1 {
		t.Errorf("stats ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("filters", "rate_limited")); got != 1 {
		t.Errorf("filters rate_limited = %v, want 1", got)
	}

	// A second client on the same registry reuses the collectors.
	if _, err := New(srv.URL, WithPrometheus(reg)); err != nil {
		t.Fatalf("second New: %v", err)
	}
}
