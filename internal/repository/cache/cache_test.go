package cache

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("athletes", map[string]string{"a": "1", "b": "2"})
	b := GenerateKey("athletes", map[string]string{"b": "2", "a": "1"})
	c := GenerateKey("athletes", map[string]string{"a": "1", "b": "3"})

	if a != b {
		t.Errorf("order dependent: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("different params produced the same key %q", a)
	}
	if a != "athletes:a:1|b:2" {
		t.Errorf("unexpected key %q", a)
	}
}

func TestGenerateKey_EmptyParams(t *testing.T) {
	if got := GenerateKey("filters", nil); got != "filters" {
		t.Fatalf("got %q, want filters", got)
	}
}

func TestGet_HitAndMiss(t *testing.T) {
	c, ms, ops := newTestCache(t)
	ms.data["athletes:page:1"] = []byte("payload")

	if v, ok := c.Get(context.Background(), "athletes:page:1"); !ok || string(v) != "payload" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	if _, ok := c.Get(context.Background(), "athletes:page:2"); ok {
		t.Fatal("expected miss")
	}

	if got := testutil.ToFloat64(ops.WithLabelValues("athletes", "hit")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("athletes", "miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestGet_StoreErrorIsMiss(t *testing.T) {
	c, ms, ops := newTestCache(t)
	ms.getErr = errors.New("connection refused")

	if _, ok := c.Get(context.Background(), "filters"); ok {
		t.Fatal("expected miss on store error")
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("filters", "error")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestGetJSON(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.data["athlete_stats"] = []byte(`{"total":3}`)
	ms.data["broken"] = []byte(`{`)

	var v struct {
		Total int `json:"total"`
	}
	if !c.GetJSON(context.Background(), "athlete_stats", &v) || v.Total != 3 {
		t.Fatalf("unexpected decode result %+v", v)
	}
	if c.GetJSON(context.Background(), "broken", &v) {
		t.Fatal("undecodable entry must be a miss")
	}
}

func TestSet_DefaultTTL(t *testing.T) {
	c, ms, _ := newTestCache(t)
	c.Set(context.Background(), "k", []byte("v"), 0)
	if ms.ttls["k"] != DefaultTTL {
		t.Errorf("ttl = %v, want %v", ms.ttls["k"], DefaultTTL)
	}

	c.SetJSON(context.Background(), "j", map[string]int{"a": 1}, 30*time.Minute)
	if ms.ttls["j"] != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", ms.ttls["j"])
	}
	if string(ms.data["j"]) != `{"a":1}` {
		t.Errorf("stored %q", ms.data["j"])
	}
}

func TestSet_StoreErrorIsNoop(t *testing.T) {
	c, ms, ops := newTestCache(t)
	ms.setErr = errors.New("connection refused")

	c.Set(context.Background(), "filters", []byte("v"), 0)
	if got := testutil.ToFloat64(ops.WithLabelValues("filters", "error")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestDeletePattern(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.data["athletes:a"] = []byte("1")
	ms.data["athletes:b"] = []byte("2")
	ms.data["filters"] = []byte("3")

	if n := c.DeletePattern(context.Background(), "athletes:*"); n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}
	if _, ok := ms.data["filters"]; !ok {
		t.Fatal("filters must survive a pattern delete")
	}
}

func TestDeletePattern_StoreError(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.keysErr = errors.New("timeout")
	if n := c.DeletePattern(context.Background(), "*"); n != 0 {
		t.Fatalf("deleted %d, want 0", n)
	}
}

func TestInvalidateAll(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.data["athletes:a"] = []byte("1")
	ms.data["filters"] = []byte("2")
	ms.data["athlete_stats"] = []byte("3")
	ms.data["search:x"] = []byte("4")

	c.InvalidateAll(context.Background())

	var left []string
	for k := range ms.data {
		left = append(left, k)
	}
	sort.Strings(left)
	if len(left) != 1 || left[0] != "search:x" {
		t.Fatalf("remaining keys %v, want [search:x]", left)
	}
}

func TestInvalidatePattern(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.data["athletes:a"] = []byte("1")
	ms.data["filters"] = []byte("2")

	c.InvalidatePattern(context.Background(), "filters*")

	if _, ok := ms.data["filters"]; ok {
		t.Fatal("filters should be deleted")
	}
	if _, ok := ms.data["athletes:a"]; !ok {
		t.Fatal("athletes:a should survive")
	}
}

func TestDelete_StoreErrorIsNoop(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.data["filters"] = []byte("1")
	ms.delErr = errors.New("timeout")

	c.Delete(context.Background(), "filters")
	if _, ok := ms.data["filters"]; !ok {
		t.Fatal("key should remain after failed delete")
	}
}

func TestDisabled(t *testing.T) {
	c := Disabled(nil)
	ctx := context.Background()

	c.SetJSON(ctx, KeyStats, map[string]int{"totalAthletes": 1}, 0)
	var out map[string]int
	if c.GetJSON(ctx, KeyStats, &out) {
		t.Fatal("disabled cache must always miss")
	}
	c.InvalidateAll(ctx)
}
