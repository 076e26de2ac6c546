package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/athletedex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	deleted []string

	getErr  error
	setErr  error
	delErr  error
	keysErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

// Keys supports only "prefix*" patterns.
func (m *mockStore) Keys(_ context.Context, pattern string) ([]string, error) {
	if m.keysErr != nil {
		return nil, m.keysErr
	}
	prefix := pattern
	if n := len(pattern); n > 0 && pattern[n-1] == '*' {
		prefix = pattern[:n-1]
	}
	var out []string
	for k := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

func newTestCache(t *testing.T) (*Cache, *mockStore, *prometheus.CounterVec) {
	t.Helper()
	ms := newMockStore()
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_ops"}, []string{"namespace", "result"})
	return New(ms, Config{}, ops, zap.NewNop()), ms, ops
}
