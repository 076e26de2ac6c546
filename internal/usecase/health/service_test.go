package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")

	tests := []struct {
		name       string
		db         error
		cache      Pinger
		wantStatus Status
		wantChecks map[string]CheckResult
	}{
		{
			name:       "all healthy",
			cache:      &mockPinger{},
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{ComponentDatabase: CheckOK, ComponentCache: CheckOK},
		},
		{
			name:       "database down",
			db:         down,
			cache:      &mockPinger{},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{ComponentDatabase: CheckError, ComponentCache: CheckOK},
		},
		{
			name:       "cache down",
			cache:      &mockPinger{err: down},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{ComponentDatabase: CheckOK, ComponentCache: CheckError},
		},
		{
			name:       "no cache configured",
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{ComponentDatabase: CheckOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockPinger{err: tt.db}, tt.cache)
			r := svc.Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("expected %q, got %q", tt.wantStatus, r.Status)
			}
			if len(r.Checks) != len(tt.wantChecks) {
				t.Fatalf("expected %d checks, got %v", len(tt.wantChecks), r.Checks)
			}
			for k, v := range tt.wantChecks {
				if r.Checks[k] != v {
					t.Errorf("expected %s %q, got %q", k, v, r.Checks[k])
				}
			}
		})
	}
}
