package chi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/athletedex/internal/domain/athlete/criteria"
	athleteuc "github.com/kailas-cloud/athletedex/internal/usecase/athlete"
	healthuc "github.com/kailas-cloud/athletedex/internal/usecase/health"
)

type mockAthletes struct {
	list    athleteuc.ListResult
	filters athleteuc.FilterOptionsView
	stats   athleteuc.StatsView
	hit     bool
	err     error

	lastCriteria criteria.Criteria
	listCalls    int
	lastPattern  string
}

func (m *mockAthletes) List(_ context.Context, c criteria.Criteria) (athleteuc.ListResult, bool, error) {
	m.listCalls++
	m.lastCriteria = c
	return m.list, m.hit, m.err
}

func (m *mockAthletes) FilterOptions(context.Context) (athleteuc.FilterOptionsView, bool, error) {
	return m.filters, m.hit, m.err
}

func (m *mockAthletes) Stats(context.Context) (athleteuc.StatsView, bool, error) {
	return m.stats, m.hit, m.err
}

func (m *mockAthletes) InvalidateCache(_ context.Context, pattern string) (string, error) {
	m.lastPattern = pattern
	if m.err != nil {
		return "", m.err
	}
	if pattern == "" {
		return "all", nil
	}
	return pattern, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m mockHealth) Check(context.Context) healthuc.Report { return m.report }

func healthyReport() healthuc.Report {
	return healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{healthuc.ComponentDatabase: healthuc.CheckOK},
	}
}

func newTestServer(a *mockAthletes) *Server {
	return NewServer(a, mockHealth{report: healthyReport()}, 30*time.Minute, zap.NewNop())
}
