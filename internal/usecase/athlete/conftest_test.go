package athlete

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	domathlete "github.com/kailas-cloud/athletedex/internal/domain/athlete"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/criteria"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/filter"
	"github.com/kailas-cloud/athletedex/internal/search"
)

// --- Mocks ---

type mockRepo struct {
	profiles []domathlete.Profile
	total    int64
	stats    domathlete.Stats

	findErr  error
	countErr error
	statsErr error

	findCalls  int
	countCalls int
	lastPred   filter.Predicate
	lastSort   filter.Sort
	lastOffset int
	lastLimit  int
}

func (m *mockRepo) FindAthletes(
	_ context.Context, p filter.Predicate, sort filter.Sort, offset, limit int,
) ([]domathlete.Profile, error) {
	m.findCalls++
	m.lastPred, m.lastSort, m.lastOffset, m.lastLimit = p, sort, offset, limit
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.profiles, nil
}

func (m *mockRepo) CountAthletes(_ context.Context, p filter.Predicate) (int64, error) {
	m.countCalls++
	m.lastPred = p
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.total, nil
}

func (m *mockRepo) Stats(_ context.Context) (domathlete.Stats, error) {
	return m.stats, m.statsErr
}

type mockOptions struct {
	schools     []domathlete.SchoolOption
	sports      []domathlete.SportOption
	conferences []string
	grades      []string
	categories  []domathlete.Category
	gradesErr   error
}

func (m *mockOptions) Schools(context.Context) ([]domathlete.SchoolOption, error) {
	return m.schools, nil
}

func (m *mockOptions) Sports(context.Context) ([]domathlete.SportOption, error) {
	return m.sports, nil
}

func (m *mockOptions) Conferences(context.Context) ([]string, error) {
	return m.conferences, nil
}

func (m *mockOptions) Grades(context.Context) ([]string, error) {
	return m.grades, m.gradesErr
}

func (m *mockOptions) Categories(context.Context) ([]domathlete.Category, error) {
	return m.categories, nil
}

// memCache is an in-memory Cache that round-trips values through JSON.
type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	ttls        map[string]time.Duration
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) GetJSON(_ context.Context, key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}

func (m *memCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.data[key] = b
	m.ttls[key] = ttl
}

func (m *memCache) InvalidateAll(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, "all")
}

func (m *memCache) InvalidatePattern(_ context.Context, pattern string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
}

// --- Fixtures ---

func fptr(v float64) *float64 { return &v }

func sampleProfile() domathlete.Profile {
	return domathlete.Profile{
		ID:       1,
		Name:     "John Smith",
		Email:    "john.smith@example.com",
		Gender:   domathlete.GenderMale,
		Grade:    "11",
		IsActive: true,
		School: domathlete.School{
			ID: 7, Label: "OSU", Name: "Ohio State", State: "OH", Conference: "Big Ten",
		},
		Sports: []domathlete.Sport{{ID: 2, Label: "Football", Name: "football"}},
		Categories: []domathlete.CategoryAssignment{
			{Category: domathlete.Category{ID: 4, Name: "Fitness"}, ConfidenceScore: 87.5},
		},
		Performance: domathlete.PerformanceScore{Score: 82, TotalFollowers: 12000, EngagementRate: 4.2},
		Instagram:   &domathlete.PlatformAccount{Username: "jsmith", Followers: 10000, EngagementRate: 4.5},
		Demographics: domathlete.Demographics{
			EthnicityWhite:    fptr(40),
			AudienceAge18To24: fptr(55),
			LocationUS:        fptr(90),
		},
	}
}

func mustParse(t *testing.T, q string) criteria.Criteria {
	t.Helper()
	values, err := url.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	c, err := criteria.Parse(values)
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	return c
}

func newTestService(t *testing.T, repo *mockRepo, opts *mockOptions) (*Service, *memCache) {
	t.Helper()
	if opts == nil {
		opts = &mockOptions{}
	}
	c := newMemCache()
	return New(repo, opts, c, search.New(search.Options{}), 0, zap.NewNop()), c
}
