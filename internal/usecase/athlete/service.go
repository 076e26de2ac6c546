package athlete

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/athletedex/internal/domain"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/criteria"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/filter"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/page"
	"github.com/kailas-cloud/athletedex/internal/logger"
	"github.com/kailas-cloud/athletedex/internal/repository/cache"
	"github.com/kailas-cloud/athletedex/internal/search"
)

// DefaultResponseTTL is how long list, filter and stats responses stay cached.
const DefaultResponseTTL = 30 * time.Minute

const maxPatternLen = 256

// Service serves the athlete list, filter options and roster stats.
type Service struct {
	repo    Repository
	options OptionsReader
	cache   Cache
	engine  *search.Engine
	ttl     time.Duration
	logger  *zap.Logger
}

// New creates an athlete service. ttl <= 0 uses DefaultResponseTTL.
func New(
	repo Repository, options OptionsReader, c Cache, engine *search.Engine, ttl time.Duration, l *zap.Logger,
) *Service {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{repo: repo, options: options, cache: c, engine: engine, ttl: ttl, logger: l}
}

// TTL returns the response cache lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// List returns one page of profiles matching c. hit reports a cached response.
func (s *Service) List(ctx context.Context, c criteria.Criteria) (res ListResult, hit bool, err error) {
	key := cache.GenerateKey(cache.NamespaceAthletes, c.Params())
	if s.cache.GetJSON(ctx, key, &res) {
		return res, true, nil
	}

	pred, sort := filter.Build(c)
	pg := c.Page()
	offset, limit := page.Window(pg.Page, pg.PageSize)

	total, err := s.repo.CountAthletes(ctx, pred)
	if err != nil {
		return ListResult{}, false, fmt.Errorf("count athletes: %w: %w", domain.ErrStoreUnavailable, err)
	}
	rows, err := s.repo.FindAthletes(ctx, pred, sort, offset, limit)
	if err != nil {
		return ListResult{}, false, fmt.Errorf("find athletes: %w: %w", domain.ErrStoreUnavailable, err)
	}

	res = ListResult{
		Data:       projectPage(s.engine, rows, c.Text().Search),
		Pagination: paginationView(page.New(pg.Page, pg.PageSize, total)),
	}

	logger.FromContextOr(ctx, s.logger).Debug("Athletes listed",
		zap.Int("clauses", pred.Len()),
		zap.Int64("total", total),
		zap.Int("returned", len(rows)),
	)

	s.cache.SetJSON(ctx, key, res, s.ttl)
	return res, false, nil
}

// FilterOptions returns the filterable values. The five reads run concurrently.
func (s *Service) FilterOptions(ctx context.Context) (FilterOptionsView, bool, error) {
	var out FilterOptionsView
	if s.cache.GetJSON(ctx, cache.KeyFilters, &out) {
		return out, true, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		schools, err := s.options.Schools(gctx)
		if err != nil {
			return fmt.Errorf("schools: %w", err)
		}
		out.Schools = make([]SchoolOptionView, 0, len(schools))
		for _, v := range schools {
			out.Schools = append(out.Schools, SchoolOptionView{ID: v.ID, Label: v.Label, Conference: v.Conference})
		}
		return nil
	})
	g.Go(func() error {
		sports, err := s.options.Sports(gctx)
		if err != nil {
			return fmt.Errorf("sports: %w", err)
		}
		out.Sports = make([]SportOptionView, 0, len(sports))
		for _, v := range sports {
			out.Sports = append(out.Sports, SportOptionView{ID: v.ID, Label: v.Label})
		}
		return nil
	})
	g.Go(func() error {
		conferences, err := s.options.Conferences(gctx)
		if err != nil {
			return fmt.Errorf("conferences: %w", err)
		}
		out.Conferences = nonNil(conferences)
		return nil
	})
	g.Go(func() error {
		grades, err := s.options.Grades(gctx)
		if err != nil {
			return fmt.Errorf("grades: %w", err)
		}
		out.Grades = nonNil(grades)
		return nil
	})
	g.Go(func() error {
		categories, err := s.options.Categories(gctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		out.Categories = make([]CategoryOptionView, 0, len(categories))
		for _, v := range categories {
			out.Categories = append(out.Categories, CategoryOptionView{ID: v.ID, Name: v.Name})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return FilterOptionsView{}, false, fmt.Errorf("filter options: %w: %w", domain.ErrStoreUnavailable, err)
	}

	s.cache.SetJSON(ctx, cache.KeyFilters, out, s.ttl)
	return out, false, nil
}

// Stats returns roster counts and averages. Averages are 0 on an empty roster.
func (s *Service) Stats(ctx context.Context) (StatsView, bool, error) {
	var out StatsView
	if s.cache.GetJSON(ctx, cache.KeyStats, &out) {
		return out, true, nil
	}

	st, err := s.repo.Stats(ctx)
	if err != nil {
		return StatsView{}, false, fmt.Errorf("stats: %w: %w", domain.ErrStoreUnavailable, err)
	}
	out = StatsView{
		TotalAthletes:  st.TotalAthletes,
		ActiveAthletes: st.ActiveAthletes,
		AlumniAthletes: st.AlumniAthletes,
		AvgScore:       zeroIfNaN(st.AvgScore),
		AvgFollowers:   zeroIfNaN(st.AvgFollowers),
		AvgEngagement:  zeroIfNaN(st.AvgEngagement),
	}

	s.cache.SetJSON(ctx, cache.KeyStats, out, s.ttl)
	return out, false, nil
}

// InvalidateCache clears keys matching pattern, or every athlete-related entry when pattern is empty.
// Returns the applied pattern, "all" for a full invalidation.
func (s *Service) InvalidateCache(ctx context.Context, pattern string) (string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		s.cache.InvalidateAll(ctx)
		return "all", nil
	}
	if err := validatePattern(pattern); err != nil {
		return "", err
	}
	s.cache.InvalidatePattern(ctx, pattern)
	return pattern, nil
}

func validatePattern(pattern string) error {
	if len(pattern) > maxPatternLen {
		return fmt.Errorf("%w: longer than %d bytes", domain.ErrInvalidPattern, maxPatternLen)
	}
	for _, r := range pattern {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: contains whitespace or control characters", domain.ErrInvalidPattern)
		}
	}
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
