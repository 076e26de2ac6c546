package athlete

import (
	"context"
	"time"

	domathlete "github.com/kailas-cloud/athletedex/internal/domain/athlete"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/filter"
)

// Repository reads profiles and aggregates from the relational store.
type Repository interface {
	FindAthletes(
		ctx context.Context, p filter.Predicate, sort filter.Sort, offset, limit int,
	) ([]domathlete.Profile, error)
	CountAthletes(ctx context.Context, p filter.Predicate) (int64, error)
	Stats(ctx context.Context) (domathlete.Stats, error)
}

// OptionsReader reads the filterable value lists.
type OptionsReader interface {
	Schools(ctx context.Context) ([]domathlete.SchoolOption, error)
	Sports(ctx context.Context) ([]domathlete.SportOption, error)
	Conferences(ctx context.Context) ([]string, error)
	Grades(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]domathlete.Category, error)
}

// Cache stores serialized responses. Implementations swallow store failures.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	InvalidateAll(ctx context.Context)
	InvalidatePattern(ctx context.Context, pattern string)
}
