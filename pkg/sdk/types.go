package athletedex

import (
	"time"

	"github.com/kailas-cloud/athletedex/internal/search"
	athleteuc "github.com/kailas-cloud/athletedex/internal/usecase/athlete"
)

// Wire types shared with the server.
type (
	Athlete       = athleteuc.AthleteView
	School        = athleteuc.SchoolView
	Sport         = athleteuc.SportView
	Score         = athleteuc.ScoreView
	Platforms     = athleteuc.PlatformsView
	Platform      = athleteuc.PlatformView
	Demographics  = athleteuc.DemographicsView
	Category      = athleteuc.CategoryView
	Pagination    = athleteuc.PaginationView
	ListResult    = athleteuc.ListResult
	FilterOptions = athleteuc.FilterOptionsView
	Stats         = athleteuc.StatsView
	Segment       = search.Segment
)

// Meta carries response headers of a read.
type Meta struct {
	// CacheHit reports X-Cache: HIT.
	CacheHit  bool
	RateLimit RateLimit
	RequestID string
}

// RateLimit mirrors the X-RateLimit-* headers. Zero when the server does not limit the route.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok" or "degraded"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

// Healthy reports an "ok" status.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }
