// Package criteria holds the validated, request-scoped filter of the athlete list.
package criteria

import (
	"slices"
	"strconv"
	"time"
)

// Pagination and sort defaults.
const (
	DefaultPage      = 1
	MaxPage          = 1000
	DefaultPageSize  = 20
	MaxPageSize      = 100
	DefaultSortBy    = "score"
	DefaultSortOrder = SortDesc
)

// SortOrder is asc or desc.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PlatformPresence restricts which social accounts a profile must have.
// PresenceNone places no restriction.
type PlatformPresence string

// Platform presence values.
const (
	PresenceNone          PlatformPresence = "none"
	PresenceInstagramOnly PlatformPresence = "instagramOnly"
	PresenceTikTokOnly    PlatformPresence = "tiktokOnly"
	PresenceBoth          PlatformPresence = "both"
)

// Range is an inclusive numeric range. Either bound may be absent.
type Range struct {
	Min *float64
	Max *float64
}

// Active reports whether at least one bound is set.
func (r Range) Active() bool { return r.Min != nil || r.Max != nil }

// DateRange is an inclusive time range. Either bound may be absent.
type DateRange struct {
	After  *time.Time
	Before *time.Time
}

// Active reports whether at least one bound is set.
func (r DateRange) Active() bool { return r.After != nil || r.Before != nil }

// Text holds the free-text search term (trimmed, never empty when set).
type Text struct {
	Search string
}

// Roster holds categorical filters.
type Roster struct {
	Gender     string
	Grade      *int
	IsAlumni   *bool
	IsActive   *bool
	Sport      *int
	School     *int
	Conference string
}

// Performance holds score ranges.
type Performance struct {
	Score          Range
	TotalFollowers Range
	EngagementRate Range
}

// Demographics holds audience percentage ranges.
type Demographics struct {
	EthnicityHispanic Range
	EthnicityWhite    Range
	EthnicityBlack    Range
	EthnicityAsian    Range

	AudienceGenderMale   Range
	AudienceGenderFemale Range

	AudienceAge13To17 Range
	AudienceAge18To24 Range
	AudienceAge25To34 Range
	AudienceAge35To44 Range
	AudienceAge45Plus Range

	LocationUS     Range
	LocationMexico Range
	LocationCanada Range
}

// Platform holds social account filters.
type Platform struct {
	InstagramFollowers   Range
	TikTokFollowers      Range
	InstagramAvgLikes    Range
	InstagramAvgComments Range
	TikTokAvgLikes       Range
	TikTokAvgComments    Range
	Presence             PlatformPresence
}

// Temporal holds record timestamp ranges.
type Temporal struct {
	Created DateRange
	Updated DateRange
}

// Categories holds content category filters.
type Categories struct {
	IDs        []int
	Confidence Range
}

// Page holds pagination and sort.
type Page struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder SortOrder
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return (p.Page - 1) * p.PageSize }

// Criteria is the immutable, validated filter of one list request.
type Criteria struct {
	text         Text
	roster       Roster
	performance  Performance
	demographics Demographics
	platform     Platform
	temporal     Temporal
	categories   Categories
	page         Page
	params       map[string]string
}

// Empty returns criteria without filters and with default pagination.
func Empty() Criteria {
	return Criteria{
		platform: Platform{Presence: PresenceNone},
		page: Page{
			Page:      DefaultPage,
			PageSize:  DefaultPageSize,
			SortBy:    DefaultSortBy,
			SortOrder: DefaultSortOrder,
		},
		params: defaultParams(),
	}
}

// Text returns the text search filter.
func (c Criteria) Text() Text { return c.text }

// Roster returns the categorical filters.
func (c Criteria) Roster() Roster { return c.roster }

// Performance returns the score ranges.
func (c Criteria) Performance() Performance { return c.performance }

// Demographics returns the audience ranges.
func (c Criteria) Demographics() Demographics { return c.demographics }

// Platform returns the social account filters.
func (c Criteria) Platform() Platform { return c.platform }

// Temporal returns the timestamp ranges.
func (c Criteria) Temporal() Temporal { return c.temporal }

// Categories returns the category filters. The ID slice is a copy.
func (c Criteria) Categories() Categories {
	out := c.categories
	out.IDs = slices.Clone(c.categories.IDs)
	return out
}

// Page returns pagination and sort.
func (c Criteria) Page() Page { return c.page }

// Params returns the normalized parameter bag, suitable for cache keys.
// Equal criteria produce equal bags regardless of input order or number formatting.
func (c Criteria) Params() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

func defaultParams() map[string]string {
	return map[string]string{
		"page":      strconv.Itoa(DefaultPage),
		"pageSize":  strconv.Itoa(DefaultPageSize),
		"sortBy":    DefaultSortBy,
		"sortOrder": string(DefaultSortOrder),
	}
}
