package athletedex

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Gender values.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Platform types for PlatformType.
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformBoth      = "both"
)

// Sort fields.
const (
	SortScore          = "score"
	SortFollowers      = "totalFollowers"
	SortEngagementRate = "engagementRate"
	SortName           = "name"
	SortAge            = "age"
)

// Query is a fluent builder for GET /athletes parameters.
// The zero value is usable; validation happens on the server.
type Query struct {
	values url.Values
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) set(key, value string) *Query {
	if q.values == nil {
		q.values = url.Values{}
	}
	q.values.Set(key, value)
	return q
}

func (q *Query) setFloat(key string, v float64) *Query {
	return q.set(key, strconv.FormatFloat(v, 'f', -1, 64))
}

func (q *Query) between(param string, lo, hi float64) *Query {
	q.setFloat(param+"Min", lo)
	return q.setFloat(param+"Max", hi)
}

// Set sets any raw parameter.
func (q *Query) Set(key, value string) *Query { return q.set(key, value) }

// Search sets the free text search term.
func (q *Query) Search(term string) *Query { return q.set("search", term) }

// Gender filters by gender.
func (q *Query) Gender(g string) *Query { return q.set("gender", g) }

// Grade filters by grade (1..12).
func (q *Query) Grade(g int) *Query { return q.set("grade", strconv.Itoa(g)) }

// Alumni filters by alumni status.
func (q *Query) Alumni(v bool) *Query { return q.set("isAlumni", strconv.FormatBool(v)) }

// Active filters by active status.
func (q *Query) Active(v bool) *Query { return q.set("isActive", strconv.FormatBool(v)) }

// School filters by school id.
func (q *Query) School(id int) *Query { return q.set("school", strconv.Itoa(id)) }

// Sport filters by sport id.
func (q *Query) Sport(id int) *Query { return q.set("sport", strconv.Itoa(id)) }

// Conference filters by school conference.
func (q *Query) Conference(c string) *Query { return q.set("conference", c) }

// ScoreBetween bounds the performance score.
func (q *Query) ScoreBetween(lo, hi float64) *Query { return q.between("score", lo, hi) }

// FollowersBetween bounds the total follower count.
func (q *Query) FollowersBetween(lo, hi int) *Query {
	return q.between("totalFollowers", float64(lo), float64(hi))
}

// EngagementBetween bounds the engagement rate.
func (q *Query) EngagementBetween(lo, hi float64) *Query { return q.between("engagementRate", lo, hi) }

// Range bounds any numeric filter by its parameter prefix, e.g. "locationUs" or "instagramFollowers".
func (q *Query) Range(param string, lo, hi float64) *Query { return q.between(param, lo, hi) }

// CategoryIDs filters by any of the content categories.
func (q *Query) CategoryIDs(ids ...int) *Query {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return q.set("categoryIds", strings.Join(parts, ","))
}

// PlatformType requires accounts on the given platform.
func (q *Query) PlatformType(p string) *Query { return q.set("platformType", p) }

// CreatedBetween bounds the creation timestamp. A zero bound is left open.
func (q *Query) CreatedBetween(after, before time.Time) *Query {
	return q.timeRange("created", after, before)
}

// UpdatedBetween bounds the update timestamp. A zero bound is left open.
func (q *Query) UpdatedBetween(after, before time.Time) *Query {
	return q.timeRange("updated", after, before)
}

func (q *Query) timeRange(prefix string, after, before time.Time) *Query {
	if !after.IsZero() {
		q.set(prefix+"After", after.UTC().Format(time.RFC3339))
	}
	if !before.IsZero() {
		q.set(prefix+"Before", before.UTC().Format(time.RFC3339))
	}
	return q
}

// Page selects the 1-based page.
func (q *Query) Page(n int) *Query { return q.set("page", strconv.Itoa(n)) }

// PageSize sets the page size (1..100).
func (q *Query) PageSize(n int) *Query { return q.set("pageSize", strconv.Itoa(n)) }

// SortBy sets the sort field and direction.
func (q *Query) SortBy(field string, desc bool) *Query {
	q.set("sortBy", field)
	if desc {
		return q.set("sortOrder", "desc")
	}
	return q.set("sortOrder", "asc")
}

// Values returns a copy of the encoded parameters.
func (q *Query) Values() url.Values {
	out := make(url.Values, len(q.values))
	for k, v := range q.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
