package athletedex

import (
	"testing"
	"time"
)

func TestQuery_Values(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := NewQuery().
		Gender(GenderMale).
		Grade(11).
		Alumni(false).
		School(3).
		FollowersBetween(1000, 50000).
		Range("locationUs", 40, 100).
		PlatformType(PlatformBoth).
		CreatedBetween(after, time.Time{}).
		Page(2).
		SortBy(SortName, false)

	v := q.Values()
	want := map[string]string{
		"gender":            "Male",
		"grade":             "11",
		"isAlumni":          "false",
		"school":            "3",
		"totalFollowersMin": "1000",
		"totalFollowersMax": "50000",
		"locationUsMin":     "40",
		"locationUsMax":     "100",
		"platformType":      "both",
		"createdAfter":      "2024-01-01T00:00:00Z",
		"page":              "2",
		"sortBy":            "name",
		"sortOrder":         "asc",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
	if v.Has("createdBefore") {
		t.Error("zero bound must be omitted")
	}
	if len(v) != len(want) {
		t.Errorf("got %d params, want %d: %v", len(v), len(want), v)
	}
}

func TestQuery_ZeroValueAndCopy(t *testing.T) {
	var q Query
	q.Search("kim")
	v := q.Values()
	v.Set("search", "changed")
	if q.Values().Get("search") != "kim" {
		t.Error("Values must return a copy")
	}
}
