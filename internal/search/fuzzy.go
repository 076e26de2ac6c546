// Package search ranks athlete documents by approximate match and produces highlight segments.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Field identifies a searchable document field.
type Field string

// Searchable fields.
const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldSchool     Field = "school.name"
	FieldSports     Field = "sports.name"
	FieldCategories Field = "categories.category.name"
)

// Defaults.
const (
	DefaultThreshold      = 0.3
	DefaultMinMatchLength = 2
	DefaultLimit          = 50
)

// weights rank fields: name, then school, then email, then sports and categories.
var weights = []struct {
	field  Field
	weight float64
}{
	{FieldName, 0.7},
	{FieldSchool, 0.6},
	{FieldEmail, 0.5},
	{FieldSports, 0.4},
	{FieldCategories, 0.3},
}

// Document is the searchable projection of a profile.
type Document struct {
	Name       string
	Email      string
	School     string
	Sports     []string
	Categories []string
}

func (d Document) values(f Field) []string {
	switch f {
	case FieldName:
		return []string{d.Name}
	case FieldEmail:
		return []string{d.Email}
	case FieldSchool:
		return []string{d.School}
	case FieldSports:
		return d.Sports
	case FieldCategories:
		return d.Categories
	default:
		return nil
	}
}

// FieldMatch is a matched field with its highlight spans.
// Value is the matched text (one element for list fields).
type FieldMatch struct {
	Field Field
	Value string
	Score float64
	Spans []Span
}

// Result is a ranked document match.
// Score is 0 for a perfect match and grows towards 1 as the match degrades.
type Result struct {
	Index     int
	Score     float64
	Relevance int
	Matches   []FieldMatch
}

// Match returns the match of field f, if any.
func (r Result) Match(f Field) (FieldMatch, bool) {
	for _, m := range r.Matches {
		if m.Field == f {
			return m, true
		}
	}
	return FieldMatch{}, false
}

// Options tune the engine. Zero values take the defaults.
type Options struct {
	Threshold      float64
	MinMatchLength int
	Limit          int
}

// Engine performs weighted approximate matching.
type Engine struct {
	threshold      float64
	minMatchLength int
	limit          int
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		threshold:      opts.Threshold,
		minMatchLength: opts.MinMatchLength,
		limit:          opts.Limit,
	}
	if e.threshold <= 0 {
		e.threshold = DefaultThreshold
	}
	if e.minMatchLength <= 0 {
		e.minMatchLength = DefaultMinMatchLength
	}
	if e.limit <= 0 {
		e.limit = DefaultLimit
	}
	return e
}

// Search ranks docs against term. Terms shorter than the minimum match length yield nothing.
// limit <= 0 uses the engine default.
func (e *Engine) Search(docs []Document, term string, limit int) []Result {
	term = strings.TrimSpace(term)
	if !e.searchable(term) {
		return nil
	}
	if limit <= 0 {
		limit = e.limit
	}

	results := make([]Result, 0, len(docs))
	for i, d := range docs {
		r, ok := e.match(d, term)
		if !ok {
			continue
		}
		r.Index = i
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (e *Engine) searchable(term string) bool {
	return utf8.RuneCountInString(term) >= e.minMatchLength
}

func (e *Engine) match(d Document, term string) (Result, bool) {
	var (
		matches []FieldMatch
		best    = 1.0
	)
	for _, w := range weights {
		fm, ok := e.matchField(d.values(w.field), term)
		if !ok {
			continue
		}
		fm.Field = w.field
		matches = append(matches, fm)

		// Heavier fields pull the document score further towards 0.
		weighted := 1 - (1-fm.Score)*w.weight/weights[0].weight
		if weighted < best {
			best = weighted
		}
	}
	if len(matches) == 0 {
		return Result{}, false
	}
	return Result{Score: best, Relevance: Relevance(d, term), Matches: matches}, true
}

// matchField returns the best match among values, literal occurrences first.
func (e *Engine) matchField(values []string, term string) (FieldMatch, bool) {
	var (
		best  FieldMatch
		found bool
	)
	for _, v := range values {
		fm, ok := e.matchValue(v, term)
		if !ok {
			continue
		}
		if !found || fm.Score < best.Score {
			best, found = fm, true
		}
	}
	return best, found
}

func (e *Engine) matchValue(value, term string) (FieldMatch, bool) {
	if value == "" {
		return FieldMatch{}, false
	}
	if spans := literalSpans(value, term); len(spans) > 0 {
		return FieldMatch{Value: value, Score: 0, Spans: e.keepLong(spans)}, true
	}

	found := fuzzy.Find(term, []string{value})
	if len(found) == 0 {
		return FieldMatch{}, false
	}
	idx := found[0].MatchedIndexes
	if len(idx) == 0 {
		return FieldMatch{}, false
	}

	// Compactness: matched runes over the width they are spread across.
	width := idx[len(idx)-1] - idx[0] + 1
	score := 1 - float64(len(idx))/float64(width)
	if score > e.threshold {
		return FieldMatch{}, false
	}
	return FieldMatch{Value: value, Score: score, Spans: e.keepLong(runs(value, idx))}, true
}

// runs groups matched byte offsets into contiguous spans.
func runs(value string, idx []int) []Span {
	var spans []Span
	for _, i := range idx {
		_, size := utf8.DecodeRuneInString(value[i:])
		end := i + size - 1
		if n := len(spans); n > 0 && spans[n-1].End+1 == i {
			spans[n-1].End = end
			continue
		}
		spans = append(spans, Span{Start: i, End: end})
	}
	return spans
}

// keepLong drops spans shorter than the minimum match length.
func (e *Engine) keepLong(spans []Span) []Span {
	out := spans[:0:0]
	for _, s := range spans {
		if s.Len() >= e.minMatchLength {
			out = append(out, s)
		}
	}
	return out
}

// Relevance scores literal containment: whole term on name/email/school adds 10/8/6,
// each word of two or more characters adds 3/2/2.
func Relevance(d Document, term string) int {
	term = strings.ToLower(term)
	name, email, school := strings.ToLower(d.Name), strings.ToLower(d.Email), strings.ToLower(d.School)

	score := 0
	if strings.Contains(name, term) {
		score += 10
	}
	if strings.Contains(email, term) {
		score += 8
	}
	if strings.Contains(school, term) {
		score += 6
	}
	for _, w := range strings.Fields(term) {
		if len(w) < 2 {
			continue
		}
		if strings.Contains(name, w) {
			score += 3
		}
		if strings.Contains(email, w) {
			score += 2
		}
		if strings.Contains(school, w) {
			score += 2
		}
	}
	return score
}
