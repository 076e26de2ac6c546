package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Segment is a piece of text, highlighted or not. Segments of one string cover it without gaps.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Span is an inclusive byte range [Start, End] of a string.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start + 1 }

func plain(text string) []Segment {
	return []Segment{{Text: text}}
}

// Highlight marks every case-insensitive occurrence of term in text.
// An empty term or no occurrence yields one plain segment with the whole text.
func Highlight(text, term string) []Segment {
	if term == "" || text == "" {
		return plain(text)
	}
	return HighlightSpans(text, literalSpans(text, term))
}

// literalSpans finds non-overlapping case-insensitive occurrences of term.
// Windows of text are compared rune by rune, so offsets stay valid when case
// mapping changes the byte length of a rune.
func literalSpans(text, term string) []Span {
	n := utf8.RuneCountInString(term)
	if n == 0 {
		return nil
	}

	var spans []Span
	for start := 0; start < len(text); {
		end, runes := start, 0
		for runes < n && end < len(text) {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
			runes++
		}
		if runes < n {
			break
		}
		if strings.EqualFold(text[start:end], term) {
			spans = append(spans, Span{Start: start, End: end - 1})
			start = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return spans
}

// HighlightSpans converts match spans into segments.
// Spans are sorted and overlapping or adjacent spans merged first; out-of-range spans are clipped.
func HighlightSpans(text string, spans []Span) []Segment {
	merged := mergeSpans(clip(spans, len(text)))
	if len(merged) == 0 {
		return plain(text)
	}

	segments := make([]Segment, 0, 2*len(merged)+1)
	last := 0
	for _, s := range merged {
		if s.Start > last {
			segments = append(segments, Segment{Text: text[last:s.Start]})
		}
		segments = append(segments, Segment{Text: text[s.Start : s.End+1], Highlighted: true})
		last = s.End + 1
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

func clip(spans []Span, n int) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End >= n {
			s.End = n - 1
		}
		if s.Start > s.End {
			continue
		}
		out = append(out, s)
	}
	return out
}

func mergeSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End+1 {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
