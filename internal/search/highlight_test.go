package search

import (
	"reflect"
	"strings"
	"testing"
)

func join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		want []Segment
	}{
		{
			name: "prefix match",
			text: "John Smith",
			term: "John",
			want: []Segment{{Text: "John", Highlighted: true}, {Text: " Smith"}},
		},
		{
			name: "case insensitive",
			text: "John Smith",
			term: "smith",
			want: []Segment{{Text: "John "}, {Text: "Smith", Highlighted: true}},
		},
		{
			name: "no match",
			text: "John Smith",
			term: "xyz",
			want: []Segment{{Text: "John Smith"}},
		},
		{
			name: "empty term",
			text: "John Smith",
			term: "",
			want: []Segment{{Text: "John Smith"}},
		},
		{
			name: "empty text",
			text: "",
			term: "jo",
			want: []Segment{{Text: ""}},
		},
		{
			name: "multiple occurrences",
			text: "Anna Annabel",
			term: "an",
			want: []Segment{
				{Text: "An", Highlighted: true},
				{Text: "na "},
				{Text: "An", Highlighted: true},
				{Text: "nabel"},
			},
		},
		{
			name: "case mapping changes byte length",
			text: "İlkay Smith",
			term: "smith",
			want: []Segment{{Text: "İlkay "}, {Text: "Smith", Highlighted: true}},
		},
		{
			name: "kelvin sign folds to k",
			text: "\u212aim Lee",
			term: "kim",
			want: []Segment{{Text: "\u212aim", Highlighted: true}, {Text: " Lee"}},
		},
		{
			name: "term longer than text",
			text: "Jo",
			term: "john",
			want: []Segment{{Text: "Jo"}},
		},
		{
			name: "whole text",
			text: "Ohio",
			term: "OHIO",
			want: []Segment{{Text: "Ohio", Highlighted: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.text, tt.term)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Highlight(%q, %q) = %+v, want %+v", tt.text, tt.term, got, tt.want)
			}
			if join(got) != tt.text {
				t.Errorf("segments join to %q, want %q", join(got), tt.text)
			}
		})
	}
}

func TestHighlightSpans_MergesOverlapping(t *testing.T) {
	got := HighlightSpans("abcdefgh", []Span{{Start: 4, End: 5}, {Start: 1, End: 2}, {Start: 2, End: 3}})
	want := []Segment{
		{Text: "a"},
		{Text: "bcdef", Highlighted: true},
		{Text: "gh"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHighlightSpans_ClipsOutOfRange(t *testing.T) {
	got := HighlightSpans("abc", []Span{{Start: -3, End: 0}, {Start: 2, End: 10}, {Start: 7, End: 9}})
	want := []Segment{
		{Text: "a", Highlighted: true},
		{Text: "b"},
		{Text: "c", Highlighted: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHighlightSpans_NoSpans(t *testing.T) {
	got := HighlightSpans("abc", nil)
	if len(got) != 1 || got[0].Highlighted || got[0].Text != "abc" {
		t.Fatalf("got %+v, want one plain segment", got)
	}
}

func TestHighlight_NoAdjacentPlainSegments(t *testing.T) {
	segs := Highlight("mississippi", "ss")
	for i := 1; i < len(segs); i++ {
		if !segs[i-1].Highlighted && !segs[i].Highlighted {
			t.Fatalf("adjacent plain segments at %d: %+v", i, segs)
		}
	}
	if join(segs) != "mississippi" {
		t.Fatalf("join = %q", join(segs))
	}
}
