// Package filter builds the conjunctive query predicate of the athlete list.
package filter

import (
	"fmt"
	"slices"
	"time"
)

// Field names a filterable attribute of a profile or of a joined relation.
type Field string

// Profile attributes.
const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldGender   Field = "gender"
	FieldGrade    Field = "grade"
	FieldIsAlumni Field = "isAlumni"
	FieldIsActive Field = "isActive"
	FieldSchoolID Field = "schoolId"
	FieldAge      Field = "age"

	FieldScore          Field = "score"
	FieldTotalFollowers Field = "totalFollowers"
	FieldEngagementRate Field = "engagementRate"

	FieldEthnicityHispanic    Field = "ethnicityHispanic"
	FieldEthnicityWhite       Field = "ethnicityWhite"
	FieldEthnicityBlack       Field = "ethnicityBlack"
	FieldEthnicityAsian       Field = "ethnicityAsian"
	FieldAudienceGenderMale   Field = "audienceGenderMale"
	FieldAudienceGenderFemale Field = "audienceGenderFemale"
	FieldAudienceAge13To17    Field = "audienceAge13_17"
	FieldAudienceAge18To24    Field = "audienceAge18_24"
	FieldAudienceAge25To34    Field = "audienceAge25_34"
	FieldAudienceAge35To44    Field = "audienceAge35_44"
	FieldAudienceAge45Plus    Field = "audienceAge45Plus"
	FieldLocationUS           Field = "locationUs"
	FieldLocationMexico       Field = "locationMexico"
	FieldLocationCanada       Field = "locationCanada"

	FieldInstagramUsername    Field = "instagramUsername"
	FieldInstagramFollowers   Field = "instagramFollowers"
	FieldInstagramAvgLikes    Field = "instagramAvgLikes"
	FieldInstagramAvgComments Field = "instagramAvgComments"
	FieldTikTokUsername       Field = "tiktokUsername"
	FieldTikTokFollowers      Field = "tiktokFollowers"
	FieldTikTokAvgLikes       Field = "tiktokAvgLikes"
	FieldTikTokAvgComments    Field = "tiktokAvgComments"

	FieldCreatedAt Field = "createdAt"
	FieldUpdatedAt Field = "updatedAt"
)

// Joined relation attributes.
const (
	FieldSchoolName         Field = "school.name"
	FieldSchoolConference   Field = "school.conference"
	FieldSportID            Field = "sports.id"
	FieldCategoryID         Field = "categories.categoryId"
	FieldCategoryConfidence Field = "categories.confidenceScore"
)

// Kind is the shape of a clause.
type Kind int

// Clause kinds.
const (
	// KindContainsAny: case-insensitive substring of any of the fields.
	KindContainsAny Kind = iota + 1
	// KindEquals: field equals value.
	KindEquals
	// KindRange: inclusive numeric range.
	KindRange
	// KindTimeRange: inclusive timestamp range.
	KindTimeRange
	// KindSomeIn: at least one related row has field in values.
	KindSomeIn
	// KindSomeRange: at least one related row has field within range.
	KindSomeRange
	// KindPresent: field is not null.
	KindPresent
	// KindAbsent: field is null.
	KindAbsent
	// KindAll: every child clause holds.
	KindAll
)

func (k Kind) String() string {
	switch k {
	case KindContainsAny:
		return "contains_any"
	case KindEquals:
		return "eq"
	case KindRange:
		return "range"
	case KindTimeRange:
		return "time_range"
	case KindSomeIn:
		return "some_in"
	case KindSomeRange:
		return "some_range"
	case KindPresent:
		return "present"
	case KindAbsent:
		return "absent"
	case KindAll:
		return "all"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Bounds is an inclusive numeric range with optional ends.
type Bounds struct {
	GTE *float64
	LTE *float64
}

// TimeBounds is an inclusive timestamp range with optional ends.
type TimeBounds struct {
	GTE *time.Time
	LTE *time.Time
}

// Clause is one atomic condition of the predicate.
type Clause struct {
	kind     Kind
	fields   []Field
	value    any
	ints     []int
	bounds   Bounds
	times    TimeBounds
	children []Clause
}

// ContainsAny matches when term is a case-insensitive substring of any field.
func ContainsAny(term string, fields ...Field) Clause {
	return Clause{kind: KindContainsAny, fields: fields, value: term}
}

// Equals matches field == value.
func Equals(field Field, value any) Clause {
	return Clause{kind: KindEquals, fields: []Field{field}, value: value}
}

// InRange matches an inclusive numeric range.
func InRange(field Field, b Bounds) Clause {
	return Clause{kind: KindRange, fields: []Field{field}, bounds: b}
}

// InTimeRange matches an inclusive timestamp range.
func InTimeRange(field Field, b TimeBounds) Clause {
	return Clause{kind: KindTimeRange, fields: []Field{field}, times: b}
}

// SomeIn matches when at least one related row has field in ids.
func SomeIn(field Field, ids ...int) Clause {
	return Clause{kind: KindSomeIn, fields: []Field{field}, ints: slices.Clone(ids)}
}

// SomeInRange matches when at least one related row has field within b.
func SomeInRange(field Field, b Bounds) Clause {
	return Clause{kind: KindSomeRange, fields: []Field{field}, bounds: b}
}

// Present matches a non-null field.
func Present(field Field) Clause {
	return Clause{kind: KindPresent, fields: []Field{field}}
}

// Absent matches a null field.
func Absent(field Field) Clause {
	return Clause{kind: KindAbsent, fields: []Field{field}}
}

// All matches when every child matches.
func All(children ...Clause) Clause {
	return Clause{kind: KindAll, children: children}
}

// Kind returns the clause kind.
func (c Clause) Kind() Kind { return c.kind }

// Field returns the first field.
func (c Clause) Field() Field {
	if len(c.fields) == 0 {
		return ""
	}
	return c.fields[0]
}

// Fields returns every field of a ContainsAny clause.
func (c Clause) Fields() []Field { return c.fields }

// Value returns the equality value or the search term.
func (c Clause) Value() any { return c.value }

// IDs returns the membership set of a SomeIn clause.
func (c Clause) IDs() []int { return c.ints }

// Bounds returns the numeric range.
func (c Clause) Bounds() Bounds { return c.bounds }

// TimeBounds returns the timestamp range.
func (c Clause) TimeBounds() TimeBounds { return c.times }

// Children returns the sub-clauses of an All clause.
func (c Clause) Children() []Clause { return c.children }

// Predicate is an AND-list of clauses. The empty predicate matches every profile.
type Predicate struct {
	clauses []Clause
}

// And returns a predicate with c appended.
func (p Predicate) And(c Clause) Predicate {
	out := make([]Clause, len(p.clauses), len(p.clauses)+1)
	copy(out, p.clauses)
	return Predicate{clauses: append(out, c)}
}

// Clauses returns the clauses in build order.
func (p Predicate) Clauses() []Clause { return p.clauses }

// IsEmpty reports whether the predicate has no clauses.
func (p Predicate) IsEmpty() bool { return len(p.clauses) == 0 }

// Len returns the number of clauses.
func (p Predicate) Len() int { return len(p.clauses) }
