package filter

import (
	"strconv"

	"github.com/kailas-cloud/athletedex/internal/domain/athlete/criteria"
)

// Step appends zero or one clause to p based on c.
type Step func(c criteria.Criteria, p Predicate) Predicate

type (
	perfRange  = func(criteria.Performance) criteria.Range
	demoRange  = func(criteria.Demographics) criteria.Range
	platRange  = func(criteria.Platform) criteria.Range
	dateRanges = func(criteria.Temporal) criteria.DateRange
)

// Pipeline is the fixed evaluation order of the builder.
var Pipeline = []Step{
	SearchStep,
	GenderStep,
	GradeStep,
	AlumniStep,
	ActiveStep,
	SchoolStep,
	SportStep,

	rangeStep(FieldScore, perf(func(p criteria.Performance) criteria.Range { return p.Score })),
	rangeStep(FieldTotalFollowers, perf(func(p criteria.Performance) criteria.Range { return p.TotalFollowers })),
	rangeStep(FieldEngagementRate, perf(func(p criteria.Performance) criteria.Range { return p.EngagementRate })),

	rangeStep(FieldEthnicityHispanic, demo(func(d criteria.Demographics) criteria.Range { return d.EthnicityHispanic })),
	rangeStep(FieldEthnicityWhite, demo(func(d criteria.Demographics) criteria.Range { return d.EthnicityWhite })),
	rangeStep(FieldEthnicityBlack, demo(func(d criteria.Demographics) criteria.Range { return d.EthnicityBlack })),
	rangeStep(FieldEthnicityAsian, demo(func(d criteria.Demographics) criteria.Range { return d.EthnicityAsian })),
	rangeStep(FieldAudienceGenderMale, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceGenderMale })),
	rangeStep(FieldAudienceGenderFemale, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceGenderFemale })),
	rangeStep(FieldAudienceAge13To17, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceAge13To17 })),
	rangeStep(FieldAudienceAge18To24, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceAge18To24 })),
	rangeStep(FieldAudienceAge25To34, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceAge25To34 })),
	rangeStep(FieldAudienceAge35To44, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceAge35To44 })),
	rangeStep(FieldAudienceAge45Plus, demo(func(d criteria.Demographics) criteria.Range { return d.AudienceAge45Plus })),
	rangeStep(FieldLocationUS, demo(func(d criteria.Demographics) criteria.Range { return d.LocationUS })),
	rangeStep(FieldLocationMexico, demo(func(d criteria.Demographics) criteria.Range { return d.LocationMexico })),
	rangeStep(FieldLocationCanada, demo(func(d criteria.Demographics) criteria.Range { return d.LocationCanada })),

	rangeStep(FieldInstagramFollowers, plat(func(p criteria.Platform) criteria.Range { return p.InstagramFollowers })),
	rangeStep(FieldTikTokFollowers, plat(func(p criteria.Platform) criteria.Range { return p.TikTokFollowers })),
	rangeStep(FieldInstagramAvgLikes, plat(func(p criteria.Platform) criteria.Range { return p.InstagramAvgLikes })),
	rangeStep(FieldInstagramAvgComments, plat(func(p criteria.Platform) criteria.Range { return p.InstagramAvgComments })),
	rangeStep(FieldTikTokAvgLikes, plat(func(p criteria.Platform) criteria.Range { return p.TikTokAvgLikes })),
	rangeStep(FieldTikTokAvgComments, plat(func(p criteria.Platform) criteria.Range { return p.TikTokAvgComments })),

	timeStep(FieldCreatedAt, func(t criteria.Temporal) criteria.DateRange { return t.Created }),
	timeStep(FieldUpdatedAt, func(t criteria.Temporal) criteria.DateRange { return t.Updated }),

	CategoryIDsStep,
	CategoryConfidenceStep,
	PlatformPresenceStep,
}

// Build runs the pipeline and resolves the sort.
func Build(c criteria.Criteria) (Predicate, Sort) {
	var p Predicate
	for _, step := range Pipeline {
		p = step(c, p)
	}
	return p, SortFor(c.Page())
}

// SearchStep matches the term against name, email and school name.
func SearchStep(c criteria.Criteria, p Predicate) Predicate {
	term := c.Text().Search
	if term == "" {
		return p
	}
	return p.And(ContainsAny(term, FieldName, FieldEmail, FieldSchoolName))
}

// GenderStep adds gender equality.
func GenderStep(c criteria.Criteria, p Predicate) Predicate {
	if g := c.Roster().Gender; g != "" {
		return p.And(Equals(FieldGender, g))
	}
	return p
}

// GradeStep adds grade equality. Grades are stored as text.
func GradeStep(c criteria.Criteria, p Predicate) Predicate {
	if g := c.Roster().Grade; g != nil {
		return p.And(Equals(FieldGrade, strconv.Itoa(*g)))
	}
	return p
}

// AlumniStep adds isAlumni equality.
func AlumniStep(c criteria.Criteria, p Predicate) Predicate {
	if v := c.Roster().IsAlumni; v != nil {
		return p.And(Equals(FieldIsAlumni, *v))
	}
	return p
}

// ActiveStep adds isActive equality.
func ActiveStep(c criteria.Criteria, p Predicate) Predicate {
	if v := c.Roster().IsActive; v != nil {
		return p.And(Equals(FieldIsActive, *v))
	}
	return p
}

// SchoolStep filters by school id, or by conference when no school is given.
func SchoolStep(c criteria.Criteria, p Predicate) Predicate {
	r := c.Roster()
	switch {
	case r.School != nil:
		return p.And(Equals(FieldSchoolID, *r.School))
	case r.Conference != "":
		return p.And(Equals(FieldSchoolConference, r.Conference))
	default:
		return p
	}
}

// SportStep requires the profile to play the sport.
func SportStep(c criteria.Criteria, p Predicate) Predicate {
	if s := c.Roster().Sport; s != nil {
		return p.And(SomeIn(FieldSportID, *s))
	}
	return p
}

func perf(f perfRange) func(criteria.Criteria) criteria.Range {
	return func(c criteria.Criteria) criteria.Range { return f(c.Performance()) }
}

func demo(f demoRange) func(criteria.Criteria) criteria.Range {
	return func(c criteria.Criteria) criteria.Range { return f(c.Demographics()) }
}

func plat(f platRange) func(criteria.Criteria) criteria.Range {
	return func(c criteria.Criteria) criteria.Range { return f(c.Platform()) }
}

func rangeStep(field Field, get func(criteria.Criteria) criteria.Range) Step {
	return func(c criteria.Criteria, p Predicate) Predicate {
		r := get(c)
		if !r.Active() {
			return p
		}
		return p.And(InRange(field, Bounds{GTE: r.Min, LTE: r.Max}))
	}
}

func timeStep(field Field, get dateRanges) Step {
	return func(c criteria.Criteria, p Predicate) Predicate {
		r := get(c.Temporal())
		if !r.Active() {
			return p
		}
		return p.And(InTimeRange(field, TimeBounds{GTE: r.After, LTE: r.Before}))
	}
}

// CategoryIDsStep requires at least one assignment to one of the categories.
func CategoryIDsStep(c criteria.Criteria, p Predicate) Predicate {
	ids := c.Categories().IDs
	if len(ids) == 0 {
		return p
	}
	return p.And(SomeIn(FieldCategoryID, ids...))
}

// CategoryConfidenceStep requires at least one assignment within the confidence range.
func CategoryConfidenceStep(c criteria.Criteria, p Predicate) Predicate {
	r := c.Categories().Confidence
	if !r.Active() {
		return p
	}
	return p.And(SomeInRange(FieldCategoryConfidence, Bounds{GTE: r.Min, LTE: r.Max}))
}

// PlatformPresenceStep restricts which social accounts must exist.
func PlatformPresenceStep(c criteria.Criteria, p Predicate) Predicate {
	switch c.Platform().Presence {
	case criteria.PresenceBoth:
		return p.And(All(Present(FieldInstagramUsername), Present(FieldTikTokUsername)))
	case criteria.PresenceInstagramOnly:
		return p.And(All(Present(FieldInstagramUsername), Absent(FieldTikTokUsername)))
	case criteria.PresenceTikTokOnly:
		return p.And(All(Present(FieldTikTokUsername), Absent(FieldInstagramUsername)))
	default:
		return p
	}
}
