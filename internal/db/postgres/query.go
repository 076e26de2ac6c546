package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kailas-cloud/athletedex/internal/domain/athlete/filter"
)

// columns maps profile fields to athletes columns.
var columns = map[filter.Field]string{
	filter.FieldName:     "athletes.name",
	filter.FieldEmail:    "athletes.email",
	filter.FieldGender:   "athletes.gender",
	filter.FieldGrade:    "athletes.grade",
	filter.FieldIsAlumni: "athletes.is_alumni",
	filter.FieldIsActive: "athletes.is_active",
	filter.FieldSchoolID: "athletes.school_id",
	filter.FieldAge:      "athletes.age",

	filter.FieldScore:          "athletes.score",
	filter.FieldTotalFollowers: "athletes.total_followers",
	filter.FieldEngagementRate: "athletes.engagement_rate",

	filter.FieldEthnicityHispanic:    "athletes.ethnicity_hispanic",
	filter.FieldEthnicityWhite:       "athletes.ethnicity_white",
	filter.FieldEthnicityBlack:       "athletes.ethnicity_black",
	filter.FieldEthnicityAsian:       "athletes.ethnicity_asian",
	filter.FieldAudienceGenderMale:   "athletes.audience_gender_male",
	filter.FieldAudienceGenderFemale: "athletes.audience_gender_female",
	filter.FieldAudienceAge13To17:    "athletes.audience_age_13_17",
	filter.FieldAudienceAge18To24:    "athletes.audience_age_18_24",
	filter.FieldAudienceAge25To34:    "athletes.audience_age_25_34",
	filter.FieldAudienceAge35To44:    "athletes.audience_age_35_44",
	filter.FieldAudienceAge45Plus:    "athletes.audience_age_45_plus",
	filter.FieldLocationUS:           "athletes.location_us",
	filter.FieldLocationMexico:       "athletes.location_mexico",
	filter.FieldLocationCanada:       "athletes.location_canada",

	filter.FieldInstagramUsername:    "athletes.instagram_username",
	filter.FieldInstagramFollowers:   "athletes.instagram_followers",
	filter.FieldInstagramAvgLikes:    "athletes.instagram_avg_likes",
	filter.FieldInstagramAvgComments: "athletes.instagram_avg_comments",
	filter.FieldTikTokUsername:       "athletes.tiktok_username",
	filter.FieldTikTokFollowers:      "athletes.tiktok_followers",
	filter.FieldTikTokAvgLikes:       "athletes.tiktok_avg_likes",
	filter.FieldTikTokAvgComments:    "athletes.tiktok_avg_comments",

	filter.FieldCreatedAt: "athletes.created_at",
	filter.FieldUpdatedAt: "athletes.updated_at",
}

// Relation lookups. Each expects its condition appended and is closed by the caller.
const (
	schoolSubquery   = "athletes.school_id IN (SELECT schools.id FROM schools WHERE "
	sportExists      = "EXISTS (SELECT 1 FROM athlete_sports WHERE athlete_sports.athlete_id = athletes.id AND "
	categoryExists   = "EXISTS (SELECT 1 FROM athlete_categories WHERE athlete_categories.athlete_id = athletes.id AND "
	relationalSuffix = ")"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// applyPredicate adds one WHERE condition per clause.
func applyPredicate(tx *gorm.DB, p filter.Predicate) (*gorm.DB, error) {
	for _, c := range p.Clauses() {
		sql, args, err := clauseSQL(c)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(sql, args...)
	}
	return tx, nil
}

func clauseSQL(c filter.Clause) (string, []any, error) {
	switch c.Kind() {
	case filter.KindContainsAny:
		return containsSQL(c)
	case filter.KindEquals:
		return equalsSQL(c)
	case filter.KindRange:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		sql, args := boundsSQL(col, c.Bounds().GTE, c.Bounds().LTE)
		return sql, args, nil
	case filter.KindTimeRange:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		tb := c.TimeBounds()
		var parts []string
		var args []any
		if tb.GTE != nil {
			parts = append(parts, col+" >= ?")
			args = append(args, *tb.GTE)
		}
		if tb.LTE != nil {
			parts = append(parts, col+" <= ?")
			args = append(args, *tb.LTE)
		}
		return strings.Join(parts, " AND "), args, nil
	case filter.KindSomeIn:
		switch c.Field() {
		case filter.FieldSportID:
			return sportExists + "athlete_sports.sport_id IN ?" + relationalSuffix, []any{c.IDs()}, nil
		case filter.FieldCategoryID:
			return categoryExists + "athlete_categories.category_id IN ?" + relationalSuffix, []any{c.IDs()}, nil
		}
	case filter.KindSomeRange:
		if c.Field() == filter.FieldCategoryConfidence {
			sql, args := boundsSQL("athlete_categories.confidence_score", c.Bounds().GTE, c.Bounds().LTE)
			return categoryExists + sql + relationalSuffix, args, nil
		}
	case filter.KindPresent, filter.KindAbsent:
		col, err := column(c.Field())
		if err != nil {
			return "", nil, err
		}
		if c.Kind() == filter.KindPresent {
			return col + " IS NOT NULL", nil, nil
		}
		return col + " IS NULL", nil, nil
	case filter.KindAll:
		var parts []string
		var args []any
		for _, child := range c.Children() {
			sql, a, err := clauseSQL(child)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+sql+")")
			args = append(args, a...)
		}
		return strings.Join(parts, " AND "), args, nil
	}
	return "", nil, fmt.Errorf("unsupported clause %s on %q", c.Kind(), c.Field())
}

func containsSQL(c filter.Clause) (string, []any, error) {
	term, ok := c.Value().(string)
	if !ok {
		return "", nil, fmt.Errorf("contains clause needs a string term, got %T", c.Value())
	}
	pattern := containsPattern(term)

	parts := make([]string, 0, len(c.Fields()))
	args := make([]any, 0, len(c.Fields()))
	for _, f := range c.Fields() {
		if f == filter.FieldSchoolName {
			parts = append(parts, schoolSubquery+"schools.name ILIKE ?"+relationalSuffix)
		} else {
			col, err := column(f)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, col+" ILIKE ?")
		}
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, nil
}

func equalsSQL(c filter.Clause) (string, []any, error) {
	if c.Field() == filter.FieldSchoolConference {
		return schoolSubquery + "schools.conference = ?" + relationalSuffix, []any{c.Value()}, nil
	}
	col, err := column(c.Field())
	if err != nil {
		return "", nil, err
	}
	return col + " = ?", []any{c.Value()}, nil
}

func boundsSQL(col string, gte, lte *float64) (string, []any) {
	var parts []string
	var args []any
	if gte != nil {
		parts = append(parts, col+" >= ?")
		args = append(args, *gte)
	}
	if lte != nil {
		parts = append(parts, col+" <= ?")
		args = append(args, *lte)
	}
	return strings.Join(parts, " AND "), args
}

func column(f filter.Field) (string, error) {
	col, ok := columns[f]
	if !ok {
		return "", fmt.Errorf("unknown filter field %q", f)
	}
	return col, nil
}

// applySort orders by the sort column, then by id for stable pages.
func applySort(tx *gorm.DB, s filter.Sort) (*gorm.DB, error) {
	col, err := column(s.Field)
	if err != nil {
		return nil, err
	}
	return tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: col, Raw: true}, Desc: s.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "athletes.id", Raw: true}}), nil
}
