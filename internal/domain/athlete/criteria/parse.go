package criteria

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/athletedex/internal/domain"
)

// RangeField is the detail key of a min/max violation on the main performance ranges.
const RangeField = "rangeValidation"

// RangeMessage is the message of a min/max violation.
const RangeMessage = "Minimum values cannot be greater than maximum values"

const maxFollowers = "10000000"

// rawParams is the query-string shape. Every field is optional; bounds live in validate tags.
type rawParams struct {
	Search     *string `query:"search" validate:"omitempty,min=1,max=100"`
	Gender     *string `query:"gender" validate:"omitempty,oneof=Male Female"`
	Grade      *int    `query:"grade" validate:"omitempty,gte=1,lte=12"`
	IsAlumni   *bool   `query:"isAlumni"`
	IsActive   *bool   `query:"isActive"`
	Sport      *int    `query:"sport" validate:"omitempty,gt=0"`
	School     *int    `query:"school" validate:"omitempty,gt=0"`
	Conference *string `query:"conference" validate:"omitempty,max=50"`

	ScoreMin          *float64 `query:"scoreMin" validate:"omitempty,gte=0,lte=100"`
	ScoreMax          *float64 `query:"scoreMax" validate:"omitempty,gte=0,lte=100"`
	TotalFollowersMin *int     `query:"totalFollowersMin" validate:"omitempty,gte=0,lte=10000000"`
	TotalFollowersMax *int     `query:"totalFollowersMax" validate:"omitempty,gte=0,lte=10000000"`
	EngagementRateMin *float64 `query:"engagementRateMin" validate:"omitempty,gte=0,lte=100"`
	EngagementRateMax *float64 `query:"engagementRateMax" validate:"omitempty,gte=0,lte=100"`

	EthnicityHispanicMin    *float64 `query:"ethnicityHispanicMin" validate:"omitempty,gte=0,lte=100"`
	EthnicityHispanicMax    *float64 `query:"ethnicityHispanicMax" validate:"omitempty,gte=0,lte=100"`
	EthnicityWhiteMin       *float64 `query:"ethnicityWhiteMin" validate:"omitempty,gte=0,lte=100"`
	EthnicityWhiteMax       *float64 `query:"ethnicityWhiteMax" validate:"omitempty,gte=0,lte=100"`
	EthnicityBlackMin       *float64 `query:"ethnicityBlackMin" validate:"omitempty,gte=0,lte=100"`
	EthnicityBlackMax       *float64 `query:"ethnicityBlackMax" validate:"omitempty,gte=0,lte=100"`
	EthnicityAsianMin       *float64 `query:"ethnicityAsianMin" validate:"omitempty,gte=0,lte=100"`
	EthnicityAsianMax       *float64 `query:"ethnicityAsianMax" validate:"omitempty,gte=0,lte=100"`
	AudienceGenderMaleMin   *float64 `query:"audienceGenderMaleMin" validate:"omitempty,gte=0,lte=100"`
	AudienceGenderMaleMax   *float64 `query:"audienceGenderMaleMax" validate:"omitempty,gte=0,lte=100"`
	AudienceGenderFemaleMin *float64 `query:"audienceGenderFemaleMin" validate:"omitempty,gte=0,lte=100"`
	AudienceGenderFemaleMax *float64 `query:"audienceGenderFemaleMax" validate:"omitempty,gte=0,lte=100"`
	AudienceAge13To17Min    *float64 `query:"audienceAge13_17Min" validate:"omitempty,gte=0,lte=100"`
	AudienceAge13To17Max    *float64 `query:"audienceAge13_17Max" validate:"omitempty,gte=0,lte=100"`
	AudienceAge18To24Min    *float64 `query:"audienceAge18_24Min" validate:"omitempty,gte=0,lte=100"`
	AudienceAge18To24Max    *float64 `query:"audienceAge18_24Max" validate:"omitempty,gte=0,lte=100"`
	AudienceAge25To34Min    *float64 `query:"audienceAge25_34Min" validate:"omitempty,gte=0,lte=100"`
	AudienceAge25To34Max    *float64 `query:"audienceAge25_34Max" validate:"omitempty,gte=0,lte=100"`
	AudienceAge35To44Min    *float64 `query:"audienceAge35_44Min" validate:"omitempty,gte=0,lte=100"`
	AudienceAge35To44Max    *float64 `query:"audienceAge35_44Max" validate:"omitempty,gte=0,lte=100"`
	AudienceAge45PlusMin    *float64 `query:"audienceAge45PlusMin" validate:"omitempty,gte=0,lte=100"`
	AudienceAge45PlusMax    *float64 `query:"audienceAge45PlusMax" validate:"omitempty,gte=0,lte=100"`
	LocationUSMin           *float64 `query:"locationUsMin" validate:"omitempty,gte=0,lte=100"`
	LocationUSMax           *float64 `query:"locationUsMax" validate:"omitempty,gte=0,lte=100"`
	LocationMexicoMin       *float64 `query:"locationMexicoMin" validate:"omitempty,gte=0,lte=100"`
	LocationMexicoMax       *float64 `query:"locationMexicoMax" validate:"omitempty,gte=0,lte=100"`
	LocationCanadaMin       *float64 `query:"locationCanadaMin" validate:"omitempty,gte=0,lte=100"`
	LocationCanadaMax       *float64 `query:"locationCanadaMax" validate:"omitempty,gte=0,lte=100"`

	InstagramFollowersMin   *int `query:"instagramFollowersMin" validate:"omitempty,gte=0,lte=10000000"`
	InstagramFollowersMax   *int `query:"instagramFollowersMax" validate:"omitempty,gte=0,lte=10000000"`
	TikTokFollowersMin      *int `query:"tiktokFollowersMin" validate:"omitempty,gte=0,lte=10000000"`
	TikTokFollowersMax      *int `query:"tiktokFollowersMax" validate:"omitempty,gte=0,lte=10000000"`
	InstagramAvgLikesMin    *int `query:"instagramAvgLikesMin" validate:"omitempty,gte=0"`
	InstagramAvgLikesMax    *int `query:"instagramAvgLikesMax" validate:"omitempty,gte=0"`
	InstagramAvgCommentsMin *int `query:"instagramAvgCommentsMin" validate:"omitempty,gte=0"`
	InstagramAvgCommentsMax *int `query:"instagramAvgCommentsMax" validate:"omitempty,gte=0"`
	TikTokAvgLikesMin       *int `query:"tiktokAvgLikesMin" validate:"omitempty,gte=0"`
	TikTokAvgLikesMax       *int `query:"tiktokAvgLikesMax" validate:"omitempty,gte=0"`
	TikTokAvgCommentsMin    *int `query:"tiktokAvgCommentsMin" validate:"omitempty,gte=0"`
	TikTokAvgCommentsMax    *int `query:"tiktokAvgCommentsMax" validate:"omitempty,gte=0"`

	HasBothPlatforms *bool   `query:"hasBothPlatforms"`
	PlatformType     *string `query:"platformType" validate:"omitempty,oneof=instagram tiktok both"`

	CreatedAfter  *time.Time `query:"createdAfter"`
	CreatedBefore *time.Time `query:"createdBefore"`
	UpdatedAfter  *time.Time `query:"updatedAfter"`
	UpdatedBefore *time.Time `query:"updatedBefore"`

	CategoryIDs           *string  `query:"categoryIds"`
	CategoryConfidenceMin *float64 `query:"categoryConfidenceMin" validate:"omitempty,gte=0,lte=100"`
	CategoryConfidenceMax *float64 `query:"categoryConfidenceMax" validate:"omitempty,gte=0,lte=100"`

	Page      *int    `query:"page" validate:"omitempty,gte=1,lte=1000"`
	PageSize  *int    `query:"pageSize" validate:"omitempty,gte=1,lte=100"`
	SortBy    *string `query:"sortBy"`
	SortOrder *string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	return v
}

// Parse validates a query string into Criteria.
// Values are trimmed; empty values are treated as absent. Unknown keys are ignored.
// On failure the error is a *domain.ValidationError listing every rejected field.
func Parse(values url.Values) (Criteria, error) {
	clean := sanitize(values)
	ve := domain.NewValidationError()

	var raw rawParams
	bindAll(clean, &raw, ve)
	checkBounds(&raw, ve)

	ids := parseCategoryIDs(raw.CategoryIDs, ve)
	presence := resolvePresence(raw.HasBothPlatforms, raw.PlatformType, ve)
	checkOrdering(&raw, ve)

	if err := ve.OrNil(); err != nil {
		return Criteria{}, err
	}

	c := build(&raw, ids, presence)
	c.params = canonicalParams(&raw, ids, presence, c.page)
	return c, nil
}

// sanitize keeps the first value of each key, trimmed, dropping empties.
func sanitize(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := strings.TrimSpace(vs[0])
		if v == "" {
			continue
		}
		out.Set(k, v)
	}
	return out
}

var (
	boolType = reflect.TypeOf(true)
	intType  = reflect.TypeOf(0)
	timeType = reflect.TypeOf(time.Time{})
)

// bindAll converts every present query value into its rawParams field.
func bindAll(values url.Values, raw *rawParams, ve *domain.ValidationError) {
	rv := reflect.ValueOf(raw).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name := sf.Tag.Get("query")
		if !values.Has(name) {
			continue
		}
		field := rv.Field(i)
		elem := sf.Type.Elem()

		if elem == boolType {
			b, ok := parseStrictBool(values.Get(name))
			if !ok {
				ve.Add(name, "must be true or false")
				continue
			}
			field.Set(reflect.ValueOf(&b))
			continue
		}

		if err := runtime.BindQueryParameter("form", true, false, name, values, field.Addr().Interface()); err != nil {
			ve.Add(name, typeMessage(elem))
		}
	}
}

func parseStrictBool(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func typeMessage(t reflect.Type) string {
	switch t {
	case intType:
		return "must be an integer"
	case timeType:
		return "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	default:
		return "must be a number"
	}
}

// checkBounds runs tag validation, skipping fields that already failed to bind.
func checkBounds(raw *rawParams, ve *domain.ValidationError) {
	err := validate.Struct(raw)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.Add("query", err.Error())
		return
	}
	for _, fe := range verrs {
		if ve.Has(fe.Field()) {
			continue
		}
		ve.Add(fe.Field(), boundMessage(fe))
	}
}

func boundMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		if fe.Param() == maxFollowers {
			return "must be less than or equal to 10,000,000"
		}
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		if isString {
			return "must contain at least " + fe.Param() + " character(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return "must contain at most " + fe.Param() + " character(s)"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// parseCategoryIDs splits a comma-separated list of positive integers, dropping duplicates.
func parseCategoryIDs(s *string, ve *domain.ValidationError) []int {
	if s == nil {
		return nil
	}
	parts := strings.Split(*s, ",")
	ids := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id <= 0 {
			ve.Add("categoryIds", fmt.Sprintf("invalid category id %q: must be a positive integer", p))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 && !ve.Has("categoryIds") {
		ve.Add("categoryIds", "must contain at least one category id")
	}
	return ids
}

// resolvePresence folds hasBothPlatforms and platformType into one value.
func resolvePresence(hasBoth *bool, platformType *string, ve *domain.ValidationError) PlatformPresence {
	both := hasBoth != nil && *hasBoth
	if platformType == nil {
		if both {
			return PresenceBoth
		}
		return PresenceNone
	}
	switch *platformType {
	case "both":
		return PresenceBoth
	case "instagram":
		if both {
			ve.Add("platformType", "conflicts with hasBothPlatforms=true")
			return PresenceNone
		}
		return PresenceInstagramOnly
	case "tiktok":
		if both {
			ve.Add("platformType", "conflicts with hasBothPlatforms=true")
			return PresenceNone
		}
		return PresenceTikTokOnly
	default:
		// oneof already reported
		return PresenceNone
	}
}

// checkOrdering rejects every pair with min > max.
func checkOrdering(raw *rawParams, ve *domain.ValidationError) {
	primary := [][2]*float64{
		{raw.ScoreMin, raw.ScoreMax},
		{intf(raw.TotalFollowersMin), intf(raw.TotalFollowersMax)},
		{raw.EngagementRateMin, raw.EngagementRateMax},
	}
	for _, p := range primary {
		if inverted(p[0], p[1]) && !ve.Has(RangeField) {
			ve.Add(RangeField, RangeMessage)
		}
	}

	for _, p := range secondaryPairs(raw) {
		if inverted(p.min, p.max) {
			ve.Add(p.field, "must be less than or equal to "+p.maxField)
		}
	}

	timePairs := []struct {
		field, other  string
		after, before *time.Time
	}{
		{"createdAfter", "createdBefore", raw.CreatedAfter, raw.CreatedBefore},
		{"updatedAfter", "updatedBefore", raw.UpdatedAfter, raw.UpdatedBefore},
	}
	for _, p := range timePairs {
		if p.after != nil && p.before != nil && p.after.After(*p.before) {
			ve.Add(p.field, "must not be later than "+p.other)
		}
	}
}

type pair struct {
	field, maxField string
	min, max        *float64
}

func secondaryPairs(r *rawParams) []pair {
	return []pair{
		{"ethnicityHispanicMin", "ethnicityHispanicMax", r.EthnicityHispanicMin, r.EthnicityHispanicMax},
		{"ethnicityWhiteMin", "ethnicityWhiteMax", r.EthnicityWhiteMin, r.EthnicityWhiteMax},
		{"ethnicityBlackMin", "ethnicityBlackMax", r.EthnicityBlackMin, r.EthnicityBlackMax},
		{"ethnicityAsianMin", "ethnicityAsianMax", r.EthnicityAsianMin, r.EthnicityAsianMax},
		{"audienceGenderMaleMin", "audienceGenderMaleMax", r.AudienceGenderMaleMin, r.AudienceGenderMaleMax},
		{"audienceGenderFemaleMin", "audienceGenderFemaleMax", r.AudienceGenderFemaleMin, r.AudienceGenderFemaleMax},
		{"audienceAge13_17Min", "audienceAge13_17Max", r.AudienceAge13To17Min, r.AudienceAge13To17Max},
		{"audienceAge18_24Min", "audienceAge18_24Max", r.AudienceAge18To24Min, r.AudienceAge18To24Max},
		{"audienceAge25_34Min", "audienceAge25_34Max", r.AudienceAge25To34Min, r.AudienceAge25To34Max},
		{"audienceAge35_44Min", "audienceAge35_44Max", r.AudienceAge35To44Min, r.AudienceAge35To44Max},
		{"audienceAge45PlusMin", "audienceAge45PlusMax", r.AudienceAge45PlusMin, r.AudienceAge45PlusMax},
		{"locationUsMin", "locationUsMax", r.LocationUSMin, r.LocationUSMax},
		{"locationMexicoMin", "locationMexicoMax", r.LocationMexicoMin, r.LocationMexicoMax},
		{"locationCanadaMin", "locationCanadaMax", r.LocationCanadaMin, r.LocationCanadaMax},
		{"instagramFollowersMin", "instagramFollowersMax", intf(r.InstagramFollowersMin), intf(r.InstagramFollowersMax)},
		{"tiktokFollowersMin", "tiktokFollowersMax", intf(r.TikTokFollowersMin), intf(r.TikTokFollowersMax)},
		{"instagramAvgLikesMin", "instagramAvgLikesMax", intf(r.InstagramAvgLikesMin), intf(r.InstagramAvgLikesMax)},
		{"instagramAvgCommentsMin", "instagramAvgCommentsMax", intf(r.InstagramAvgCommentsMin), intf(r.InstagramAvgCommentsMax)},
		{"tiktokAvgLikesMin", "tiktokAvgLikesMax", intf(r.TikTokAvgLikesMin), intf(r.TikTokAvgLikesMax)},
		{"tiktokAvgCommentsMin", "tiktokAvgCommentsMax", intf(r.TikTokAvgCommentsMin), intf(r.TikTokAvgCommentsMax)},
		{"categoryConfidenceMin", "categoryConfidenceMax", r.CategoryConfidenceMin, r.CategoryConfidenceMax},
	}
}

func inverted(lo, hi *float64) bool {
	return lo != nil && hi != nil && *lo > *hi
}

func intf(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

func rng(lo, hi *float64) Range { return Range{Min: lo, Max: hi} }

func build(r *rawParams, ids []int, presence PlatformPresence) Criteria {
	c := Empty()

	if r.Search != nil {
		c.text.Search = *r.Search
	}

	c.roster = Roster{
		Grade:    r.Grade,
		IsAlumni: r.IsAlumni,
		IsActive: r.IsActive,
		Sport:    r.Sport,
		School:   r.School,
	}
	if r.Gender != nil {
		c.roster.Gender = *r.Gender
	}
	if r.Conference != nil {
		c.roster.Conference = *r.Conference
	}

	c.performance = Performance{
		Score:          rng(r.ScoreMin, r.ScoreMax),
		TotalFollowers: rng(intf(r.TotalFollowersMin), intf(r.TotalFollowersMax)),
		EngagementRate: rng(r.EngagementRateMin, r.EngagementRateMax),
	}

	c.demographics = Demographics{
		EthnicityHispanic:    rng(r.EthnicityHispanicMin, r.EthnicityHispanicMax),
		EthnicityWhite:       rng(r.EthnicityWhiteMin, r.EthnicityWhiteMax),
		EthnicityBlack:       rng(r.EthnicityBlackMin, r.EthnicityBlackMax),
		EthnicityAsian:       rng(r.EthnicityAsianMin, r.EthnicityAsianMax),
		AudienceGenderMale:   rng(r.AudienceGenderMaleMin, r.AudienceGenderMaleMax),
		AudienceGenderFemale: rng(r.AudienceGenderFemaleMin, r.AudienceGenderFemaleMax),
		AudienceAge13To17:    rng(r.AudienceAge13To17Min, r.AudienceAge13To17Max),
		AudienceAge18To24:    rng(r.AudienceAge18To24Min, r.AudienceAge18To24Max),
		AudienceAge25To34:    rng(r.AudienceAge25To34Min, r.AudienceAge25To34Max),
		AudienceAge35To44:    rng(r.AudienceAge35To44Min, r.AudienceAge35To44Max),
		AudienceAge45Plus:    rng(r.AudienceAge45PlusMin, r.AudienceAge45PlusMax),
		LocationUS:           rng(r.LocationUSMin, r.LocationUSMax),
		LocationMexico:       rng(r.LocationMexicoMin, r.LocationMexicoMax),
		LocationCanada:       rng(r.LocationCanadaMin, r.LocationCanadaMax),
	}

	c.platform = Platform{
		InstagramFollowers:   rng(intf(r.InstagramFollowersMin), intf(r.InstagramFollowersMax)),
		TikTokFollowers:      rng(intf(r.TikTokFollowersMin), intf(r.TikTokFollowersMax)),
		InstagramAvgLikes:    rng(intf(r.InstagramAvgLikesMin), intf(r.InstagramAvgLikesMax)),
		InstagramAvgComments: rng(intf(r.InstagramAvgCommentsMin), intf(r.InstagramAvgCommentsMax)),
		TikTokAvgLikes:       rng(intf(r.TikTokAvgLikesMin), intf(r.TikTokAvgLikesMax)),
		TikTokAvgComments:    rng(intf(r.TikTokAvgCommentsMin), intf(r.TikTokAvgCommentsMax)),
		Presence:             presence,
	}

	c.temporal = Temporal{
		Created: DateRange{After: r.CreatedAfter, Before: r.CreatedBefore},
		Updated: DateRange{After: r.UpdatedAfter, Before: r.UpdatedBefore},
	}

	c.categories = Categories{
		IDs:        ids,
		Confidence: rng(r.CategoryConfidenceMin, r.CategoryConfidenceMax),
	}

	if r.Page != nil {
		c.page.Page = *r.Page
	}
	if r.PageSize != nil {
		c.page.PageSize = *r.PageSize
	}
	if r.SortBy != nil {
		c.page.SortBy = *r.SortBy
	}
	if r.SortOrder != nil {
		c.page.SortOrder = SortOrder(*r.SortOrder)
	}
	return c
}

// canonicalParams renders every set field in a canonical textual form.
// hasBothPlatforms and platformType are replaced by the derived platformPresence.
func canonicalParams(r *rawParams, ids []int, presence PlatformPresence, p Page) map[string]string {
	out := make(map[string]string)
	rv := reflect.ValueOf(r).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		name := rt.Field(i).Tag.Get("query")
		field := rv.Field(i)
		if field.IsNil() {
			continue
		}
		switch name {
		case "hasBothPlatforms", "platformType", "categoryIds", "page", "pageSize", "sortBy", "sortOrder":
			continue
		}
		out[name] = formatValue(field.Elem().Interface())
	}

	if presence != PresenceNone {
		out["platformPresence"] = string(presence)
	}
	if len(ids) > 0 {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		out["categoryIds"] = strings.Join(parts, ",")
	}
	out["page"] = strconv.Itoa(p.Page)
	out["pageSize"] = strconv.Itoa(p.PageSize)
	out["sortBy"] = p.SortBy
	out["sortOrder"] = string(p.SortOrder)
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}
