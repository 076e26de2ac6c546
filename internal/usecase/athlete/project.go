package athlete

import (
	"math"

	domathlete "github.com/kailas-cloud/athletedex/internal/domain/athlete"
	"github.com/kailas-cloud/athletedex/internal/domain/athlete/page"
	"github.com/kailas-cloud/athletedex/internal/metrics"
	"github.com/kailas-cloud/athletedex/internal/search"
)

// Project converts a profile to its wire shape without highlights.
func Project(p *domathlete.Profile) AthleteView {
	v := AthleteView{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Gender:      p.Gender,
		IsAlumni:    p.IsAlumni,
		Grade:       p.Grade,
		IsActive:    p.IsActive,
		NeedsReview: p.NeedsReview,
		School: SchoolView{
			ID:         p.School.ID,
			Label:      p.School.Label,
			Name:       p.School.Name,
			State:      p.School.State,
			Conference: p.School.Conference,
		},
		CurrentScore: ScoreView{
			Score:                   p.Performance.Score,
			TotalFollowers:          p.Performance.TotalFollowers,
			EngagementRate:          p.Performance.EngagementRate,
			AudienceQualityScore:    p.Performance.AudienceQualityScore,
			ContentPerformanceScore: p.Performance.ContentPerformanceScore,
		},
		Platforms: PlatformsView{
			Instagram: platform(p.Instagram),
			TikTok:    platform(p.TikTok),
		},
		Demographics: demographics(&p.Demographics),
	}

	v.Sports = make([]SportView, 0, len(p.Sports))
	for _, s := range p.Sports {
		v.Sports = append(v.Sports, SportView{ID: s.ID, Label: s.Label, Name: s.Name})
	}
	v.Categories = make([]CategoryView, 0, len(p.Categories))
	for _, c := range p.Categories {
		v.Categories = append(v.Categories, CategoryView{
			ID:              c.Category.ID,
			Name:            c.Category.Name,
			ConfidenceScore: c.ConfidenceScore,
		})
	}
	return v
}

func platform(a *domathlete.PlatformAccount) *PlatformView {
	if a == nil || a.Username == "" {
		return nil
	}
	return &PlatformView{Username: a.Username, Followers: a.Followers, EngagementRate: a.EngagementRate}
}

func demographics(d *domathlete.Demographics) DemographicsView {
	return DemographicsView{
		Age:      d.Age,
		AgeRange: d.AgeRange,
		Ethnicity: EthnicityView{
			Hispanic: d.EthnicityHispanic,
			White:    d.EthnicityWhite,
			Black:    d.EthnicityBlack,
			Asian:    d.EthnicityAsian,
			Other:    d.EthnicityOther,
		},
		AudienceGender: AudienceGenderView{
			Male:   d.AudienceGenderMale,
			Female: d.AudienceGenderFemale,
		},
		AudienceAge: AudienceAgeView{
			Age13To17: d.AudienceAge13To17,
			Age18To24: d.AudienceAge18To24,
			Age25To34: d.AudienceAge25To34,
			Age35To44: d.AudienceAge35To44,
			Age45Plus: d.AudienceAge45Plus,
		},
		Location: LocationView{
			US:     d.LocationUS,
			Mexico: d.LocationMexico,
			Canada: d.LocationCanada,
			Other:  d.LocationOther,
		},
	}
}

func document(p *domathlete.Profile) search.Document {
	return search.Document{
		Name:       p.Name,
		Email:      p.Email,
		School:     p.School.Name,
		Sports:     p.SportNames(),
		Categories: p.CategoryNames(),
	}
}

// projectPage converts one page of profiles and highlights name, email and school
// against term. Rows keep the store order.
func projectPage(engine *search.Engine, rows []domathlete.Profile, term string) []AthleteView {
	out := make([]AthleteView, len(rows))
	for i := range rows {
		out[i] = Project(&rows[i])
	}
	if term == "" || engine == nil || len(rows) == 0 {
		return out
	}

	docs := make([]search.Document, len(rows))
	for i := range rows {
		docs[i] = document(&rows[i])
	}

	matched := 0
	for _, r := range engine.Search(docs, term, len(docs)) {
		v := &out[r.Index]
		if m, ok := r.Match(search.FieldName); ok {
			v.HighlightedName = search.HighlightSpans(m.Value, m.Spans)
		}
		if m, ok := r.Match(search.FieldEmail); ok {
			v.HighlightedEmail = search.HighlightSpans(m.Value, m.Spans)
		}
		if m, ok := r.Match(search.FieldSchool); ok {
			v.HighlightedSchool = search.HighlightSpans(m.Value, m.Spans)
		}
		matched++
	}
	metrics.SearchMatchesTotal.WithLabelValues("matched").Add(float64(matched))
	metrics.SearchMatchesTotal.WithLabelValues("unmatched").Add(float64(len(rows) - matched))
	return out
}

func paginationView(info page.Info) PaginationView {
	return PaginationView{
		Page:       info.Page,
		PageSize:   info.PageSize,
		Total:      info.Total,
		TotalPages: info.TotalPages,
		HasNext:    info.HasNext,
		HasPrev:    info.HasPrev,
	}
}

// zeroIfNaN keeps averages JSON-encodable.
func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
