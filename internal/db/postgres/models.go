package postgres

import (
	"time"

	"github.com/kailas-cloud/athletedex/internal/domain/athlete"
)

// School is the schools table.
type School struct {
	ID         int    `gorm:"primaryKey"`
	Label      string `gorm:"not null"`
	Name       string `gorm:"not null;index"`
	State      string
	Conference string `gorm:"index"`
}

// Sport is the sports table.
type Sport struct {
	ID    int    `gorm:"primaryKey"`
	Label string `gorm:"not null"`
	Name  string `gorm:"not null"`
}

// Category is the categories table.
type Category struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex"`
}

// AthleteCategory links athletes to categories with a confidence score.
type AthleteCategory struct {
	AthleteID       int `gorm:"primaryKey"`
	CategoryID      int `gorm:"primaryKey;index"`
	ConfidenceScore float64
	Category        Category
}

// Athlete is the athletes table. Social and demographic columns are nullable.
type Athlete struct {
	ID          int    `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"`
	Email       string `gorm:"not null;uniqueIndex"`
	Gender      string `gorm:"index"`
	Grade       string `gorm:"index"`
	IsAlumni    bool   `gorm:"index"`
	IsActive    bool   `gorm:"index"`
	NeedsReview bool

	SchoolID   int `gorm:"index"`
	School     School
	Sports     []Sport `gorm:"many2many:athlete_sports;"`
	Categories []AthleteCategory

	Score                   float64 `gorm:"index"`
	TotalFollowers          int     `gorm:"index"`
	EngagementRate          float64
	AudienceQualityScore    *float64
	ContentPerformanceScore *float64

	InstagramUsername       *string  `gorm:"column:instagram_username"`
	InstagramUserID         *string  `gorm:"column:instagram_user_id"`
	InstagramFollowers      *int     `gorm:"column:instagram_followers"`
	InstagramFollowing      *int     `gorm:"column:instagram_following"`
	InstagramPosts          *int     `gorm:"column:instagram_posts"`
	InstagramEngagementRate *float64 `gorm:"column:instagram_engagement_rate"`
	InstagramAvgLikes       *int     `gorm:"column:instagram_avg_likes"`
	InstagramAvgComments    *int     `gorm:"column:instagram_avg_comments"`

	TikTokUsername       *string  `gorm:"column:tiktok_username"`
	TikTokUserID         *string  `gorm:"column:tiktok_user_id"`
	TikTokFollowers      *int     `gorm:"column:tiktok_followers"`
	TikTokFollowing      *int     `gorm:"column:tiktok_following"`
	TikTokPosts          *int     `gorm:"column:tiktok_posts"`
	TikTokEngagementRate *float64 `gorm:"column:tiktok_engagement_rate"`
	TikTokAvgLikes       *int     `gorm:"column:tiktok_avg_likes"`
	TikTokAvgComments    *int     `gorm:"column:tiktok_avg_comments"`

	Age      *int
	AgeRange *string

	EthnicityHispanic *float64
	EthnicityWhite    *float64
	EthnicityBlack    *float64
	EthnicityAsian    *float64
	EthnicityOther    *float64

	AudienceGenderMale   *float64
	AudienceGenderFemale *float64

	AudienceAge13To17 *float64 `gorm:"column:audience_age_13_17"`
	AudienceAge18To24 *float64 `gorm:"column:audience_age_18_24"`
	AudienceAge25To34 *float64 `gorm:"column:audience_age_25_34"`
	AudienceAge35To44 *float64 `gorm:"column:audience_age_35_44"`
	AudienceAge45Plus *float64 `gorm:"column:audience_age_45_plus"`

	LocationUS     *float64 `gorm:"column:location_us"`
	LocationMexico *float64 `gorm:"column:location_mexico"`
	LocationCanada *float64 `gorm:"column:location_canada"`
	LocationOther  *float64 `gorm:"column:location_other"`

	TopCities *string
	Interests *string

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`
}

// Models lists every table for migration.
func Models() []any {
	return []any{&School{}, &Sport{}, &Category{}, &Athlete{}, &AthleteCategory{}}
}

func (a *Athlete) toDomain() athlete.Profile {
	p := athlete.Profile{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Gender:      a.Gender,
		Grade:       a.Grade,
		IsAlumni:    a.IsAlumni,
		IsActive:    a.IsActive,
		NeedsReview: a.NeedsReview,
		School: athlete.School{
			ID:         a.School.ID,
			Label:      a.School.Label,
			Name:       a.School.Name,
			State:      a.School.State,
			Conference: a.School.Conference,
		},
		Performance: athlete.PerformanceScore{
			Score:                   a.Score,
			TotalFollowers:          a.TotalFollowers,
			EngagementRate:          a.EngagementRate,
			AudienceQualityScore:    a.AudienceQualityScore,
			ContentPerformanceScore: a.ContentPerformanceScore,
		},
		Instagram: account(a.InstagramUsername, a.InstagramUserID, a.InstagramFollowers, a.InstagramFollowing,
			a.InstagramPosts, a.InstagramEngagementRate, a.InstagramAvgLikes, a.InstagramAvgComments),
		TikTok: account(a.TikTokUsername, a.TikTokUserID, a.TikTokFollowers, a.TikTokFollowing,
			a.TikTokPosts, a.TikTokEngagementRate, a.TikTokAvgLikes, a.TikTokAvgComments),
		Demographics: athlete.Demographics{
			Age:                  a.Age,
			AgeRange:             a.AgeRange,
			EthnicityHispanic:    a.EthnicityHispanic,
			EthnicityWhite:       a.EthnicityWhite,
			EthnicityBlack:       a.EthnicityBlack,
			EthnicityAsian:       a.EthnicityAsian,
			EthnicityOther:       a.EthnicityOther,
			AudienceGenderMale:   a.AudienceGenderMale,
			AudienceGenderFemale: a.AudienceGenderFemale,
			AudienceAge13To17:    a.AudienceAge13To17,
			AudienceAge18To24:    a.AudienceAge18To24,
			AudienceAge25To34:    a.AudienceAge25To34,
			AudienceAge35To44:    a.AudienceAge35To44,
			AudienceAge45Plus:    a.AudienceAge45Plus,
			LocationUS:           a.LocationUS,
			LocationMexico:       a.LocationMexico,
			LocationCanada:       a.LocationCanada,
			LocationOther:        a.LocationOther,
			TopCities:            a.TopCities,
			Interests:            a.Interests,
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	p.Sports = make([]athlete.Sport, 0, len(a.Sports))
	for _, s := range a.Sports {
		p.Sports = append(p.Sports, athlete.Sport{ID: s.ID, Label: s.Label, Name: s.Name})
	}
	p.Categories = make([]athlete.CategoryAssignment, 0, len(a.Categories))
	for _, c := range a.Categories {
		p.Categories = append(p.Categories, athlete.CategoryAssignment{
			Category:        athlete.Category{ID: c.Category.ID, Name: c.Category.Name},
			ConfidenceScore: c.ConfidenceScore,
		})
	}
	return p
}

// account returns nil when the profile has no username on the platform.
func account(username, userID *string, followers, following, posts *int, rate *float64, likes, comments *int) *athlete.PlatformAccount {
	if username == nil || *username == "" {
		return nil
	}
	return &athlete.PlatformAccount{
		Username:       *username,
		UserID:         userID,
		Followers:      deref(followers),
		Following:      deref(following),
		Posts:          deref(posts),
		EngagementRate: deref(rate),
		AvgLikes:       deref(likes),
		AvgComments:    deref(comments),
	}
}

func deref[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
