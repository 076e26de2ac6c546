package athlete

import "github.com/kailas-cloud/athletedex/internal/search"

// AthleteView is the wire shape of a profile.
type AthleteView struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Gender       string           `json:"gender"`
	IsAlumni     bool             `json:"isAlumni"`
	Grade        string           `json:"grade"`
	IsActive     bool             `json:"isActive"`
	NeedsReview  bool             `json:"needsReview"`
	School       SchoolView       `json:"school"`
	Sports       []SportView      `json:"sports"`
	CurrentScore ScoreView        `json:"currentScore"`
	Platforms    PlatformsView    `json:"platforms"`
	Demographics DemographicsView `json:"demographics"`
	Categories   []CategoryView   `json:"categories"`

	HighlightedName   []search.Segment `json:"highlightedName,omitempty"`
	HighlightedEmail  []search.Segment `json:"highlightedEmail,omitempty"`
	HighlightedSchool []search.Segment `json:"highlightedSchool,omitempty"`
}

// SchoolView is the owning school.
type SchoolView struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	Name       string `json:"name"`
	State      string `json:"state"`
	Conference string `json:"conference"`
}

// SportView is one sport of the profile.
type SportView struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ScoreView is the performance block.
type ScoreView struct {
	Score                   float64  `json:"score"`
	TotalFollowers          int      `json:"totalFollowers"`
	EngagementRate          float64  `json:"engagementRate"`
	AudienceQualityScore    *float64 `json:"audienceQualityScore"`
	ContentPerformanceScore *float64 `json:"contentPerformanceScore"`
}

// PlatformsView holds the accounts that exist.
type PlatformsView struct {
	Instagram *PlatformView `json:"instagram,omitempty"`
	TikTok    *PlatformView `json:"tiktok,omitempty"`
}

// PlatformView is a social account summary.
type PlatformView struct {
	Username       string  `json:"username"`
	Followers      int     `json:"followers"`
	EngagementRate float64 `json:"engagementRate"`
}

// DemographicsView is the audience block.
type DemographicsView struct {
	Age            *int               `json:"age"`
	AgeRange       *string            `json:"ageRange"`
	Ethnicity      EthnicityView      `json:"ethnicity"`
	AudienceGender AudienceGenderView `json:"audienceGender"`
	AudienceAge    AudienceAgeView    `json:"audienceAge"`
	Location       LocationView       `json:"location"`
}

// EthnicityView holds audience ethnicity percentages.
type EthnicityView struct {
	Hispanic *float64 `json:"hispanic"`
	White    *float64 `json:"white"`
	Black    *float64 `json:"black"`
	Asian    *float64 `json:"asian"`
	Other    *float64 `json:"other"`
}

// AudienceGenderView holds audience gender percentages.
type AudienceGenderView struct {
	Male   *float64 `json:"male"`
	Female *float64 `json:"female"`
}

// AudienceAgeView holds audience age bracket percentages.
type AudienceAgeView struct {
	Age13To17 *float64 `json:"13-17"`
	Age18To24 *float64 `json:"18-24"`
	Age25To34 *float64 `json:"25-34"`
	Age35To44 *float64 `json:"35-44"`
	Age45Plus *float64 `json:"45+"`
}

// LocationView holds audience location percentages.
type LocationView struct {
	US     *float64 `json:"us"`
	Mexico *float64 `json:"mexico"`
	Canada *float64 `json:"canada"`
	Other  *float64 `json:"other"`
}

// CategoryView is a category assignment.
type CategoryView struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// PaginationView describes the returned page.
type PaginationView struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// ListResult is one page of profiles.
type ListResult struct {
	Data       []AthleteView  `json:"data"`
	Pagination PaginationView `json:"pagination"`
}

// SchoolOptionView is a school entry of the filter options.
type SchoolOptionView struct {
	ID         int    `json:"id"`
	Label      string `json:"label"`
	Conference string `json:"conference"`
}

// SportOptionView is a sport entry of the filter options.
type SportOptionView struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// CategoryOptionView is a category entry of the filter options.
type CategoryOptionView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FilterOptionsView lists the values a client can filter on.
type FilterOptionsView struct {
	Schools     []SchoolOptionView   `json:"schools"`
	Sports      []SportOptionView    `json:"sports"`
	Conferences []string             `json:"conferences"`
	Grades      []string             `json:"grades"`
	Categories  []CategoryOptionView `json:"categories"`
}

// StatsView summarizes the roster.
type StatsView struct {
	TotalAthletes  int64   `json:"totalAthletes"`
	ActiveAthletes int64   `json:"activeAthletes"`
	AlumniAthletes int64   `json:"alumniAthletes"`
	AvgScore       float64 `json:"avgScore"`
	AvgFollowers   float64 `json:"avgFollowers"`
	AvgEngagement  float64 `json:"avgEngagement"`
}
