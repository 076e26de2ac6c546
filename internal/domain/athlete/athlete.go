// Package athlete holds the read model of the athlete roster.
package athlete

import "time"

// Gender values accepted by the roster.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Profile is a single athlete record with its joined school, sports and categories.
// Nullable store columns are pointers.
type Profile struct {
	ID          int
	Name        string
	Email       string
	Gender      string
	Grade       string
	IsAlumni    bool
	IsActive    bool
	NeedsReview bool

	School     School
	Sports     []Sport
	Categories []CategoryAssignment

	Performance  PerformanceScore
	Instagram    *PlatformAccount
	TikTok       *PlatformAccount
	Demographics Demographics

	CreatedAt time.Time
	UpdatedAt time.Time
}

// School is referenced by many profiles.
type School struct {
	ID         int
	Label      string
	Name       string
	State      string
	Conference string
}

// Sport is linked to profiles many-to-many.
type Sport struct {
	ID    int
	Label string
	Name  string
}

// Category is a content classification term.
type Category struct {
	ID   int
	Name string
}

// CategoryAssignment links a profile to a category with a 0..100 confidence.
type CategoryAssignment struct {
	Category        Category
	ConfidenceScore float64
}

// PerformanceScore is the denormalized scoring block of a profile.
type PerformanceScore struct {
	Score                   float64
	TotalFollowers          int
	EngagementRate          float64
	AudienceQualityScore    *float64
	ContentPerformanceScore *float64
}

// PlatformAccount is a social account. A profile has at most one per platform.
type PlatformAccount struct {
	Username       string
	UserID         *string
	Followers      int
	Following      int
	Posts          int
	EngagementRate float64
	AvgLikes       int
	AvgComments    int
}

// Demographics holds audience estimates. Percentages are independent estimates and need not sum to 100.
type Demographics struct {
	Age      *int
	AgeRange *string

	EthnicityHispanic *float64
	EthnicityWhite    *float64
	EthnicityBlack    *float64
	EthnicityAsian    *float64
	EthnicityOther    *float64

	AudienceGenderMale   *float64
	AudienceGenderFemale *float64

	AudienceAge13To17 *float64
	AudienceAge18To24 *float64
	AudienceAge25To34 *float64
	AudienceAge35To44 *float64
	AudienceAge45Plus *float64

	LocationUS     *float64
	LocationMexico *float64
	LocationCanada *float64
	LocationOther  *float64

	TopCities *string
	Interests *string
}

// SportNames returns the sport names of the profile.
func (p *Profile) SportNames() []string {
	out := make([]string, 0, len(p.Sports))
	for _, s := range p.Sports {
		out = append(out, s.Name)
	}
	return out
}

// CategoryNames returns the category names of the profile.
func (p *Profile) CategoryNames() []string {
	out := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		out = append(out, c.Category.Name)
	}
	return out
}

// SchoolOption is a school entry of the filter options.
type SchoolOption struct {
	ID         int
	Label      string
	Conference string
}

// SportOption is a sport entry of the filter options.
type SportOption struct {
	ID    int
	Label string
}

// FilterOptions lists the values a client can filter on.
type FilterOptions struct {
	Schools     []SchoolOption
	Sports      []SportOption
	Conferences []string
	Grades      []string
	Categories  []Category
}

// Stats summarizes the roster. Averages are zero for an empty roster.
type Stats struct {
	TotalAthletes  int64
	ActiveAthletes int64
	AlumniAthletes int64
	AvgScore       float64
	AvgFollowers   float64
	AvgEngagement  float64
}
