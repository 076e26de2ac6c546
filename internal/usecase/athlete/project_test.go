package athlete

import (
	"encoding/json"
	"strings"
	"testing"

	domathlete "github.com/kailas-cloud/athletedex/internal/domain/athlete"
	"github.com/kailas-cloud/athletedex/internal/search"
)

func TestProject(t *testing.T) {
	p := sampleProfile()
	v := Project(&p)

	if v.School.Conference != "Big Ten" || v.School.Name != "Ohio State" {
		t.Errorf("school = %+v", v.School)
	}
	if len(v.Sports) != 1 || v.Sports[0].Label != "Football" {
		t.Errorf("sports = %+v", v.Sports)
	}
	if len(v.Categories) != 1 || v.Categories[0].ConfidenceScore != 87.5 || v.Categories[0].Name != "Fitness" {
		t.Errorf("categories = %+v", v.Categories)
	}
	if v.Platforms.Instagram == nil || v.Platforms.Instagram.Username != "jsmith" {
		t.Errorf("instagram = %+v", v.Platforms.Instagram)
	}
	if v.Platforms.TikTok != nil {
		t.Errorf("tiktok should be absent, got %+v", v.Platforms.TikTok)
	}
	if v.Demographics.AudienceAge.Age18To24 == nil || *v.Demographics.AudienceAge.Age18To24 != 55 {
		t.Errorf("audienceAge = %+v", v.Demographics.AudienceAge)
	}
}

func TestProject_JSONShape(t *testing.T) {
	p := sampleProfile()
	b, err := json.Marshal(Project(&p))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)

	for _, want := range []string{
		`"currentScore":{"score":82,"totalFollowers":12000,"engagementRate":4.2,"audienceQualityScore":null`,
		`"platforms":{"instagram":{"username":"jsmith","followers":10000,"engagementRate":4.5}}`,
		`"18-24":55`,
		`"us":90`,
		`"isAlumni":false`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("json missing %s\n%s", want, s)
		}
	}
	for _, absent := range []string{"tiktok", "highlightedName"} {
		if strings.Contains(s, absent) {
			t.Errorf("json should not contain %q: %s", absent, s)
		}
	}
}

func TestProject_NoAccounts(t *testing.T) {
	p := sampleProfile()
	p.Instagram = nil
	p.Sports = nil
	v := Project(&p)

	b, _ := json.Marshal(v)
	if !strings.Contains(string(b), `"platforms":{}`) {
		t.Errorf("expected empty platforms, got %s", b)
	}
	if !strings.Contains(string(b), `"sports":[]`) {
		t.Errorf("expected empty sports array, got %s", b)
	}
}

func TestProjectPage_KeepsStoreOrder(t *testing.T) {
	a := sampleProfile()
	b := sampleProfile()
	b.ID, b.Name, b.Email = 2, "Amy Johnson", "amy@example.com"
	rows := []domathlete.Profile{b, a}

	out := projectPage(search.New(search.Options{}), rows, "john")
	if out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("order changed: %d, %d", out[0].ID, out[1].ID)
	}
	if out[0].HighlightedName == nil || out[1].HighlightedName == nil {
		t.Fatal("both rows should be highlighted")
	}
	if out[0].HighlightedName[1].Text != "John" || !out[0].HighlightedName[1].Highlighted {
		t.Errorf("unexpected segments %+v", out[0].HighlightedName)
	}
}

func TestProjectPage_ShortTerm(t *testing.T) {
	rows := []domathlete.Profile{sampleProfile()}
	out := projectPage(search.New(search.Options{}), rows, "j")
	if out[0].HighlightedName != nil {
		t.Fatalf("short terms must not highlight, got %+v", out[0].HighlightedName)
	}
}
