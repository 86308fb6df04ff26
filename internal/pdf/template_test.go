package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/ingest"
)

func str(s string) *string { return &s }

func TestResumeHTMLSections(t *testing.T) {
	rec := ingest.Record{
		Name:      str("John Doe"),
		Email:     str("john@x.com"),
		LinkedIn:  str("linkedin.com/in/jd"),
		Objective: str("Build reliable systems"),
		Experience: []ingest.Experience{{
			Company:      str("Acme"),
			StartDate:    str("2020"),
			Achievements: []string{"Cut latency by 40%"},
		}},
		Education: []ingest.Education{{Institution: str("UNSW"), Degree: str("BSc"), Field: str("CS"), GPA: str("3.8")}},
		Skills:    ingest.Skills{Technical: []string{"Go", "Python"}, Tools: []string{"Git"}},
		Projects:  []ingest.Project{{Name: str("Creerlio"), Technologies: []string{"Go"}}},
	}
	rec.Normalize()

	html, err := ResumeHTML(rec)
	require.NoError(t, err)
	for _, want := range []string{
		"<h1>John Doe</h1>",
		"john@x.com | LinkedIn: linkedin.com/in/jd",
		"PROFESSIONAL SUMMARY",
		"Build reliable systems",
		"<b>N/A</b> - Acme",
		"2020 - Present",
		"<li>Cut latency by 40%</li>",
		"<b>BSc</b> in CS",
		"GPA: 3.8",
		"<b>Technical:</b> Go, Python",
		"<b>Tools:</b> Git",
		"Technologies: Go",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "CERTIFICATIONS")
	assert.NotContains(t, html, "Soft Skills")
}

func TestResumeHTMLEscapesContent(t *testing.T) {
	rec := ingest.Record{Name: str("<script>alert(1)</script>")}
	rec.Normalize()

	html, err := ResumeHTML(rec)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestBusinessHTML(t *testing.T) {
	lat, lng := -33.86, 151.2
	html, err := BusinessHTML(businesses.Business{
		Name:        "Harbour Cafe",
		Industry:    "Hospitality",
		Description: "Coffee by the water",
		Location:    "Circular Quay",
		City:        "Sydney",
		Country:     "AU",
		Latitude:    &lat,
		Longitude:   &lng,
		Tags:        []string{"coffee", "brunch"},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "<b>Industry:</b> Hospitality")
	assert.NotContains(t, html, "Website:")
	assert.Contains(t, html, "Circular Quay, Sydney, AU")
	assert.Contains(t, html, "Coordinates: -33.860000, 151.200000")
	assert.Contains(t, html, "coffee, brunch")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(html), "<!DOCTYPE html>"))
}

func TestParsePaper(t *testing.T) {
	assert.Equal(t, A4, ParsePaper(" A4 "))
	assert.Equal(t, Letter, ParsePaper("letter"))
	assert.Equal(t, Letter, ParsePaper(""))
}
