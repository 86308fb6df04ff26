package pdf

import (
	"fmt"
	"strings"

	"creerlio-backend/internal/businesses"
	"creerlio-backend/internal/ingest"
)

const notAvailable = "N/A"

type resumeView struct {
	Title          string
	Name           string
	Contact        []string
	Summary        string
	Experience     []experienceView
	Education      []educationView
	Skills         []skillGroup
	Certifications []certificationView
	Projects       []projectView
}

type experienceView struct {
	Title, Company, Dates, Description string
	Achievements                       []string
}

type educationView struct {
	Degree, Field, Institution, Dates, GPA string
}

type skillGroup struct {
	Label string
	Items []string
}

type certificationView struct {
	Name, Issuer, Date string
}

type projectView struct {
	Name, URL, Description string
	Technologies           []string
}

func orNA(p *string) string {
	if v := strings.TrimSpace(ingest.StringValue(p)); v != "" {
		return v
	}
	return notAvailable
}

func dateRange(start, end *string, openEnd string) string {
	s := ingest.StringValue(start)
	e := ingest.StringValue(end)
	if e == "" {
		e = openEnd
	}
	if s == "" && e == "" {
		return ""
	}
	return s + " - " + e
}

func newResumeView(rec ingest.Record) resumeView {
	v := resumeView{
		Name:    ingest.StringValue(rec.Name),
		Summary: ingest.StringValue(rec.Summary),
	}
	v.Title = v.Name
	if v.Title == "" {
		v.Title = "Resume"
	}
	if v.Summary == "" {
		v.Summary = ingest.StringValue(rec.Objective)
	}

	for _, c := range []struct{ label, value string }{
		{"", ingest.StringValue(rec.Email)},
		{"", ingest.StringValue(rec.Phone)},
		{"", ingest.StringValue(rec.Address)},
		{"LinkedIn: ", ingest.StringValue(rec.LinkedIn)},
		{"GitHub: ", ingest.StringValue(rec.GitHub)},
		{"Website: ", ingest.StringValue(rec.Website)},
	} {
		if c.value != "" {
			v.Contact = append(v.Contact, c.label+c.value)
		}
	}

	for _, e := range rec.Experience {
		v.Experience = append(v.Experience, experienceView{
			Title:        orNA(e.Title),
			Company:      orNA(e.Company),
			Dates:        dateRange(e.StartDate, e.EndDate, "Present"),
			Description:  ingest.StringValue(e.Description),
			Achievements: e.Achievements,
		})
	}
	for _, e := range rec.Education {
		v.Education = append(v.Education, educationView{
			Degree:      orNA(e.Degree),
			Field:       ingest.StringValue(e.Field),
			Institution: orNA(e.Institution),
			Dates:       dateRange(e.StartDate, e.EndDate, ""),
			GPA:         ingest.StringValue(e.GPA),
		})
	}
	for _, g := range []skillGroup{
		{"Technical", rec.Skills.Technical},
		{"Soft Skills", rec.Skills.Soft},
		{"Tools", rec.Skills.Tools},
		{"Languages", rec.Skills.Languages},
	} {
		if len(g.Items) > 0 {
			v.Skills = append(v.Skills, g)
		}
	}
	for _, c := range rec.Certifications {
		v.Certifications = append(v.Certifications, certificationView{
			Name:   orNA(c.Name),
			Issuer: orNA(c.Issuer),
			Date:   ingest.StringValue(c.Date),
		})
	}
	for _, p := range rec.Projects {
		v.Projects = append(v.Projects, projectView{
			Name:         orNA(p.Name),
			URL:          ingest.StringValue(p.URL),
			Description:  ingest.StringValue(p.Description),
			Technologies: p.Technologies,
		})
	}
	return v
}

type businessView struct {
	Title       string
	Name        string
	Info        []labelled
	About       string
	Location    string
	Coordinates string
	Tags        []string
}

type labelled struct {
	Label, Value string
}

func newBusinessView(b businesses.Business) businessView {
	v := businessView{Title: b.Name, Name: b.Name, About: b.Description, Tags: b.Tags}
	for _, item := range []labelled{
		{"Industry", b.Industry},
		{"Website", b.Website},
		{"Email", b.Email},
		{"Phone", b.Phone},
	} {
		if item.Value != "" {
			v.Info = append(v.Info, item)
		}
	}

	base := b.Location
	if base == "" {
		base = b.Address
	}
	if base != "" {
		parts := []string{base}
		for _, p := range []string{b.City, b.State, b.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		v.Location = strings.Join(parts, ", ")
		if b.HasCoordinates() {
			v.Coordinates = fmt.Sprintf("%.6f, %.6f", *b.Latitude, *b.Longitude)
		}
	}
	return v
}
