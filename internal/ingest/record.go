package ingest

import "encoding/json"

// Record is a normalized resume. Every key is always present on the wire:
// scalar fields are null when absent and lists are [] rather than omitted.
type Record struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Website   *string `json:"website"`
	Summary   *string `json:"summary"`
	Objective *string `json:"objective"`

	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         Skills          `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Languages      []Language      `json:"languages"`
	Awards         []Award         `json:"awards"`

	OriginalFilename string  `json:"original_filename"`
	FileType         string  `json:"file_type"`
	FileSize         int64   `json:"file_size"`
	RawData          RawData `json:"raw_data"`
}

type Experience struct {
	Company      *string  `json:"company"`
	Title        *string  `json:"title"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	Description  *string  `json:"description"`
	Achievements []string `json:"achievements"`
}

type Education struct {
	Institution *string `json:"institution"`
	Degree      *string `json:"degree"`
	Field       *string `json:"field"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	GPA         *string `json:"gpa"`
}

// Skills groups skills into four fixed categories.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
	Tools     []string `json:"tools"`
}

type Certification struct {
	Name   *string `json:"name"`
	Issuer *string `json:"issuer"`
	Date   *string `json:"date"`
	Expiry *string `json:"expiry"`
}

type Project struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Technologies []string `json:"technologies"`
	URL          *string  `json:"url"`
}

type Language struct {
	Language    *string `json:"language"`
	Proficiency *string `json:"proficiency"`
}

type Award struct {
	Title       *string `json:"title"`
	Issuer      *string `json:"issuer"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

// RawData records how a Record was produced.
type RawData struct {
	OriginalText string `json:"original_text"`
	Filename     string `json:"filename"`
	ParsingModel string `json:"parsing_model"`
}

// Suggestions is the output of an enhancement pass over a Record.
type Suggestions struct {
	SuggestedSkills       []string `json:"suggested_skills"`
	Strengths             []string `json:"strengths"`
	Improvements          []string `json:"improvements"`
	ATSKeywords           []string `json:"ats_keywords"`
	CareerRecommendations []string `json:"career_recommendations"`
}

// Normalize replaces nil lists with empty ones, including nested lists.
func (r *Record) Normalize() {
	r.Experience = nonNil(r.Experience)
	for i := range r.Experience {
		r.Experience[i].Achievements = nonNil(r.Experience[i].Achievements)
	}
	r.Education = nonNil(r.Education)
	r.Skills.normalize()
	r.Certifications = nonNil(r.Certifications)
	r.Projects = nonNil(r.Projects)
	for i := range r.Projects {
		r.Projects[i].Technologies = nonNil(r.Projects[i].Technologies)
	}
	r.Languages = nonNil(r.Languages)
	r.Awards = nonNil(r.Awards)
}

func (s *Skills) normalize() {
	s.Technical = nonNil(s.Technical)
	s.Soft = nonNil(s.Soft)
	s.Languages = nonNil(s.Languages)
	s.Tools = nonNil(s.Tools)
}

// Normalize replaces nil lists with empty ones.
func (s *Suggestions) Normalize() {
	s.SuggestedSkills = nonNil(s.SuggestedSkills)
	s.Strengths = nonNil(s.Strengths)
	s.Improvements = nonNil(s.Improvements)
	s.ATSKeywords = nonNil(s.ATSKeywords)
	s.CareerRecommendations = nonNil(s.CareerRecommendations)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	out.Name = clonePtr(r.Name)
	out.Email = clonePtr(r.Email)
	out.Phone = clonePtr(r.Phone)
	out.Address = clonePtr(r.Address)
	out.LinkedIn = clonePtr(r.LinkedIn)
	out.GitHub = clonePtr(r.GitHub)
	out.Website = clonePtr(r.Website)
	out.Summary = clonePtr(r.Summary)
	out.Objective = clonePtr(r.Objective)

	out.Experience = nil
	for _, e := range r.Experience {
		out.Experience = append(out.Experience, Experience{
			Company:      clonePtr(e.Company),
			Title:        clonePtr(e.Title),
			StartDate:    clonePtr(e.StartDate),
			EndDate:      clonePtr(e.EndDate),
			Description:  clonePtr(e.Description),
			Achievements: append([]string(nil), e.Achievements...),
		})
	}
	out.Education = nil
	for _, e := range r.Education {
		out.Education = append(out.Education, Education{
			Institution: clonePtr(e.Institution),
			Degree:      clonePtr(e.Degree),
			Field:       clonePtr(e.Field),
			StartDate:   clonePtr(e.StartDate),
			EndDate:     clonePtr(e.EndDate),
			GPA:         clonePtr(e.GPA),
		})
	}
	out.Skills = Skills{
		Technical: append([]string(nil), r.Skills.Technical...),
		Soft:      append([]string(nil), r.Skills.Soft...),
		Languages: append([]string(nil), r.Skills.Languages...),
		Tools:     append([]string(nil), r.Skills.Tools...),
	}
	out.Certifications = nil
	for _, c := range r.Certifications {
		out.Certifications = append(out.Certifications, Certification{
			Name:   clonePtr(c.Name),
			Issuer: clonePtr(c.Issuer),
			Date:   clonePtr(c.Date),
			Expiry: clonePtr(c.Expiry),
		})
	}
	out.Projects = nil
	for _, p := range r.Projects {
		out.Projects = append(out.Projects, Project{
			Name:         clonePtr(p.Name),
			Description:  clonePtr(p.Description),
			Technologies: append([]string(nil), p.Technologies...),
			URL:          clonePtr(p.URL),
		})
	}
	out.Languages = nil
	for _, l := range r.Languages {
		out.Languages = append(out.Languages, Language{
			Language:    clonePtr(l.Language),
			Proficiency: clonePtr(l.Proficiency),
		})
	}
	out.Awards = nil
	for _, a := range r.Awards {
		out.Awards = append(out.Awards, Award{
			Title:       clonePtr(a.Title),
			Issuer:      clonePtr(a.Issuer),
			Date:        clonePtr(a.Date),
			Description: clonePtr(a.Description),
		})
	}
	out.Normalize()
	return out
}

type recordJSON Record

// MarshalJSON keeps the full shape on the wire even for records built by hand.
func (r Record) MarshalJSON() ([]byte, error) {
	c := r.Clone()
	return json.Marshal(recordJSON(c))
}

// UnmarshalJSON decodes a stored record and restores the full shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var aux recordJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Record(aux)
	r.Normalize()
	return nil
}

// StringValue returns the value of p or "".
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
