package talents

import (
	"fmt"
	"strings"
	"time"
)

// Talent is a candidate profile.
type Talent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	Skills    []string  `json:"skills"`
	ResumeID  *string   `json:"resume_id"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Talent) clone() Talent {
	out := t
	out.Skills = append([]string{}, t.Skills...)
	if t.ResumeID != nil {
		v := *t.ResumeID
		out.ResumeID = &v
	}
	if t.Latitude != nil {
		v := *t.Latitude
		out.Latitude = &v
	}
	if t.Longitude != nil {
		v := *t.Longitude
		out.Longitude = &v
	}
	return out
}

func (t *Talent) validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if t.Latitude != nil && (*t.Latitude < -90 || *t.Latitude > 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidInput)
	}
	if t.Longitude != nil && (*t.Longitude < -180 || *t.Longitude > 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidInput)
	}
	t.Skills = dedupeSkills(t.Skills)
	return nil
}

// dedupeSkills trims entries and drops blanks and case-insensitive repeats,
// keeping the first spelling seen.
func dedupeSkills(skills []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func lowerSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// Filter narrows a search. Query matches name or bio, Location matches the
// location field, and every entry of Skills must be held by the talent.
// All comparisons ignore case.
type Filter struct {
	Query    string
	Skills   []string
	Location string
	Skip     int
	Limit    int
}

const (
	defaultLimit = 100
	maxLimit     = 100
)

func (f Filter) normalized() Filter {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	f.Skills = lowerSkills(dedupeSkills(f.Skills))
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 || f.Limit > maxLimit {
		f.Limit = defaultLimit
	}
	return f
}

// matches expects a normalized filter.
func (f Filter) matches(t Talent) bool {
	if f.Query != "" && !containsFold(t.Name, f.Query) && !containsFold(t.Bio, f.Query) {
		return false
	}
	if f.Location != "" && !containsFold(t.Location, f.Location) {
		return false
	}
	if len(f.Skills) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(t.Skills))
	for _, s := range lowerSkills(t.Skills) {
		held[s] = struct{}{}
	}
	for _, want := range f.Skills {
		if _, ok := held[want]; !ok {
			return false
		}
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ParseSkills splits a comma-separated skills parameter.
func ParseSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return dedupeSkills(strings.Split(raw, ","))
}
