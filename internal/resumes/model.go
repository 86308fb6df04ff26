package resumes

import (
	"time"

	"creerlio-backend/internal/ingest"
)

// Resume is a stored ingestion result. Enhancements are kept apart from the
// record so an enhancement pass never rewrites extracted data.
type Resume struct {
	ID           string
	OwnerID      string
	Record       ingest.Record
	StorageKey   string
	Enhancements *ingest.Suggestions
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Resume) clone() Resume {
	out := r
	out.Record = r.Record.Clone()
	if r.Enhancements != nil {
		s := *r.Enhancements
		s.SuggestedSkills = append([]string(nil), s.SuggestedSkills...)
		s.Strengths = append([]string(nil), s.Strengths...)
		s.Improvements = append([]string(nil), s.Improvements...)
		s.ATSKeywords = append([]string(nil), s.ATSKeywords...)
		s.CareerRecommendations = append([]string(nil), s.CareerRecommendations...)
		s.Normalize()
		out.Enhancements = &s
	}
	return out
}
