package talents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"creerlio-backend/internal/ingest"
	"creerlio-backend/internal/resumes"
	"creerlio-backend/internal/shared/telemetry"
)

// ResumeSource loads stored resumes.
type ResumeSource interface {
	Get(ctx context.Context, id string) (resumes.Resume, error)
}

// Service contains talent-profile logic.
type Service struct {
	Repo    Repo
	Resumes ResumeSource
	now     func() time.Time
}

// NewService constructs a Service. resumes may be nil when profiles are never
// seeded from uploads.
func NewService(repo Repo, resumes ResumeSource) *Service {
	return &Service{Repo: repo, Resumes: resumes, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates and stores a new profile.
func (s *Service) Create(ctx context.Context, t Talent) (Talent, error) {
	if err := t.validate(); err != nil {
		return Talent{}, err
	}
	t.ID = uuid.NewString()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	if err := s.Repo.Create(ctx, t); err != nil {
		return Talent{}, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (Talent, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Talent, error) {
	return s.Repo.Search(ctx, f)
}

// CreateFromResume seeds a profile from a stored resume.
func (s *Service) CreateFromResume(ctx context.Context, resumeID string) (Talent, error) {
	res, err := s.Resumes.Get(ctx, resumeID)
	if err != nil {
		return Talent{}, err
	}
	t, err := s.Create(ctx, FromRecord(res.ID, res.Record))
	if err != nil {
		return Talent{}, err
	}
	telemetry.Info("talent.created_from_resume", map[string]any{
		"talent_id": t.ID,
		"resume_id": res.ID,
		"skills":    len(t.Skills),
	})
	return t, nil
}

// FromRecord maps a normalized resume onto a talent profile. The title comes
// from the first listed experience.
func FromRecord(resumeID string, rec ingest.Record) Talent {
	t := Talent{
		Name:     ingest.StringValue(rec.Name),
		Email:    ingest.StringValue(rec.Email),
		Phone:    ingest.StringValue(rec.Phone),
		Location: ingest.StringValue(rec.Address),
		Bio:      ingest.StringValue(rec.Summary),
		Skills:   append(append([]string{}, rec.Skills.Technical...), rec.Skills.Tools...),
	}
	if len(rec.Experience) > 0 {
		t.Title = ingest.StringValue(rec.Experience[0].Title)
	}
	if resumeID != "" {
		id := resumeID
		t.ResumeID = &id
	}
	return t
}
