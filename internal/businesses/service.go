package businesses

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service contains business-profile logic.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates and stores a new profile. Any ID or timestamps on b are replaced.
func (s *Service) Create(ctx context.Context, b Business) (Business, error) {
	if err := b.validate(); err != nil {
		return Business{}, err
	}
	b.ID = uuid.NewString()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	if err := s.Repo.Create(ctx, b); err != nil {
		return Business{}, err
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (Business, error) {
	return s.Repo.GetByID(ctx, id)
}

// Update applies only the fields present in p.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Business, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Business{}, err
	}
	p.Apply(&b)
	if err := b.validate(); err != nil {
		return Business{}, err
	}
	b.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, b); err != nil {
		return Business{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]Business, error) {
	return s.Repo.Search(ctx, f)
}
