package talents

import "context"

// Repo defines storage for talent profiles.
type Repo interface {
	Create(ctx context.Context, t Talent) error
	GetByID(ctx context.Context, id string) (Talent, error)
	Search(ctx context.Context, f Filter) ([]Talent, error)
}
