package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	List(ctx context.Context, limit, offset int) ([]Resume, error)
	Update(ctx context.Context, r Resume) error
	Delete(ctx context.Context, id string) error
}
