package businesses

import "context"

// Repo defines persistence operations for businesses.
type Repo interface {
	Create(ctx context.Context, b Business) error
	GetByID(ctx context.Context, id string) (Business, error)
	Update(ctx context.Context, b Business) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, f Filter) ([]Business, error)
	// ListWithCoordinates returns every business that has a latitude and longitude.
	ListWithCoordinates(ctx context.Context) ([]Business, error)
}
