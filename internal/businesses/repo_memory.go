package businesses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Business
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Business)}
}

func (r *MemoryRepo) Create(ctx context.Context, b Business) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[b.ID] = b.clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Business, error) {
	if err := ctx.Err(); err != nil {
		return Business{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.data[id]
	if !ok {
		return Business{}, ErrNotFound
	}
	return b.clone(), nil
}

func (r *MemoryRepo) Update(ctx context.Context, b Business) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[b.ID]; !ok {
		return ErrNotFound
	}
	r.data[b.ID] = b.clone()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// Search returns matches in creation order.
func (r *MemoryRepo) Search(ctx context.Context, f Filter) ([]Business, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f = f.normalized()
	matched := r.collect(f.matches)
	if f.Skip >= len(matched) {
		return []Business{}, nil
	}
	end := len(matched)
	if f.Skip+f.Limit < end {
		end = f.Skip + f.Limit
	}
	return matched[f.Skip:end], nil
}

func (r *MemoryRepo) ListWithCoordinates(ctx context.Context) ([]Business, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.collect(Business.HasCoordinates), nil
}

func (r *MemoryRepo) collect(keep func(Business) bool) []Business {
	r.mu.RLock()
	out := make([]Business, 0, len(r.data))
	for _, b := range r.data {
		if keep(b) {
			out = append(out, b.clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

var _ Repo = (*MemoryRepo)(nil)
