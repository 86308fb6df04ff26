package talents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Talent
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Talent)}
}

func (r *MemoryRepo) Create(ctx context.Context, t Talent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[t.ID] = t.clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Talent, error) {
	if err := ctx.Err(); err != nil {
		return Talent{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.data[id]
	if !ok {
		return Talent{}, ErrNotFound
	}
	return t.clone(), nil
}

// Search returns matches in creation order.
func (r *MemoryRepo) Search(ctx context.Context, f Filter) ([]Talent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f = f.normalized()

	r.mu.RLock()
	matched := make([]Talent, 0, len(r.data))
	for _, t := range r.data {
		if f.matches(t) {
			matched = append(matched, t.clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if f.Skip >= len(matched) {
		return []Talent{}, nil
	}
	end := min(f.Skip+f.Limit, len(matched))
	return matched[f.Skip:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
