package permissions

import (
	"context"
	"slices"
	"sync"
)

type assignment struct {
	userID string
	target string
	role   Role
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu        sync.RWMutex
	business  map[assignment]struct{}
	locations map[assignment]struct{}
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		business:  make(map[assignment]struct{}),
		locations: make(map[assignment]struct{}),
	}
}

func (r *MemoryRepo) HasRoleAnywhere(ctx context.Context, userID string, role Role) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for a := range r.business {
		if a.userID == userID && a.role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) HasBusinessRole(ctx context.Context, userID, businessID string, roles []Role) (bool, error) {
	return r.has(ctx, r.business, userID, businessID, roles)
}

func (r *MemoryRepo) HasLocationRole(ctx context.Context, userID, locationID string, roles []Role) (bool, error) {
	return r.has(ctx, r.locations, userID, locationID, roles)
}

func (r *MemoryRepo) AssignBusinessRole(ctx context.Context, userID, businessID string, role Role) error {
	return r.assign(ctx, r.business, assignment{userID: userID, target: businessID, role: role})
}

func (r *MemoryRepo) AssignLocationRole(ctx context.Context, userID, locationID string, role Role) error {
	return r.assign(ctx, r.locations, assignment{userID: userID, target: locationID, role: role})
}

func (r *MemoryRepo) has(ctx context.Context, set map[assignment]struct{}, userID, target string, roles []Role) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for a := range set {
		if a.userID == userID && a.target == target && slices.Contains(roles, a.role) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) assign(ctx context.Context, set map[assignment]struct{}, a assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set[a] = struct{}{}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
