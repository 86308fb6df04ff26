package permissions

import (
	"context"
	"fmt"
	"strings"
)

// Checker answers role questions for route guards.
type Checker struct {
	Repo Repo
}

// NewChecker constructs a Checker.
func NewChecker(repo Repo) *Checker {
	return &Checker{Repo: repo}
}

func (c *Checker) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	return c.Repo.HasRoleAnywhere(ctx, userID, SuperAdmin)
}

// HasBusinessRole reports whether the user holds one of roles on the business.
func (c *Checker) HasBusinessRole(ctx context.Context, userID, businessID string, roles []Role) (bool, error) {
	if ok, err := c.IsSuperAdmin(ctx, userID); err != nil || ok {
		return ok, err
	}
	if userID == "" || businessID == "" {
		return false, nil
	}
	return c.Repo.HasBusinessRole(ctx, userID, businessID, roles)
}

// HasLocationRole reports whether the user holds one of roles on the location.
func (c *Checker) HasLocationRole(ctx context.Context, userID, locationID string, roles []Role) (bool, error) {
	if ok, err := c.IsSuperAdmin(ctx, userID); err != nil || ok {
		return ok, err
	}
	if userID == "" || locationID == "" {
		return false, nil
	}
	return c.Repo.HasLocationRole(ctx, userID, locationID, roles)
}

// AssignBusinessRole records a business role for a user.
func (c *Checker) AssignBusinessRole(ctx context.Context, userID, businessID string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return c.Repo.AssignBusinessRole(ctx, userID, businessID, role)
}

// AssignLocationRole records a location role for a user.
func (c *Checker) AssignLocationRole(ctx context.Context, userID, locationID string, role Role) error {
	if !role.Valid() || role == SuperAdmin || role == BusinessAdmin {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return c.Repo.AssignLocationRole(ctx, userID, locationID, role)
}
