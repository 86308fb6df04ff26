package permissions

import "context"

// Repo stores role assignments.
type Repo interface {
	// HasRoleAnywhere reports whether the user holds role on any business.
	HasRoleAnywhere(ctx context.Context, userID string, role Role) (bool, error)
	HasBusinessRole(ctx context.Context, userID, businessID string, roles []Role) (bool, error)
	HasLocationRole(ctx context.Context, userID, locationID string, roles []Role) (bool, error)
	AssignBusinessRole(ctx context.Context, userID, businessID string, role Role) error
	AssignLocationRole(ctx context.Context, userID, locationID string, role Role) error
}
