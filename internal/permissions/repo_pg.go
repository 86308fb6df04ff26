package permissions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PGRepo implements Repo using the user_business_roles and user_location_roles tables.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) HasRoleAnywhere(ctx context.Context, userID string, role Role) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM user_business_roles WHERE user_id = $1 AND role = $2
)`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, userID, string(role)).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PGRepo) HasBusinessRole(ctx context.Context, userID, businessID string, roles []Role) (bool, error) {
	return r.exists(ctx, "user_business_roles", "business_id", userID, businessID, roles)
}

func (r *PGRepo) HasLocationRole(ctx context.Context, userID, locationID string, roles []Role) (bool, error) {
	return r.exists(ctx, "user_location_roles", "location_id", userID, locationID, roles)
}

func (r *PGRepo) AssignBusinessRole(ctx context.Context, userID, businessID string, role Role) error {
	const query = `
INSERT INTO user_business_roles (user_id, business_id, role)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query, userID, businessID, string(role))
	return err
}

func (r *PGRepo) AssignLocationRole(ctx context.Context, userID, locationID string, role Role) error {
	const query = `
INSERT INTO user_location_roles (user_id, location_id, role)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query, userID, locationID, string(role))
	return err
}

// exists builds "role IN ($3, $4, ...)" for the given roles. table and column
// are package constants, never caller input.
func (r *PGRepo) exists(ctx context.Context, table, column, userID, target string, roles []Role) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}
	args := []any{userID, target}
	placeholders := make([]string, 0, len(roles))
	for _, role := range roles {
		args = append(args, string(role))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	query := fmt.Sprintf(`
SELECT EXISTS (
    SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2 AND role IN (%s)
)`, table, column, strings.Join(placeholders, ", "))

	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

var _ Repo = (*PGRepo)(nil)
