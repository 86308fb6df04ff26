package permissions

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGHasBusinessRoleExpandsRoleList(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT 1 FROM user_business_roles WHERE user_id = $1 AND business_id = $2 AND role IN ($3, $4)",
	)).
		WithArgs("u1", "b1", "super_admin", "business_admin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasBusinessRole(context.Background(), "u1", "b1", BusinessAdminRoles)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGHasLocationRole(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_location_roles WHERE user_id = $1 AND location_id = $2")).
		WithArgs("u1", "l1", "location_admin", "manager").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.HasLocationRole(context.Background(), "u1", "l1", LocationWriteRoles)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGHasRoleWithNoRolesSkipsQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	ok, err := repo.HasBusinessRole(context.Background(), "u1", "b1", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSuperAdminLookup(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_business_roles WHERE user_id = $1 AND role = $2")).
		WithArgs("root", "super_admin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewChecker(repo).IsSuperAdmin(context.Background(), "root")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAssignIgnoresDuplicates(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_business_roles (user_id, business_id, role)")).
		WithArgs("u1", "b1", "viewer").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_location_roles (user_id, location_id, role)")).
		WithArgs("u1", "l1", "manager").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AssignBusinessRole(context.Background(), "u1", "b1", Viewer))
	require.NoError(t, repo.AssignLocationRole(context.Background(), "u1", "l1", Manager))
	require.NoError(t, mock.ExpectationsWereMet())
}
