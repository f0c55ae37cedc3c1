package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

func TestRoleRepo_EnsureSeeded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"ADMIN", "STAFF", "USER"} {
		mock.ExpectExec("INSERT IGNORE INTO roles").WithArgs(name).WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, NewRoleRepo(db).EnsureSeeded(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepo_GetByName_Caches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name FROM roles WHERE name=").WithArgs("USER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(3), "USER"))

	repo := NewRoleRepo(db)
	for i := 0; i < 3; i++ {
		role, err := repo.GetByName(context.Background(), model.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, model.Role{ID: 3, Name: model.RoleUser}, role)
	}
	// one query, later calls served from the cache
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepo_GetByName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM roles WHERE name=").WithArgs("STAFF").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err = NewRoleRepo(db).GetByName(context.Background(), model.RoleStaff)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoleRepo_ListWarmsCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name FROM roles ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "ADMIN").AddRow(int64(2), "STAFF").AddRow(int64(3), "USER"))

	repo := NewRoleRepo(db)
	roles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 3)

	// served from the cache warmed by List; no further query expected
	role, err := repo.GetByName(context.Background(), model.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), role.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
