package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

var userRowColumns = []string{
	"id", "email", "password_hash", "name", "phone", "avatar_key",
	"status", "role_id", "name", "created_at", "updated_at",
}

func newUserRows() *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns)
}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, password_hash, name, phone, status, role_id)")).
		WithArgs("alice@example.com", "hash", "Alice", "0900", "ACTIVE", uint8(3)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	repo := NewUserRepo(db)
	id, err := repo.Create(context.Background(), model.User{
		Email: "  Alice@Example.com ", PasswordHash: "hash", Name: "Alice", Phone: "0900", RoleID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'uq_users_email'"))

	_, err = NewUserRepo(db).Create(context.Background(), model.User{Email: "a@x.com", PasswordHash: "h", RoleID: 3})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users u JOIN roles r ON r.id = u.role_id WHERE u.email=?")).
		WithArgs("bob@example.com").
		WillReturnRows(newUserRows().AddRow(
			int64(7), "bob@example.com", "hash", "Bob", "", "", "INACTIVE", int64(2), "STAFF", now, now))

	u, err := NewUserRepo(db).GetByEmail(context.Background(), "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, model.StatusInactive, u.Status)
	assert.Equal(t, uint8(2), u.RoleID)
	assert.Equal(t, model.RoleStaff, u.Role)
	assert.False(t, u.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("WHERE u.id=").WithArgs(uint64(99)).WillReturnRows(newUserRows())

	_, err = NewUserRepo(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_ExistsByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM users").WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM users").WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewUserRepo(db)
	ok, err := repo.ExistsByEmail(context.Background(), "A@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_ListNonAdmin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.name <> ? ORDER BY u.id")).WithArgs("ADMIN").
		WillReturnRows(newUserRows().
			AddRow(int64(2), "s@x.com", "h", "S", "", "", "ACTIVE", int64(2), "STAFF", now, now).
			AddRow(int64(3), "u@x.com", "h", "U", "", "", "ACTIVE", int64(3), "USER", now, now))

	users, err := NewUserRepo(db).ListNonAdmin(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.RoleStaff, users[0].Role)
	assert.Equal(t, model.RoleUser, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Updates(t *testing.T) {
	tests := []struct {
		name  string
		query string
		args  []driver.Value
		call  func(r *UserRepo) error
	}{
		{
			name:  "password",
			query: "UPDATE users SET password_hash=? WHERE id=?",
			args:  []driver.Value{"newhash", uint64(1)},
			call:  func(r *UserRepo) error { return r.UpdatePassword(context.Background(), 1, "newhash") },
		},
		{
			name:  "profile",
			query: "UPDATE users SET name=?, phone=? WHERE id=?",
			args:  []driver.Value{"N", "P", uint64(1)},
			call:  func(r *UserRepo) error { return r.UpdateProfile(context.Background(), 1, "N", "P") },
		},
		{
			name:  "avatar",
			query: "UPDATE users SET avatar_key=? WHERE id=?",
			args:  []driver.Value{"avatars/1.png", uint64(1)},
			call:  func(r *UserRepo) error { return r.UpdateAvatar(context.Background(), 1, "avatars/1.png") },
		},
		{
			name:  "status",
			query: "UPDATE users SET status=? WHERE id=?",
			args:  []driver.Value{"INACTIVE", uint64(1)},
			call:  func(r *UserRepo) error { return r.SetStatus(context.Background(), 1, model.StatusInactive) },
		},
		{
			name:  "role",
			query: "UPDATE users SET role_id=? WHERE id=?",
			args:  []driver.Value{uint8(2), uint64(1)},
			call:  func(r *UserRepo) error { return r.SetRole(context.Background(), 1, 2) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(regexp.QuoteMeta(tt.query)).WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta(tt.query)).WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 0))

			repo := NewUserRepo(db)
			assert.NoError(t, tt.call(repo))
			assert.ErrorIs(t, tt.call(repo), ErrNotFound)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
