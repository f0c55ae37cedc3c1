package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

const userColumns = "u.id,u.email,u.password_hash,u.name,u.phone,u.avatar_key,u.status,u.role_id,r.name,u.created_at,u.updated_at"

const userFrom = " FROM users u JOIN roles r ON r.id = u.role_id "

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts user and returns its ID. The caller supplies the hash.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	status := u.Status
	if status == "" {
		status = model.StatusActive
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, phone, status, role_id) VALUES (?,?,?,?,?,?)",
		normalizeEmail(u.Email), u.PasswordHash, u.Name, u.Phone, string(status), u.RoleID)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ExistsByEmail reports whether a user with the normalized email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? LIMIT 1", normalizeEmail(email)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+userFrom+"WHERE u.email=? LIMIT 1", normalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+userFrom+"WHERE u.id=? LIMIT 1", id)
	return scanUser(row)
}

// ListNonAdmin returns every user whose role is not ADMIN, oldest first.
func (r *UserRepo) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+userFrom+"WHERE r.name <> ? ORDER BY u.id", string(model.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePassword stores a new hash for the user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return r.exec(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
}

// UpdateProfile replaces the editable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone string) error {
	return r.exec(ctx, "UPDATE users SET name=?, phone=? WHERE id=?", name, phone, id)
}

// UpdateAvatar stores the object key of the user's avatar.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, key string) error {
	return r.exec(ctx, "UPDATE users SET avatar_key=? WHERE id=?", key, id)
}

// SetStatus flips a user between ACTIVE and INACTIVE.
func (r *UserRepo) SetStatus(ctx context.Context, id uint64, status model.Status) error {
	return r.exec(ctx, "UPDATE users SET status=? WHERE id=?", string(status), id)
}

// SetRole assigns a new role to the user.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, roleID uint8) error {
	return r.exec(ctx, "UPDATE users SET role_id=? WHERE id=?", roleID, id)
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.AvatarKey,
		&u.Status, &u.RoleID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, notFound(err)
	}
	return u, nil
}
