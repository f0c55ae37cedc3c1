package repository

import (
	"context"
	"database/sql"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// RoleRepo reads the fixed roles table. Roles never change after seeding,
// so lookups are served from a small LRU once loaded.
type RoleRepo struct {
	DB    *sql.DB
	cache *lru.Cache[model.RoleName, model.Role]
}

func NewRoleRepo(db *sql.DB) *RoleRepo {
	// size is a constant above len(model.AllRoles); New only fails on size <= 0
	cache, _ := lru.New[model.RoleName, model.Role](8)
	return &RoleRepo{DB: db, cache: cache}
}

// EnsureSeeded inserts every known role that is missing. It is idempotent.
func (r *RoleRepo) EnsureSeeded(ctx context.Context) error {
	for _, name := range model.AllRoles {
		if _, err := r.DB.ExecContext(ctx,
			"INSERT IGNORE INTO roles (name) VALUES (?)", string(name)); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	r.cache.Purge()
	return nil
}

// GetByName returns the role row for name.
func (r *RoleRepo) GetByName(ctx context.Context, name model.RoleName) (model.Role, error) {
	if role, ok := r.cache.Get(name); ok {
		return role, nil
	}
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM roles WHERE name=? LIMIT 1", string(name)).Scan(&role.ID, &role.Name)
	if err != nil {
		return model.Role{}, notFound(err)
	}
	r.cache.Add(role.Name, role)
	return role, nil
}

// List returns all roles ordered by id and refreshes the cache.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		r.cache.Add(role.Name, role)
		out = append(out, role)
	}
	return out, rows.Err()
}
