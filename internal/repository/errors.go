// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// to distinguish between different failure scenarios without inspecting
// driver errors. ErrNotFound replaces sql.ErrNoRows at the package boundary
// and ErrEmailExists reports a violated unique index on users.email.
package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested row does not exist or an
// update/delete matched no rows.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when inserting a user whose email is taken.
var ErrEmailExists = errors.New("email already exists")

// notFound maps sql.ErrNoRows to ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isDuplicate reports a MySQL 1062 duplicate-key error.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// checkAffected converts a zero-row result into ErrNotFound.
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
