package model

import (
	"strings"
	"time"
)

// RoleName is one of the fixed roles. The set is closed; roles are seeded
// at startup and never change afterwards.
type RoleName string

const (
	RoleAdmin RoleName = "ADMIN"
	RoleStaff RoleName = "STAFF"
	RoleUser  RoleName = "USER"
)

// AllRoles lists every role in seeding order.
var AllRoles = []RoleName{RoleAdmin, RoleStaff, RoleUser}

// ParseRole validates a role name. Matching is case-insensitive and accepts
// the legacy ROLE_ prefix.
func ParseRole(s string) (RoleName, bool) {
	n := RoleName(normalizeRole(s))
	for _, r := range AllRoles {
		if r == n {
			return r, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a user. Users are never hard-deleted;
// banning flips them to INACTIVE.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// User represents a row in the `users` table joined with its role name.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash; the plaintext is never stored.
//	Name, Phone  – profile fields.
//	AvatarKey    – object key of the avatar in storage (empty if none).
//	Status       – ACTIVE or INACTIVE.
//	RoleID       – foreign key into the roles table.
//	Role         – role name resolved through the join.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	AvatarKey    string
	Status       Status
	RoleID       uint8
	Role         RoleName
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the user may authenticate.
func (u User) IsActive() bool { return u.Status == StatusActive }

// Role represents a row in the `roles` table.
type Role struct {
	ID   uint8
	Name RoleName
}

func normalizeRole(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "ROLE_")
}
