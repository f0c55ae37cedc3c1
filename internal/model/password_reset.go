package model

import "time"

// PasswordReset models a row in the `password_resets` table. A record binds
// a one-time numeric code to a user until ExpiresAt. At most one live record
// exists per user; issuing a new code replaces the previous one.
type PasswordReset struct {
	ID        uint64
	UserID    uint64
	OTP       string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record can no longer be consumed at now.
func (p PasswordReset) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
