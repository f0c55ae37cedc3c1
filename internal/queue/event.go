// Package queue defines message payloads exchanged over the message broker.
package queue

// PasswordResetQueue is the default queue carrying reset mail requests.
const PasswordResetQueue = "mail.password_reset"

// PasswordResetRequestedEvent is published when a user asks for a password
// reset code. It carries everything the mail collaborator needs to deliver
// the code without querying the primary database.
type PasswordResetRequestedEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	OTP         string `json:"otp"`
	ExpiresAt   string `json:"expires_at"`
	RequestedAt string `json:"requested_at"`
}
