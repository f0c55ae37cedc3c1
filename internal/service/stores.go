package service

import (
	"context"
	"io"
	"time"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/queue"
)

// UserStore is the identity persistence used by the services.
// repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, u model.User) (uint64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListNonAdmin(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	UpdateProfile(ctx context.Context, id uint64, name, phone string) error
	UpdateAvatar(ctx context.Context, id uint64, key string) error
	SetStatus(ctx context.Context, id uint64, status model.Status) error
	SetRole(ctx context.Context, id uint64, roleID uint8) error
}

// RoleStore reads the fixed role set.
type RoleStore interface {
	EnsureSeeded(ctx context.Context) error
	GetByName(ctx context.Context, name model.RoleName) (model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
}

// PasswordResetStore persists one-time reset codes.
type PasswordResetStore interface {
	Replace(ctx context.Context, rec model.PasswordReset) (uint64, error)
	FindByOTPAndUser(ctx context.Context, otp string, userID uint64) (model.PasswordReset, error)
	Consume(ctx context.Context, recordID, userID uint64, hash string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Mailer hands reset codes to the mail collaborator.
type Mailer interface {
	PublishPasswordReset(ctx context.Context, ev queue.PasswordResetRequestedEvent) error
}

// AvatarStore saves avatar images under a key.
type AvatarStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}
