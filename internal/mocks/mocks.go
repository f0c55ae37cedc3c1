// Package mocks provides testify mocks for the service dependencies.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/queue"
)

// UserStore is a mock of service.UserStore.
type UserStore struct{ mock.Mock }

func (m *UserStore) Create(ctx context.Context, u model.User) (uint64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *UserStore) UpdateProfile(ctx context.Context, id uint64, name, phone string) error {
	return m.Called(ctx, id, name, phone).Error(0)
}

func (m *UserStore) UpdateAvatar(ctx context.Context, id uint64, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

func (m *UserStore) SetStatus(ctx context.Context, id uint64, status model.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *UserStore) SetRole(ctx context.Context, id uint64, roleID uint8) error {
	return m.Called(ctx, id, roleID).Error(0)
}

// RoleStore is a mock of service.RoleStore.
type RoleStore struct{ mock.Mock }

func (m *RoleStore) EnsureSeeded(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *RoleStore) GetByName(ctx context.Context, name model.RoleName) (model.Role, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Role), args.Error(1)
}

func (m *RoleStore) List(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	roles, _ := args.Get(0).([]model.Role)
	return roles, args.Error(1)
}

// PasswordResetStore is a mock of service.PasswordResetStore.
type PasswordResetStore struct{ mock.Mock }

func (m *PasswordResetStore) Replace(ctx context.Context, rec model.PasswordReset) (uint64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *PasswordResetStore) FindByOTPAndUser(ctx context.Context, otp string, userID uint64) (model.PasswordReset, error) {
	args := m.Called(ctx, otp, userID)
	return args.Get(0).(model.PasswordReset), args.Error(1)
}

func (m *PasswordResetStore) Consume(ctx context.Context, recordID, userID uint64, hash string) error {
	return m.Called(ctx, recordID, userID, hash).Error(0)
}

func (m *PasswordResetStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Mailer is a mock of service.Mailer.
type Mailer struct{ mock.Mock }

func (m *Mailer) PublishPasswordReset(ctx context.Context, ev queue.PasswordResetRequestedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// AvatarStore is a mock of service.AvatarStore.
type AvatarStore struct{ mock.Mock }

func (m *AvatarStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, r, size, contentType).Error(0)
}

func (m *AvatarStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
