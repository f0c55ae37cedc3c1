package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/coffee-shop-auth/internal/logger"
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
	"github.com/iliyamo/coffee-shop-auth/internal/mocks"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/utils"
)

var (
	_ UserStore          = (*mocks.UserStore)(nil)
	_ RoleStore          = (*mocks.RoleStore)(nil)
	_ PasswordResetStore = (*mocks.PasswordResetStore)(nil)
	_ Mailer             = (*mocks.Mailer)(nil)
	_ AvatarStore        = (*mocks.AvatarStore)(nil)
	_ Mailer             = (*MailPublisher)(nil)
)

var testHasher = utils.NewPasswordHasher(bcrypt.MinCost)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newCodec(t *testing.T, c *clock) *utils.TokenCodec {
	t.Helper()
	codec, err := utils.NewTokenCodec(utils.TokenConfig{
		Secret:     base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		Issuer:     "test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}, utils.WithClock(c.Now))
	require.NoError(t, err)
	return codec
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := testHasher.Hash(plain)
	require.NoError(t, err)
	return h
}

func withPrincipal(id uint64, email string, role model.RoleName) context.Context {
	return model.WithPrincipal(context.Background(), model.Principal{UserID: id, Email: email, Role: role})
}

func newTestAuthService(t *testing.T, c *clock) (*AuthService, *mocks.UserStore, *mocks.RoleStore, *mocks.AvatarStore) {
	t.Helper()
	users := &mocks.UserStore{}
	roles := &mocks.RoleStore{}
	avatars := &mocks.AvatarStore{}
	svc := NewAuthService(users, roles, testHasher, newCodec(t, c), avatars, metrics.New(), logger.NewNoop())
	return svc, users, roles, avatars
}
