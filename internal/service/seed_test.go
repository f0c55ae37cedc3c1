package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-auth/internal/logger"
	"github.com/iliyamo/coffee-shop-auth/internal/mocks"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/repository"
)

func TestSeed_CreatesAdmin(t *testing.T) {
	roles := &mocks.RoleStore{}
	users := &mocks.UserStore{}
	roles.On("EnsureSeeded", mock.Anything).Return(nil)
	roles.On("GetByName", mock.Anything, model.RoleAdmin).Return(model.Role{ID: 1, Name: model.RoleAdmin}, nil)
	users.On("ExistsByEmail", mock.Anything, "root@x.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "root@x.com" && u.RoleID == 1 && testHasher.Verify("pw", u.PasswordHash)
	})).Return(uint64(1), nil)

	require.NoError(t, Seed(context.Background(), roles, users, testHasher, "root@x.com", "pw", logger.NewNoop()))
	users.AssertExpectations(t)
}

func TestSeed_ExistingAdminUntouched(t *testing.T) {
	roles := &mocks.RoleStore{}
	users := &mocks.UserStore{}
	roles.On("EnsureSeeded", mock.Anything).Return(nil)
	users.On("ExistsByEmail", mock.Anything, "root@x.com").Return(true, nil)

	require.NoError(t, Seed(context.Background(), roles, users, testHasher, "root@x.com", "pw", logger.NewNoop()))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSeed_LookupFailure(t *testing.T) {
	roles := &mocks.RoleStore{}
	users := &mocks.UserStore{}
	roles.On("EnsureSeeded", mock.Anything).Return(nil)
	users.On("ExistsByEmail", mock.Anything, "root@x.com").Return(false, errors.New("db down"))

	assert.Error(t, Seed(context.Background(), roles, users, testHasher, "root@x.com", "pw", logger.NewNoop()))
}

func TestSeed_DuplicateRaceTolerated(t *testing.T) {
	roles := &mocks.RoleStore{}
	users := &mocks.UserStore{}
	roles.On("EnsureSeeded", mock.Anything).Return(nil)
	roles.On("GetByName", mock.Anything, model.RoleAdmin).Return(model.Role{ID: 1, Name: model.RoleAdmin}, nil)
	users.On("ExistsByEmail", mock.Anything, "root@x.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(uint64(0), repository.ErrEmailExists)
	log, hook := test.NewNullLogger()

	require.NoError(t, Seed(context.Background(), roles, users, testHasher, "root@x.com", "pw", log))
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, "admin account seeded", entry.Message)
	}
}

func TestSeed_RolesOnly(t *testing.T) {
	roles := &mocks.RoleStore{}
	roles.On("EnsureSeeded", mock.Anything).Return(nil)
	require.NoError(t, Seed(context.Background(), roles, &mocks.UserStore{}, testHasher, "", "", logger.NewNoop()))
}

func TestSeed_RoleFailure(t *testing.T) {
	roles := &mocks.RoleStore{}
	roles.On("EnsureSeeded", mock.Anything).Return(errors.New("db down"))
	assert.Error(t, Seed(context.Background(), roles, &mocks.UserStore{}, testHasher, "", "", logger.NewNoop()))
}
