package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// UserAdminService backs the staff and admin user management endpoints.
type UserAdminService struct {
	users UserStore
	roles RoleStore
	log   logrus.FieldLogger
}

func NewUserAdminService(users UserStore, roles RoleStore, log logrus.FieldLogger) *UserAdminService {
	return &UserAdminService{users: users, roles: roles, log: log}
}

// List returns every user that is not an administrator.
func (s *UserAdminService) List(ctx context.Context) ([]Profile, error) {
	users, err := s.users.ListNonAdmin(ctx)
	if err != nil {
		return nil, apperror.System(err)
	}
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, toProfile(u))
	}
	return out, nil
}

// Ban disables the account so it can no longer log in or pass the gate.
func (s *UserAdminService) Ban(ctx context.Context, id uint64) (Profile, error) {
	return s.setStatus(ctx, id, model.StatusInactive)
}

// Unban re-enables a disabled account.
func (s *UserAdminService) Unban(ctx context.Context, id uint64) (Profile, error) {
	return s.setStatus(ctx, id, model.StatusActive)
}

// UpdateRole assigns one of the fixed roles to the user.
func (s *UserAdminService) UpdateRole(ctx context.Context, id uint64, roleName string) (Profile, error) {
	name, ok := model.ParseRole(roleName)
	if !ok {
		return Profile{}, apperror.InvalidRequest(fmt.Sprintf("unknown role %q", roleName))
	}
	u, err := s.target(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return Profile{}, storeError(err, "role")
	}
	if err := s.users.SetRole(ctx, u.ID, role.ID); err != nil {
		return Profile{}, storeError(err, "user")
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "from": u.Role, "to": role.Name}).Info("user role changed")
	u.RoleID, u.Role = role.ID, role.Name
	return toProfile(u), nil
}

func (s *UserAdminService) setStatus(ctx context.Context, id uint64, status model.Status) (Profile, error) {
	u, err := s.target(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if err := s.users.SetStatus(ctx, u.ID, status); err != nil {
		return Profile{}, storeError(err, "user")
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "status": status}).Info("user status changed")
	u.Status = status
	return toProfile(u), nil
}

// target loads the user to modify and refuses self-modification.
func (s *UserAdminService) target(ctx context.Context, id uint64) (model.User, error) {
	if p, ok := model.PrincipalFrom(ctx); ok && p.UserID == id {
		return model.User{}, apperror.InvalidRequest("cannot modify your own account")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, storeError(err, "user")
	}
	return u, nil
}
