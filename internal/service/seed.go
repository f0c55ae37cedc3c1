package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/repository"
	"github.com/iliyamo/coffee-shop-auth/internal/utils"
)

// Seed makes sure every role exists and, when adminEmail is set, that an
// administrator account exists. Existing accounts are left untouched.
func Seed(ctx context.Context, roles RoleStore, users UserStore, hasher *utils.PasswordHasher, adminEmail, adminPassword string, log logrus.FieldLogger) error {
	if err := roles.EnsureSeeded(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if adminEmail == "" {
		return nil
	}

	exists, err := users.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("look up admin: %w", err)
	}
	if exists {
		return nil
	}
	if adminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required to create the admin account")
	}

	role, err := roles.GetByName(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	hash, err := hasher.Hash(adminPassword)
	if err != nil {
		return err
	}
	id, err := users.Create(ctx, model.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Status:       model.StatusActive,
		RoleID:       role.ID,
	})
	if errors.Is(err, repository.ErrEmailExists) {
		// created concurrently by another instance
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.WithField("user_id", id).Info("admin account seeded")
	return nil
}
