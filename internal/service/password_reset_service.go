package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/queue"
	"github.com/iliyamo/coffee-shop-auth/internal/repository"
	"github.com/iliyamo/coffee-shop-auth/internal/utils"
)

// ResetConfig holds the OTP shape and lifetime.
type ResetConfig struct {
	Digits int
	TTL    time.Duration
}

// PasswordResetService issues and redeems one-time reset codes.
type PasswordResetService struct {
	users   UserStore
	resets  PasswordResetStore
	hasher  *utils.PasswordHasher
	mailer  Mailer
	cfg     ResetConfig
	metrics *metrics.Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

type ResetOption func(*PasswordResetService)

// WithResetClock replaces the time source.
func WithResetClock(now func() time.Time) ResetOption {
	return func(s *PasswordResetService) { s.now = now }
}

func NewPasswordResetService(
	users UserStore,
	resets PasswordResetStore,
	hasher *utils.PasswordHasher,
	mailer Mailer,
	cfg ResetConfig,
	m *metrics.Metrics,
	log logrus.FieldLogger,
	opts ...ResetOption,
) *PasswordResetService {
	s := &PasswordResetService{
		users:   users,
		resets:  resets,
		hasher:  hasher,
		mailer:  mailer,
		cfg:     cfg,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestReset replaces any outstanding code for the user with a fresh one
// and hands it to the mailer. A mail failure is logged; the code stays valid.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperror.InvalidRequest("email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.metrics.ResetRequestsTotal.WithLabelValues("unknown_user").Inc()
		return storeError(err, "email")
	}

	otp, err := utils.GenerateOTP(s.cfg.Digits)
	if err != nil {
		return apperror.System(err)
	}
	now := s.now().UTC()
	// expires_at is stored with whole-second precision; round down so the
	// stored window never exceeds the configured TTL
	rec := model.PasswordReset{
		UserID:    u.ID,
		OTP:       otp,
		ExpiresAt: now.Add(s.cfg.TTL).Truncate(time.Second),
	}
	if _, err := s.resets.Replace(ctx, rec); err != nil {
		return apperror.System(fmt.Errorf("store reset code: %w", err))
	}
	s.metrics.ResetRequestsTotal.WithLabelValues("issued").Inc()

	ev := queue.PasswordResetRequestedEvent{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		OTP:         otp,
		ExpiresAt:   rec.ExpiresAt.Format(time.RFC3339),
		RequestedAt: now.Format(time.RFC3339),
	}
	if err := s.mailer.PublishPasswordReset(ctx, ev); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("password reset mail not queued")
	}
	return nil
}

// VerifyAndConsume redeems a code and sets the new password. A code works
// once and only strictly before its expiry; an expired code is left for
// the sweep.
func (s *PasswordResetService) VerifyAndConsume(ctx context.Context, email, otp, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" || newPassword == "" {
		return apperror.InvalidRequest("email, otp and new password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return storeError(err, "email")
	}
	rec, err := s.resets.FindByOTPAndUser(ctx, otp, u.ID)
	if err != nil {
		s.metrics.ResetConsumedTotal.WithLabelValues("not_found").Inc()
		return storeError(err, "otp")
	}
	if rec.Expired(s.now()) {
		s.metrics.ResetConsumedTotal.WithLabelValues("expired").Inc()
		return apperror.Unauthorized("OTP has expired", nil)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.System(err)
	}
	if err := s.resets.Consume(ctx, rec.ID, u.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// used or swept between the lookup and the delete
			s.metrics.ResetConsumedTotal.WithLabelValues("not_found").Inc()
			return apperror.FieldNotFound("otp")
		}
		return apperror.System(fmt.Errorf("consume reset code: %w", err))
	}
	s.metrics.ResetConsumedTotal.WithLabelValues("success").Inc()
	s.log.WithField("user_id", u.ID).Info("password reset completed")
	return nil
}
