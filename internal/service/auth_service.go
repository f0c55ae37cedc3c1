package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/repository"
	"github.com/iliyamo/coffee-shop-auth/internal/utils"
)

const maxAvatarBytes = 2 << 20

// LoginResult is the token pair handed out on a successful login.
type LoginResult struct {
	AccessToken            string `json:"accessToken"`
	RefreshToken           string `json:"refreshToken"`
	AccessLifetimeSeconds  int64  `json:"accessLifetimeSeconds"`
	RefreshLifetimeSeconds int64  `json:"refreshLifetimeSeconds"`
}

// RefreshResult carries a freshly issued access token.
type RefreshResult struct {
	AccessToken           string `json:"accessToken"`
	AccessLifetimeSeconds int64  `json:"accessLifetimeSeconds"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type ProfileInput struct {
	Name  string
	Phone string
}

// AvatarUpload is an image streamed from a multipart form.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Profile is the public view of a user.
type Profile struct {
	ID        uint64         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	AvatarKey string         `json:"avatarKey,omitempty"`
	Role      model.RoleName `json:"role"`
	Status    model.Status   `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toProfile(u model.User) Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		AvatarKey: u.AvatarKey,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// AuthService implements login, registration, token refresh and the
// self-service profile operations.
type AuthService struct {
	users   UserStore
	roles   RoleStore
	hasher  *utils.PasswordHasher
	tokens  *utils.TokenCodec
	avatars AvatarStore
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewAuthService wires the service. avatars may be nil, in which case
// avatar uploads are rejected.
func NewAuthService(
	users UserStore,
	roles RoleStore,
	hasher *utils.PasswordHasher,
	tokens *utils.TokenCodec,
	avatars AvatarStore,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		users:   users,
		roles:   roles,
		hasher:  hasher,
		tokens:  tokens,
		avatars: avatars,
		metrics: m,
		log:     log,
	}
}

// Login checks the credentials and issues an access/refresh pair. Unknown
// email, wrong password and disabled accounts all yield Unauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, apperror.InvalidRequest("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.LoginsTotal.WithLabelValues("unknown_user").Inc()
			return LoginResult{}, apperror.Unauthorized("Invalid email or password", nil)
		}
		return LoginResult{}, apperror.System(fmt.Errorf("load user: %w", err))
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		s.metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return LoginResult{}, apperror.Unauthorized("Invalid email or password", nil)
	}
	if !u.IsActive() {
		s.metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return LoginResult{}, apperror.Unauthorized("Account is disabled", nil)
	}

	access, err := s.tokens.IssueAccessToken(u.Email)
	if err != nil {
		return LoginResult{}, apperror.System(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(u.Email)
	if err != nil {
		return LoginResult{}, apperror.System(err)
	}
	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.metrics.TokensIssuedTotal.WithLabelValues(string(utils.KindAccess)).Inc()
	s.metrics.TokensIssuedTotal.WithLabelValues(string(utils.KindRefresh)).Inc()
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user logged in")

	return LoginResult{
		AccessToken:            access.Value,
		RefreshToken:           refresh.Value,
		AccessLifetimeSeconds:  int64(s.tokens.AccessTTL() / time.Second),
		RefreshLifetimeSeconds: int64(s.tokens.RefreshTTL() / time.Second),
	}, nil
}

// Register creates an ACTIVE user with the USER role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return Profile{}, apperror.InvalidRequest("a valid email is required")
	}
	if in.Password == "" {
		return Profile{}, apperror.InvalidRequest("password is required")
	}

	role, err := s.roles.GetByName(ctx, model.RoleUser)
	if err != nil {
		return Profile{}, apperror.System(fmt.Errorf("load role %s: %w", model.RoleUser, err))
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Profile{}, apperror.System(err)
	}

	u := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Status:       model.StatusActive,
		RoleID:       role.ID,
		Role:         role.Name,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Profile{}, apperror.FieldExisted("email")
		}
		return Profile{}, apperror.System(fmt.Errorf("create user: %w", err))
	}
	u.ID = id
	u.CreatedAt = time.Now().UTC()
	s.log.WithField("user_id", id).Info("user registered")
	return toProfile(u), nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token. The refresh token is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, raw string) (RefreshResult, error) {
	claims, err := s.tokens.VerifyRefresh(raw)
	if err != nil {
		return RefreshResult{}, err
	}
	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RefreshResult{}, apperror.Unauthorized("User no longer exists", err)
		}
		return RefreshResult{}, apperror.System(err)
	}
	if !u.IsActive() {
		return RefreshResult{}, apperror.Unauthorized("Account is disabled", nil)
	}
	access, err := s.tokens.IssueAccessToken(u.Email)
	if err != nil {
		return RefreshResult{}, apperror.System(err)
	}
	s.metrics.TokensIssuedTotal.WithLabelValues(string(utils.KindAccess)).Inc()
	return RefreshResult{
		AccessToken:           access.Value,
		AccessLifetimeSeconds: int64(s.tokens.AccessTTL() / time.Second),
	}, nil
}

// Authenticate resolves a bearer access token to the principal it names.
// Invalid tokens and unknown subjects are Unauthorized; disabled accounts
// are Forbidden.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (model.Principal, error) {
	claims, err := s.tokens.VerifyAccess(raw)
	if err != nil {
		return model.Principal{}, err
	}
	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Principal{}, apperror.Unauthorized("User no longer exists", err)
		}
		return model.Principal{}, apperror.System(err)
	}
	if !u.IsActive() {
		return model.Principal{}, apperror.Forbidden("Account is disabled")
	}
	return model.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	u, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return apperror.InvalidRequest("new password is required")
	}
	if !s.hasher.Verify(oldPassword, u.PasswordHash) {
		return apperror.Unauthorized("Old password is incorrect", nil)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperror.System(err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return storeError(err, "user")
	}
	s.log.WithField("user_id", u.ID).Info("password changed")
	return nil
}

// GetProfileByToken returns the profile of the authenticated caller.
func (s *AuthService) GetProfileByToken(ctx context.Context) (Profile, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(u), nil
}

// UpdateProfile changes the caller's name and phone.
func (s *AuthService) UpdateProfile(ctx context.Context, in ProfileInput) (Profile, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return Profile{}, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Phone = strings.TrimSpace(in.Phone)
	if err := s.users.UpdateProfile(ctx, u.ID, u.Name, u.Phone); err != nil {
		return Profile{}, storeError(err, "user")
	}
	return toProfile(u), nil
}

// UpdateAvatar stores an image for the caller and records its key.
func (s *AuthService) UpdateAvatar(ctx context.Context, up AvatarUpload) (Profile, error) {
	if s.avatars == nil {
		return Profile{}, apperror.InvalidRequest("avatar storage is not configured")
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return Profile{}, apperror.InvalidRequest("avatar must be an image")
	}
	if up.Size <= 0 || up.Size > maxAvatarBytes {
		return Profile{}, apperror.InvalidRequest("avatar must be between 1 byte and 2 MiB")
	}
	u, err := s.currentUser(ctx)
	if err != nil {
		return Profile{}, err
	}

	key := fmt.Sprintf("users/%d/%s%s", u.ID, uuid.NewString(), strings.ToLower(path.Ext(up.Filename)))
	if err := s.avatars.Upload(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return Profile{}, apperror.System(fmt.Errorf("upload avatar: %w", err))
	}
	if err := s.users.UpdateAvatar(ctx, u.ID, key); err != nil {
		return Profile{}, storeError(err, "user")
	}
	if u.AvatarKey != "" {
		if err := s.avatars.Delete(ctx, u.AvatarKey); err != nil {
			s.log.WithError(err).WithField("key", u.AvatarKey).Warn("failed to remove previous avatar")
		}
	}
	u.AvatarKey = key
	return toProfile(u), nil
}

// ListRoles returns the fixed role set.
func (s *AuthService) ListRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperror.System(err)
	}
	return roles, nil
}

func (s *AuthService) currentUser(ctx context.Context) (model.User, error) {
	p, ok := model.PrincipalFrom(ctx)
	if !ok {
		return model.User{}, apperror.Unauthorized("Full authentication is required", nil)
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return model.User{}, storeError(err, "user")
	}
	return u, nil
}

// storeError maps repository failures to the response taxonomy.
func storeError(err error, field string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.FieldNotFound(field)
	}
	return apperror.System(err)
}
