// Package service implements dashboard sign-in and user administration.
package service

import (
	"context"
	"time"

	"vitrine_backend/internal/auth/password"
	"vitrine_backend/internal/auth/repository"
	"vitrine_backend/internal/auth/transport"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/config"
	"vitrine_backend/platform/httpkit"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/sanitize"
	"vitrine_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	msgInvalidCredentials = "invalid email or password"
	msgLastAdmin          = "at least one admin account must remain"
	msgDeleteSelf         = "you cannot delete your own account"

	authEventSignIn = "sign_in"
)

// dummyHash keeps sign-in timing similar whether or not the email exists.
var dummyHash, _ = password.Hash("not-a-real-password")

type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	val  *validator.Validator
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.Repository, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, val: val, log: log, now: time.Now}
}

// SignIn checks the credentials and issues an access token.
func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (transport.AuthResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.AuthResponse{}, err
	}
	email := sanitize.Email(req.Email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			_ = password.Compare(dummyHash, req.Password)
			s.log.WithContext(ctx).AuthEvent(authEventSignIn, email, false, "unknown email")
			return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.AuthResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.WithContext(ctx).AuthEvent(authEventSignIn, email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	ttl := s.cfg.GetAccessTokenTTL()
	expiresAt := s.now().Add(ttl)
	token, err := httpkit.SignAccessToken(user.ID, user.Email, user.IsAdmin, s.cfg.GetJWTAccessSecret(), ttl)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.log.WithContext(ctx).AuthEvent(authEventSignIn, email, true, "")
	return transport.AuthResponse{AccessToken: token, ExpiresAt: expiresAt, User: toUserResponse(user)}, nil
}

// Me returns the signed-in user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *Service) ListUsers(ctx context.Context) (transport.UserListResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return transport.UserListResponse{}, err
	}
	items := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	return transport.UserListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	return s.Me(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.UserResponse{}, err
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, repository.User{
		ID:           uuid.New(),
		Email:        sanitize.Email(req.Email),
		FullName:     sanitize.Line(req.FullName),
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	})
	if err != nil {
		return transport.UserResponse{}, err
	}
	s.log.WithContext(ctx).Info("user created", "id", user.ID, "admin", user.IsAdmin)
	return toUserResponse(user), nil
}

// UpdateUser replaces a user's profile. The last admin cannot lose the admin role.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	if err := s.val.Check(req); err != nil {
		return transport.UserResponse{}, err
	}

	current, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	if current.IsAdmin && !req.IsAdmin {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return transport.UserResponse{}, err
		}
	}

	next := repository.User{
		ID:       id,
		Email:    sanitize.Email(req.Email),
		FullName: sanitize.Line(req.FullName),
		IsAdmin:  req.IsAdmin,
	}
	if req.Password != nil {
		if next.PasswordHash, err = password.Hash(*req.Password); err != nil {
			return transport.UserResponse{}, err
		}
	}

	user, err := s.repo.UpdateUser(ctx, next)
	if err != nil {
		return transport.UserResponse{}, err
	}
	s.log.WithContext(ctx).Info("user updated", "id", user.ID, "admin", user.IsAdmin, "password_changed", req.Password != nil)
	return toUserResponse(user), nil
}

// DeleteUser removes a user. Admins cannot delete themselves or the last admin.
func (s *Service) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperr.Forbidden(msgDeleteSelf)
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("user deleted", "id", id)
	return nil
}

// Bootstrap creates the configured admin account when the users table is empty.
func (s *Service) Bootstrap(ctx context.Context, cfg config.BootstrapConfig) error {
	email := sanitize.Email(cfg.GetAdminEmail())
	if email == "" {
		return nil
	}
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(cfg.GetAdminPassword())
	if err != nil {
		return err
	}
	user, err := s.repo.CreateUser(ctx, repository.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     "Administrateur",
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", "id", user.ID, "email", user.Email)
	return nil
}

func (s *Service) ensureOtherAdmin(ctx context.Context) error {
	admins, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperr.Conflict(msgLastAdmin)
	}
	return nil
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
