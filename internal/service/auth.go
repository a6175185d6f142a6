package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/ids"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AuthService struct {
	Users  repo.UserRepository
	Tokens *tokens.Service
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := strings.TrimSpace(req.Email)
	if email == "" || len(req.Password) < 6 {
		return nil, newError(ErrValidation, "email and a password of at least 6 characters are required")
	}
	if err := ensureEmailFree(ctx, s.Users, email, ""); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, err
	}
	return user, nil
}

// Login does not reveal whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login failed", "status", 400, "reason", "unknown email")
			return nil, newError(ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 400, "reason", "wrong password", "user_id", user.ID)
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}

	token, exp, err := s.Tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	if !ids.Valid(userID) {
		return nil, invalidID()
	}
	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile keeps the current value of any field that is absent or empty.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req transport.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && email != user.Email {
			if err := ensureEmailFree(ctx, s.Users, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if err := s.Users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, newError(ErrConflict, "Email already in use")
		case errors.Is(err, repo.ErrNotFound):
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) AssignRole(ctx context.Context, userID, role string) (*models.User, error) {
	if !ids.Valid(userID) {
		return nil, invalidID()
	}
	if !models.ValidRole(role) {
		return nil, newError(ErrValidation, "Invalid role")
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.Users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	if !ids.Valid(userID) {
		return invalidID()
	}
	if err := s.Users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		return err
	}
	return nil
}
