package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/ids"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type UserService struct {
	Users  repo.UserRepository
	Orders repo.OrderRepository
}

func (s *UserService) ListUsers(ctx context.Context, page int) ([]models.User, error) {
	offset, limit := util.Calculate(page, util.UsersPerPage)
	return s.Users.ListUsers(ctx, offset, limit)
}

func (s *UserService) CreateUser(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	email := strings.TrimSpace(req.Email)
	if req.Name == "" || email == "" || req.Password == "" {
		return nil, newError(ErrValidation, "name, email and password are required")
	}

	if err := ensureEmailFree(ctx, s.Users, email, ""); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("create_user_error", "reason", "cannot hash the password", "error", err)
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

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !ids.Valid(id) {
		return nil, invalidID()
	}
	user, err := s.Users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// ListUserOrders treats a user without orders as not found.
func (s *UserService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if !ids.Valid(userID) {
		return nil, invalidID()
	}
	orders, err := s.Orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, newError(ErrNotFound, "No orders found for this user")
	}
	return orders, nil
}

// ensureEmailFree fails with ErrConflict when another user (not selfID)
// already owns email. The unique index still guards concurrent writers.
func ensureEmailFree(ctx context.Context, users repo.UserRepository, email, selfID string) error {
	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == selfID:
		return nil
	}
	if selfID == "" {
		return newError(ErrConflict, "User already exists")
	}
	return newError(ErrConflict, "Email already in use")
}
