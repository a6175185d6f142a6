package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Events events.Publisher
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		if fields := fieldErrors(err); len(fields) > 0 {
			l.Warn("register_error", "status", http.StatusBadRequest, "reason", "validation failed", "fields", len(fields))
			return c.JSON(http.StatusBadRequest, transport.ValidationErrorResponse{Errors: fields})
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	publish(c, h.Events, events.TopicUsers, user.ID, "user_registered", map[string]any{
		"userId": user.ID,
		"email":  user.Email,
	})
	l.Info("user_registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "User registered successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	publish(c, h.Events, events.TopicUsers, res.User.ID, "user_logged_in", map[string]any{
		"userId": res.User.ID,
	})
	return c.JSON(http.StatusOK, transport.LoginResponse{Token: res.Token})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access Denied")
	}

	user, err := h.Svc.Profile(ctx, id.UserID)
	if err != nil {
		return fail(l, "profile_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access Denied")
	}

	var req transport.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		l.Warn("update_profile_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	if _, err := h.Svc.UpdateProfile(ctx, id.UserID, req); err != nil {
		return fail(l, "update_profile_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Profile updated successfully"})
}

func (h *AuthHTTP) PublicData(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "This is public data accessible to all users"})
}

func (h *AuthHTTP) AssignRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.assign_role")

	var req transport.AssignRoleRequest
	if err := bind(c, &req); err != nil {
		l.Warn("assign_role_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	user, err := h.Svc.AssignRole(ctx, req.UserID, req.Role)
	if err != nil {
		return fail(l, "assign_role_error", err)
	}
	l.Info("role_assigned", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Role assigned successfully"})
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.delete_user")

	id := c.Param("id")
	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return fail(l, "delete_user_error", err)
	}

	publish(c, h.Events, events.TopicUsers, id, "user_deleted", map[string]any{"userId": id})
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User deleted successfully"})
}
