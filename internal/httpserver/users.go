package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type UsersHTTP struct {
	Svc    *service.UserService
	Events events.Publisher
}

func (h *UsersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	users, err := h.Svc.ListUsers(ctx, util.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UsersHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.create")

	var req transport.CreateUserRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_user_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	user, err := h.Svc.CreateUser(ctx, req)
	if err != nil {
		return fail(l, "create_user_error", err)
	}

	publish(c, h.Events, events.TopicUsers, user.ID, "user_created", map[string]any{
		"userId": user.ID,
		"email":  user.Email,
	})
	l.Info("user_created", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UsersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get")

	user, err := h.Svc.GetUser(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UsersHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.orders")

	orders, err := h.Svc.ListUserOrders(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "list_user_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}
