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

type OrdersHTTP struct {
	Svc    *service.OrderService
	Events events.Publisher
}

func (h *OrdersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	orders, err := h.Svc.ListOrders(ctx, util.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrdersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	order, err := h.Svc.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var req transport.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_order_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	publish(c, h.Events, events.TopicOrders, order.ID, "order_created", map[string]any{
		"orderId":     order.ID,
		"userId":      order.UserID,
		"items":       len(order.Products),
		"totalAmount": order.TotalAmount,
	})
	l.Info("order_created", "order_id", order.ID, "user_id", order.UserID, "total", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrdersHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.status")

	var req transport.UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		l.Warn("update_order_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	publish(c, h.Events, events.TopicOrders, order.ID, "order_status_changed", map[string]any{
		"orderId": order.ID,
		"status":  order.Status,
	})
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.delete")

	id := c.Param("id")
	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		return fail(l, "delete_order_error", err)
	}

	publish(c, h.Events, events.TopicOrders, id, "order_deleted", map[string]any{"orderId": id})
	return c.NoContent(http.StatusNoContent)
}
