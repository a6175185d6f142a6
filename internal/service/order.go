package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/ids"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type OrderService struct {
	Orders   repo.OrderRepository
	Products repo.ProductRepository
	Users    repo.UserRepository
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func productNotFound(id string) error {
	return newError(ErrNotFound, "Product with ID %s not found", id)
}

// CreateOrder resolves every line item before anything is written. The first
// product that cannot be resolved aborts the order.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*transport.OrderResponse, error) {
	l := logging.FromContext(ctx).With("svc", "orders.create")

	if !ids.Valid(req.UserID) {
		return nil, invalidID()
	}
	if len(req.Products) == 0 {
		return nil, newError(ErrValidation, "products required")
	}

	resolved := make(map[string]*models.Product, len(req.Products))
	items := make([]models.OrderItem, 0, len(req.Products))
	total := decimal.Zero

	for _, line := range req.Products {
		if line.Quantity <= 0 {
			return nil, newError(ErrValidation, "quantity must be > 0")
		}
		p, ok := resolved[line.Product]
		if !ok {
			if !ids.Valid(line.Product) {
				return nil, productNotFound(line.Product)
			}
			var err error
			p, err = s.Products.GetProduct(ctx, line.Product)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return nil, productNotFound(line.Product)
				}
				l.Error("create_order_error", "reason", "cannot resolve product", "product", line.Product, "error", err)
				return nil, err
			}
			resolved[line.Product] = p
		}

		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{ProductID: line.Product, Quantity: line.Quantity})
	}

	order := &models.Order{
		UserID:      req.UserID,
		Products:    items,
		TotalAmount: total.InexactFloat64(),
		Status:      models.OrderStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return s.resolve(ctx, order, resolved)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*transport.OrderResponse, error) {
	order, err := s.getRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, order, map[string]*models.Product{})
}

func (s *OrderService) ListOrders(ctx context.Context, page int) ([]transport.OrderResponse, error) {
	offset, limit := util.Calculate(page, util.OrdersPerPage)
	orders, err := s.Orders.ListOrders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	cache := map[string]*models.Product{}
	out := make([]transport.OrderResponse, 0, len(orders))
	for i := range orders {
		r, err := s.resolve(ctx, &orders[i], cache)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !ids.Valid(id) {
		return nil, invalidID()
	}
	if !models.ValidOrderStatus(status) {
		return nil, newError(ErrValidation, "invalid status: %s", status)
	}
	order, err := s.Orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if !ids.Valid(id) {
		return invalidID()
	}
	if err := s.Orders.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(ErrNotFound, "Order not found")
		}
		return err
	}
	return nil
}

func (s *OrderService) getRaw(ctx context.Context, id string) (*models.Order, error) {
	if !ids.Valid(id) {
		return nil, invalidID()
	}
	order, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Order not found")
		}
		return nil, err
	}
	return order, nil
}

// resolve joins the referenced user and products onto a stored order.
// Dangling references resolve to nil. cache is filled as products are read.
func (s *OrderService) resolve(ctx context.Context, order *models.Order, cache map[string]*models.Product) (*transport.OrderResponse, error) {
	out := &transport.OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		Products:    make([]transport.OrderLineResponse, 0, len(order.Products)),
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
	}

	user, err := s.Users.GetUser(ctx, order.UserID)
	switch {
	case err == nil:
		out.User = user
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	for _, it := range order.Products {
		p, ok := cache[it.ProductID]
		if !ok {
			p, err = s.Products.GetProduct(ctx, it.ProductID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			cache[it.ProductID] = p
		}
		out.Products = append(out.Products, transport.OrderLineResponse{
			Product:  it.ProductID,
			Details:  p,
			Quantity: it.Quantity,
		})
	}
	return out, nil
}
