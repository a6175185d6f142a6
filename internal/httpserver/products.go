package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/search"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type ProductsHTTP struct {
	Svc    *service.ProductService
	Events events.Publisher
	Search search.Index
}

func (h *ProductsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	products, err := h.Svc.ListProducts(ctx, util.ParsePage(c.QueryParam("page")))
	if err != nil {
		return fail(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	p, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductsHTTP) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.category")

	products, err := h.Svc.ListByCategory(ctx, c.Param("category"))
	if err != nil {
		return fail(l, "list_category_error", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_error", "status", http.StatusBadRequest, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available")
	}

	from, size := util.Calculate(util.ParsePage(c.QueryParam("page")), util.ProductsPerPage)
	total, products, err := h.Search.Search(ctx, q, from, size)
	if err != nil {
		if errors.Is(err, search.ErrDisabled) {
			l.Warn("search_error", "status", http.StatusServiceUnavailable, "reason", "search disabled")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is not available")
		}
		l.Error("search_error", "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Products: products})
}

func (h *ProductsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.create")

	var req transport.CreateProductRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_product_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	h.index(c, p)
	publish(c, h.Events, events.TopicProducts, p.ID, "product_created", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	})
	l.Info("product_created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.update")

	var req transport.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		l.Warn("update_product_error", "status", http.StatusBadRequest, "reason", "invalid body")
		return err
	}

	p, err := h.Svc.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_product_error", err)
	}

	h.index(c, p)
	publish(c, h.Events, events.TopicProducts, p.ID, "product_updated", map[string]any{
		"productId": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	})
	return c.JSON(http.StatusOK, p)
}

func (h *ProductsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.delete")

	id := c.Param("id")
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	if h.Search != nil {
		sctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		defer cancel()
		if err := h.Search.DeleteProduct(sctx, id); err != nil {
			l.Error("unindex_product_error", "product_id", id, "error", err)
		}
	}
	publish(c, h.Events, events.TopicProducts, id, "product_deleted", map[string]any{
		"productId": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductsHTTP) index(c echo.Context, p *models.Product) {
	if h.Search == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), sideEffectTimeout)
	defer cancel()
	if err := h.Search.IndexProduct(ctx, *p); err != nil {
		logging.FromContext(ctx).Error("index_product_error", "product_id", p.ID, "error", err)
	}
}
