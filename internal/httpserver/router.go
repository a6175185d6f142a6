package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/metrics"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/search"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

type Deps struct {
	Store    repo.Store
	Users    *UsersHTTP
	Products *ProductsHTTP
	Orders   *OrdersHTTP
	Auth     *AuthHTTP
	Guard    *authmw.Middleware
	Gatherer prometheus.Gatherer
}

// NewDeps builds the services and handlers over one store. A nil publisher
// or index disables events or search.
func NewDeps(store repo.Store, tok *tokens.Service, pub events.Publisher, idx search.Index, g prometheus.Gatherer) *Deps {
	if pub == nil {
		pub = events.Nop{}
	}
	if idx == nil {
		idx = search.Disabled{}
	}

	users, products, orders := store.Users(), store.Products(), store.Orders()
	return &Deps{
		Store: store,
		Users: &UsersHTTP{
			Svc:    &service.UserService{Users: users, Orders: orders},
			Events: pub,
		},
		Products: &ProductsHTTP{
			Svc:    &service.ProductService{Products: products},
			Events: pub,
			Search: idx,
		},
		Orders: &OrdersHTTP{
			Svc:    &service.OrderService{Orders: orders, Products: products, Users: users, Now: time.Now},
			Events: pub,
		},
		Auth: &AuthHTTP{
			Svc:    &service.AuthService{Users: users, Tokens: tok},
			Events: pub,
		},
		Guard:    authmw.New(tok),
		Gatherer: g,
	}
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	if d.Gatherer != nil {
		e.GET("/metrics", metrics.Handler(d.Gatherer))
	}

	users := e.Group("/users")
	users.GET("", d.Users.List)
	users.POST("", d.Users.Create)
	users.GET("/:id", d.Users.Get)
	users.GET("/:id/orders", d.Users.ListOrders)

	products := e.Group("/products")
	products.GET("", d.Products.List)
	products.POST("", d.Products.Create)
	products.GET("/search", d.Products.Search)
	products.GET("/category/:category", d.Products.ByCategory)
	products.GET("/:id", d.Products.Get)
	products.PUT("/:id", d.Products.Update)
	products.DELETE("/:id", d.Products.Delete)

	orders := e.Group("/orders")
	orders.GET("", d.Orders.List)
	orders.POST("", d.Orders.Create)
	orders.GET("/:id", d.Orders.Get)
	orders.PATCH("/:id", d.Orders.UpdateStatus, d.Guard.RequireAdmin)
	orders.DELETE("/:id", d.Orders.Delete, d.Guard.RequireAdmin)

	auth := e.Group("/api/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/public-data", d.Auth.PublicData)

	auth.GET("/profile", d.Auth.Profile, d.Guard.RequireAuth)
	auth.PUT("/profile", d.Auth.UpdateProfile, d.Guard.RequireAuth)

	auth.POST("/assign-role", d.Auth.AssignRole, d.Guard.RequireAdmin)
	auth.DELETE("/user/:id", d.Auth.DeleteUser, d.Guard.RequireAdmin)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := d.Store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
