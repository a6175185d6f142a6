package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type Verifier interface {
	VerifyToken(raw string) (*tokens.Identity, error)
}

type Middleware struct {
	Tokens Verifier
}

func New(v Verifier) *Middleware {
	return &Middleware{Tokens: v}
}

// RequireAuth verifies the bearer token and stores the caller identity on
// the echo context.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_failed", "status", http.StatusUnauthorized, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Access Denied")
		}

		id, err := m.Tokens.VerifyToken(raw)
		if err != nil {
			l.Warn("auth_failed", "status", http.StatusUnauthorized, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Token")
		}

		setIdentity(c, id)
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func (m *Middleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access Denied")
			}
			if id.Role != role {
				logging.FromContext(c.Request().Context()).Warn("auth_failed",
					"middleware", "role",
					"status", http.StatusForbidden,
					"reason", "insufficient role",
					"user_id", id.UserID,
					"role", id.Role,
				)
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden: insufficient role")
			}
			return next(c)
		}
	}
}

// RequireAdmin chains token verification and the Admin role check.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(m.RequireRole(models.RoleAdmin)(next))
}

func IdentityFrom(c echo.Context) (*tokens.Identity, bool) {
	userID, _ := c.Get(ctxUserID).(string)
	role, _ := c.Get(ctxRole).(string)
	if userID == "" {
		return nil, false
	}
	return &tokens.Identity{UserID: userID, Role: role}, true
}

func setIdentity(c echo.Context, id *tokens.Identity) {
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxRole, id.Role)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
