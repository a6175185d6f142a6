package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/db"
	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/ids"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo/gormrepo"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (r *recorder) Publish(_ context.Context, _, _ string, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("broker down")
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type memIndex struct {
	mu   sync.Mutex
	docs map[string]models.Product
}

func (m *memIndex) IndexProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[p.ID] = p
	return nil
}

func (m *memIndex) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []models.Product
	for _, p := range m.docs {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			hits = append(hits, p)
		}
	}
	total := int64(len(hits))
	if from >= len(hits) {
		return total, []models.Product{}, nil
	}
	end := from + size
	if end > len(hits) {
		end = len(hits)
	}
	return total, hits[from:end], nil
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Store  *gormrepo.GormRepo
	Tokens *tokens.Service
	Events *recorder
	Index  *memIndex
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	store, err := gormrepo.New(ctx, gdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	env := &testEnv{
		T:      t,
		E:      echo.New(),
		Store:  store,
		Tokens: tokens.NewService([]byte("test-jwt-secret"), time.Hour),
		Events: &recorder{},
		Index:  &memIndex{docs: map[string]models.Product{}},
	}
	Register(env.E, NewDeps(store, env.Tokens, env.Events, env.Index, prometheus.NewRegistry()))
	return env
}

func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder, dst any) {
	env.T.Helper()
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (env *testEnv) seedUser(email, role string) *models.User {
	env.T.Helper()
	pw, err := hash.HashPassword("secret1")
	require.NoError(env.T, err)
	u := &models.User{Name: "Seed", Email: email, PasswordHash: pw, Role: role}
	require.NoError(env.T, env.Store.CreateUser(context.Background(), u))
	return u
}

func (env *testEnv) token(u *models.User) string {
	env.T.Helper()
	tok, _, err := env.Tokens.IssueToken(u.ID, u.Role)
	require.NoError(env.T, err)
	return tok
}

func (env *testEnv) createProduct(name string, price float64, category string) models.Product {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/products", map[string]any{
		"name": name, "price": price, "category": category, "stockQuantity": 5,
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	var p models.Product
	env.decode(rec, &p)
	return p
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/ready", nil, "").Code)

	require.NoError(t, env.Store.Close(context.Background()))
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/health/ready", nil, "").Code)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Ann", "email": "not-an-email", "password": "123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp transport.ValidationErrorResponse
	env.decode(rec, &resp)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, transport.FieldError{Field: "email", Message: "Please enter a valid email"}, resp.Errors[0])
	assert.Equal(t, transport.FieldError{Field: "password", Message: "Password must be at least 6 characters"}, resp.Errors[1])
	assert.Empty(t, env.Events.types())
}

func TestRegisterLoginProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ann@example.com", "password": "nope"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ann@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login transport.LoginResponse
	env.decode(rec, &login)
	require.NotEmpty(t, login.Token)

	rec = env.do(http.MethodGet, "/api/auth/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Access Denied"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/auth/profile", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid Token"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/auth/profile", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile map[string]any
	env.decode(rec, &profile)
	assert.Equal(t, "ann@example.com", profile["email"])
	assert.Equal(t, "User", profile["role"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, profile, "PasswordHash")

	rec = env.do(http.MethodPut, "/api/auth/profile", map[string]any{"name": "Anna"}, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Profile updated successfully"}`, rec.Body.String())

	env.seedUser("bob@example.com", models.RoleUser)
	rec = env.do(http.MethodPut, "/api/auth/profile", map[string]any{"email": "bob@example.com"}, login.Token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Email already in use"}`, rec.Body.String())

	rec = env.do(http.MethodPut, "/api/auth/profile", map[string]any{"email": "broken"}, login.Token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{"user_registered", "user_logged_in"}, env.Events.types())
}

func TestPublicData(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/public-data", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"This is public data accessible to all users"}`, rec.Body.String())
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)

	admin := env.seedUser("admin@example.com", models.RoleAdmin)
	user := env.seedUser("user@example.com", models.RoleUser)

	rec := env.do(http.MethodDelete, "/api/auth/user/"+user.ID, nil, env.token(user))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden: insufficient role"}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/api/auth/user/"+user.ID, nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/assign-role", map[string]any{"userId": user.ID, "role": "Root"}, env.token(admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/assign-role", map[string]any{"userId": ids.New(), "role": "Admin"}, env.token(admin))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/assign-role", map[string]any{"userId": user.ID, "role": "Admin"}, env.token(admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Role assigned successfully"}`, rec.Body.String())

	got, err := env.Store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	rec = env.do(http.MethodDelete, "/api/auth/user/bad-id", nil, env.token(admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid id"}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/api/auth/user/"+user.ID, nil, env.token(admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/api/auth/user/"+user.ID, nil, env.token(admin))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"user_deleted"}, env.Events.types())
}

func TestAdminGate_SameAnswerOnEveryAdminRoute(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser("user@example.com", models.RoleUser)
	target := ids.New()

	routes := []struct {
		method, path string
		body         any
	}{
		{http.MethodPatch, "/orders/" + target, map[string]any{"status": "shipped"}},
		{http.MethodDelete, "/orders/" + target, nil},
		{http.MethodPost, "/api/auth/assign-role", map[string]any{"userId": target, "role": "Admin"}},
		{http.MethodDelete, "/api/auth/user/" + target, nil},
	}
	for _, r := range routes {
		rec := env.do(r.method, r.path, r.body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
		assert.JSONEq(t, `{"message":"Access Denied"}`, rec.Body.String(), "%s %s", r.method, r.path)

		rec = env.do(r.method, r.path, r.body, "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
		assert.JSONEq(t, `{"message":"Invalid Token"}`, rec.Body.String(), "%s %s", r.method, r.path)

		rec = env.do(r.method, r.path, r.body, env.token(user))
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", r.method, r.path)
		assert.JSONEq(t, `{"message":"Forbidden: insufficient role"}`, rec.Body.String(), "%s %s", r.method, r.path)
	}
	assert.Empty(t, env.Events.types())
}

func TestUsers_HugePageIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("a@example.com", models.RoleUser)

	rec := env.do(http.MethodGet, "/users?page=3074457345618258604", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var users []models.User
	env.decode(rec, &users)
	assert.Empty(t, users)
}

func TestUsersRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/users", map[string]any{"name": "Ann", "email": "ann@example.com"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"password is required"}`, rec.Body.String())

	var userIDs []string
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"} {
		rec = env.do(http.MethodPost, "/users", map[string]any{"name": "U", "email": email, "password": "pw"}, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var u map[string]any
		env.decode(rec, &u)
		assert.NotContains(t, u, "password")
		userIDs = append(userIDs, u["id"].(string))
	}

	stored, err := env.Store.GetUserByEmail(context.Background(), "a@x.io")
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "pw"))

	rec = env.do(http.MethodPost, "/users", map[string]any{"name": "U", "email": "a@x.io", "password": "pw"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, rec.Body.String())

	var page1, page2, fallback []models.User
	env.decode(env.do(http.MethodGet, "/users?page=1", nil, ""), &page1)
	env.decode(env.do(http.MethodGet, "/users?page=2", nil, ""), &page2)
	env.decode(env.do(http.MethodGet, "/users?page=abc", nil, ""), &fallback)
	require.Len(t, page1, 3)
	require.Len(t, page2, 1)
	assert.Equal(t, page1, fallback)
	assert.Equal(t, userIDs[3], page2[0].ID)

	rec = env.do(http.MethodGet, "/users/"+userIDs[0], nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/users/xyz", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid id"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/users/"+ids.New(), nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/users/"+userIDs[0]+"/orders", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No orders found for this user"}`, rec.Body.String())

	p := env.createProduct("Pen", 2, "office")
	rec = env.do(http.MethodPost, "/orders", map[string]any{
		"userId":   userIDs[0],
		"products": []map[string]any{{"product": p.ID, "quantity": 3}},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/users/"+userIDs[0]+"/orders", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []map[string]any
	env.decode(rec, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, userIDs[0], orders[0]["userId"])
	assert.Equal(t, 6.0, orders[0]["totalAmount"])
}

func TestProductsRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/products", map[string]any{"name": "Bad", "price": -1}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"price must be >= 0"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/products", map[string]any{"name": "NoPrice"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"price is required"}`, rec.Body.String())

	shirt := env.createProduct("Red shirt", 10, "clothes")
	env.createProduct("Red hat", 5, "clothes")
	lamp := env.createProduct("Lamp", 30, "home")
	env.createProduct("Chair", 40, "home")

	var page1, page2 []models.Product
	env.decode(env.do(http.MethodGet, "/products", nil, ""), &page1)
	env.decode(env.do(http.MethodGet, "/products?page=2", nil, ""), &page2)
	require.Len(t, page1, 3)
	require.Len(t, page2, 1)
	assert.Equal(t, shirt.ID, page1[0].ID)

	rec = env.do(http.MethodGet, "/products/"+lamp.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/products/category/clothes", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var clothes []models.Product
	env.decode(rec, &clothes)
	assert.Len(t, clothes, 2)

	rec = env.do(http.MethodGet, "/products/category/nonexistent", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No products found for category: nonexistent"}`, rec.Body.String())

	rec = env.do(http.MethodPut, "/products/"+lamp.ID, map[string]any{"price": 25.5}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Product
	env.decode(rec, &updated)
	assert.Equal(t, 25.5, updated.Price)
	assert.Equal(t, "Lamp", updated.Name)
	assert.Equal(t, 25.5, env.Index.docs[lamp.ID].Price)

	rec = env.do(http.MethodPut, "/products/"+lamp.ID, map[string]any{"stockQuantity": -1}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/products/"+ids.New(), map[string]any{"price": 1}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/products/search?q=red", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found transport.SearchResponse
	env.decode(rec, &found)
	assert.EqualValues(t, 2, found.Total)

	rec = env.do(http.MethodGet, "/products/search", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/products/"+lamp.ID, nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, env.Index.docs, lamp.ID)

	rec = env.do(http.MethodDelete, "/products/"+lamp.ID, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/products/nope", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{
		"product_created", "product_created", "product_created", "product_created",
		"product_updated", "product_deleted",
	}, env.Events.types())
}

func TestSearchDisabled(t *testing.T) {
	ctx := context.Background()
	gdb, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	store, err := gormrepo.New(ctx, gdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	e := echo.New()
	Register(e, NewDeps(store, tokens.NewService([]byte("s"), time.Hour), nil, nil, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/search?q=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrdersRoutes(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.seedUser("buyer@example.com", models.RoleUser)
	admin := env.seedUser("admin@example.com", models.RoleAdmin)
	a := env.createProduct("A", 5, "x")
	b := env.createProduct("B", 10, "x")

	rec := env.do(http.MethodPost, "/orders", map[string]any{
		"userId": buyer.ID,
		"products": []map[string]any{
			{"product": a.ID, "quantity": 2},
			{"product": b.ID, "quantity": 1},
		},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order transport.OrderResponse
	env.decode(rec, &order)
	assert.Equal(t, 20.0, order.TotalAmount)
	assert.Equal(t, "pending", order.Status)
	require.NotNil(t, order.User)
	assert.Equal(t, "buyer@example.com", order.User.Email)
	require.Len(t, order.Products, 2)
	require.NotNil(t, order.Products[1].Details)
	assert.Equal(t, "B", order.Products[1].Details.Name)

	missing := ids.New()
	rec = env.do(http.MethodPost, "/orders", map[string]any{
		"userId":   buyer.ID,
		"products": []map[string]any{{"product": a.ID, "quantity": 1}, {"product": missing, "quantity": 1}},
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Product with ID `+missing+` not found"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/orders", map[string]any{
		"userId":   "bad",
		"products": []map[string]any{{"product": a.ID, "quantity": 1}},
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid id"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/orders", map[string]any{
		"userId":   buyer.ID,
		"products": []map[string]any{{"product": a.ID, "quantity": 0}},
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"products[0].quantity must be >= 1"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/orders", map[string]any{"userId": buyer.ID, "products": []any{}}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := env.Store.ListOrders(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	var list []transport.OrderResponse
	env.decode(env.do(http.MethodGet, "/orders?page=1", nil, ""), &list)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)
	env.decode(env.do(http.MethodGet, "/orders?page=2", nil, ""), &list)
	assert.Empty(t, list)

	rec = env.do(http.MethodGet, "/orders/"+order.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodGet, "/orders/"+ids.New(), nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Order not found"}`, rec.Body.String())
	rec = env.do(http.MethodGet, "/orders/zzz", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/orders/"+order.ID, map[string]any{"status": "shipped"}, env.token(buyer))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPatch, "/orders/"+order.ID, map[string]any{"status": "lost"}, env.token(admin))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/orders/"+order.ID, map[string]any{"status": "shipped"}, env.token(admin))
	require.Equal(t, http.StatusOK, rec.Code)
	var raw models.Order
	env.decode(rec, &raw)
	assert.Equal(t, "shipped", raw.Status)

	rec = env.do(http.MethodDelete, "/orders/"+order.ID, nil, env.token(admin))
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodDelete, "/orders/"+order.ID, nil, env.token(admin))
	require.Equal(t, http.StatusNotFound, rec.Code)

	types := env.Events.types()
	assert.Equal(t, []string{"product_created", "product_created", "order_created", "order_status_changed", "order_deleted"}, types)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t)
	env.Events.fail = true

	rec := env.do(http.MethodPost, "/products", map[string]any{"name": "X", "price": 1}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, env.Events.types())
}
