package transport

import (
	"time"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type AssignRoleRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role"   validate:"required,oneof=User Admin"`
}

type CreateProductRequest struct {
	Name          string   `json:"name"          validate:"required"`
	Price         *float64 `json:"price"         validate:"required,gte=0"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	StockQuantity int      `json:"stockQuantity" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"          validate:"omitempty,min=1"`
	Price         *float64 `json:"price"         validate:"omitempty,gte=0"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
}

type OrderLineRequest struct {
	Product  string `json:"product"  validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type CreateOrderRequest struct {
	UserID   string             `json:"userId"   validate:"required"`
	Products []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

// OrderLineResponse keeps the stored product id and, when the product still
// exists, its current document.
type OrderLineResponse struct {
	Product  string          `json:"product"`
	Details  *models.Product `json:"details"`
	Quantity int             `json:"quantity"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	User        *models.User        `json:"user"`
	Products    []OrderLineResponse `json:"products"`
	TotalAmount float64             `json:"totalAmount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
}
