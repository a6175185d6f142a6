package models

import (
	"time"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:24"            json:"id"`
	Name         string    `gorm:"not null"                      json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                      json:"-"`
	Role         string    `gorm:"not null;default:User"         json:"role"`
	CreatedAt    time.Time `gorm:"not null"                      json:"createdAt"`
}

type Product struct {
	ID            string    `gorm:"primaryKey;size:24"  json:"id"`
	Name          string    `gorm:"not null"            json:"name"`
	Price         float64   `gorm:"not null"            json:"price"`
	Description   string    `                           json:"description"`
	Category      string    `gorm:"index"               json:"category"`
	StockQuantity int       `gorm:"not null;default:0"  json:"stockQuantity"`
	CreatedAt     time.Time `gorm:"not null"            json:"createdAt"`
}

// OrderItem references a product by id; it is never a copy of the product.
type OrderItem struct {
	ID        uint   `gorm:"primaryKey"            json:"-"`
	OrderID   string `gorm:"index;size:24;not null" json:"-"`
	Position  int    `gorm:"not null"              json:"-"`
	ProductID string `gorm:"size:24;not null"      json:"product"`
	Quantity  int    `gorm:"not null"              json:"quantity"`
}

type Order struct {
	ID          string      `gorm:"primaryKey;size:24"                      json:"id"`
	UserID      string      `gorm:"index;size:24;not null"                  json:"userId"`
	Products    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"products"`
	TotalAmount float64     `gorm:"not null"                                json:"totalAmount"`
	Status      string      `gorm:"not null;default:pending"                json:"status"`
	CreatedAt   time.Time   `gorm:"index;not null"                          json:"createdAt"`
}
