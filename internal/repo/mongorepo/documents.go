package mongorepo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type productDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Name          string             `bson:"name"`
	Price         float64            `bson:"price"`
	Description   string             `bson:"description"`
	Category      string             `bson:"category"`
	StockQuantity int                `bson:"stockQuantity"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

type orderItemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	User        primitive.ObjectID `bson:"user"`
	Products    []orderItemDoc     `bson:"products"`
	TotalAmount float64            `bson:"totalAmount"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func objectID(hex string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(hex)
	return oid, err == nil
}

func newUserDoc(u *models.User) (userDoc, bool) {
	oid, ok := objectID(u.ID)
	if !ok {
		return userDoc{}, false
	}
	return userDoc{
		ID:        oid,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}, true
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}

func newProductDoc(p *models.Product) (productDoc, bool) {
	oid, ok := objectID(p.ID)
	if !ok {
		return productDoc{}, false
	}
	return productDoc{
		ID:            oid,
		Name:          p.Name,
		Price:         p.Price,
		Description:   p.Description,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
	}, true
}

func (d productDoc) model() models.Product {
	return models.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Price:         d.Price,
		Description:   d.Description,
		Category:      d.Category,
		StockQuantity: d.StockQuantity,
		CreatedAt:     d.CreatedAt,
	}
}

func newOrderDoc(o *models.Order) (orderDoc, bool) {
	oid, ok := objectID(o.ID)
	if !ok {
		return orderDoc{}, false
	}
	user, ok := objectID(o.UserID)
	if !ok {
		return orderDoc{}, false
	}
	items := make([]orderItemDoc, 0, len(o.Products))
	for _, it := range o.Products {
		pid, ok := objectID(it.ProductID)
		if !ok {
			return orderDoc{}, false
		}
		items = append(items, orderItemDoc{Product: pid, Quantity: it.Quantity})
	}
	return orderDoc{
		ID:          oid,
		User:        user,
		Products:    items,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}, true
}

func (d orderDoc) model() models.Order {
	items := make([]models.OrderItem, 0, len(d.Products))
	for i, it := range d.Products {
		items = append(items, models.OrderItem{
			OrderID:   d.ID.Hex(),
			Position:  i,
			ProductID: it.Product.Hex(),
			Quantity:  it.Quantity,
		})
	}
	return models.Order{
		ID:          d.ID.Hex(),
		UserID:      d.User.Hex(),
		Products:    items,
		TotalAmount: d.TotalAmount,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}
