package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ecommerce_api/internal/ids"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

var byCreatedAt = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func (r *MongoRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = ids.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	doc, ok := newOrderDoc(o)
	if !ok {
		return errInvalidID
	}
	_, err := r.orders.InsertOne(ctx, doc)
	return translate(err)
}

func (r *MongoRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	var doc orderDoc
	if err := r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	order := doc.model()
	return &order, nil
}

func (r *MongoRepo) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, error) {
	cur, err := r.orders.Find(ctx, bson.M{}, page(offset, limit, byCreatedAt))
	if err != nil {
		return nil, err
	}
	return decodeOrders(ctx, cur)
}

func (r *MongoRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	oid, ok := objectID(userID)
	if !ok {
		return []models.Order{}, nil
	}
	cur, err := r.orders.Find(ctx, bson.M{"user": oid}, options.Find().SetSort(byCreatedAt))
	if err != nil {
		return nil, err
	}
	return decodeOrders(ctx, cur)
}

func decodeOrders(ctx context.Context, cur *mongo.Cursor) ([]models.Order, error) {
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.model())
	}
	return orders, nil
}

func (r *MongoRepo) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDoc
	err := r.orders.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	order := doc.model()
	return &order, nil
}

func (r *MongoRepo) DeleteOrder(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return repo.ErrNotFound
	}
	res, err := r.orders.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
