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

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	doc, ok := newProductDoc(p)
	if !ok {
		return errInvalidID
	}
	_, err := r.products.InsertOne(ctx, doc)
	return translate(err)
}

func (r *MongoRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	var doc productDoc
	if err := r.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	product := doc.model()
	return &product, nil
}

func (r *MongoRepo) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, error) {
	cur, err := r.products.Find(ctx, bson.M{}, page(offset, limit, bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cur)
}

func (r *MongoRepo) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.products.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cur)
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]models.Product, error) {
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.model())
	}
	return items, nil
}

func (r *MongoRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	oid, ok := objectID(p.ID)
	if !ok {
		return repo.ErrNotFound
	}
	res, err := r.products.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":          p.Name,
		"price":         p.Price,
		"description":   p.Description,
		"category":      p.Category,
		"stockQuantity": p.StockQuantity,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MongoRepo) DeleteProduct(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return repo.ErrNotFound
	}
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
