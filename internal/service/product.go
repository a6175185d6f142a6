package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/ecommerce_api/internal/ids"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type ProductService struct {
	Products repo.ProductRepository
}

func (s *ProductService) ListProducts(ctx context.Context, page int) ([]models.Product, error) {
	offset, limit := util.Calculate(page, util.ProductsPerPage)
	return s.Products.ListProducts(ctx, offset, limit)
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if !ids.Valid(id) {
		return nil, invalidID()
	}
	p, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Product not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.Products.ListProductsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, newError(ErrNotFound, "No products found for category: %s", category)
	}
	return products, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newError(ErrValidation, "name is required")
	}
	if req.Price == nil {
		return nil, newError(ErrValidation, "price is required")
	}
	if *req.Price < 0 {
		return nil, newError(ErrValidation, "price must be >= 0")
	}
	if req.StockQuantity < 0 {
		return nil, newError(ErrValidation, "stockQuantity must be >= 0")
	}

	p := &models.Product{
		Name:          name,
		Price:         *req.Price,
		Description:   req.Description,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
	}
	if err := s.Products.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct applies only the fields present in req.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req transport.UpdateProductRequest) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newError(ErrValidation, "name must not be empty")
		}
		p.Name = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, newError(ErrValidation, "price must be >= 0")
		}
		p.Price = *req.Price
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, newError(ErrValidation, "stockQuantity must be >= 0")
		}
		p.StockQuantity = *req.StockQuantity
	}

	if err := s.Products.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(ErrNotFound, "Product not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if !ids.Valid(id) {
		return invalidID()
	}
	if err := s.Products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(ErrNotFound, "Product not found")
		}
		return err
	}
	return nil
}
