package services

import (
	"context"
	"errors"
	"strings"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
)

// ProductService exposes the read-only catalog.
type ProductService interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type productServiceImpl struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productServiceImpl{products: products, logger: logger}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.products.List(ctx, models.ProductFilter{Category: strings.TrimSpace(category)})
	if err != nil {
		return nil, apperrors.Fault("Error fetching products", err)
	}
	return products, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Fault("Error fetching product", err)
	}
	return p, nil
}
