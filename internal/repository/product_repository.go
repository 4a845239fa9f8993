package repository

import (
	"context"

	"shopforge/internal/domain"
)

type ProductRepository interface {
	// FindByID returns nil, nil when the product does not exist or is inactive.
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	StockQuantity(ctx context.Context, id uint64) (int64, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
}
