package mysql

import (
	"context"
	"errors"

	"shopforge/internal/domain"
	"shopforge/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) StockQuantity(ctx context.Context, id uint64) (int64, error) {
	var stock int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Select("stock_quantity").
		Where("id = ?", id).
		Scan(&stock).Error
	if err != nil {
		return 0, err
	}
	return stock, nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
