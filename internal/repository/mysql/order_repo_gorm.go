package mysql

import (
	"context"
	"errors"
	"log"

	"shopforge/internal/domain"
	"shopforge/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateOrder(ctx context.Context, owner domain.CartOwner, order *domain.Order, items []domain.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			log.Printf("order insert error: %v", err)
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}

			// Conditional debit: the WHERE on stock_quantity is what keeps
			// concurrent checkouts from driving stock negative.
			res := tx.Exec(
				"UPDATE products SET stock_quantity = stock_quantity - ?, sales_count = sales_count + ? WHERE id = ? AND stock_quantity >= ?",
				items[i].Quantity, items[i].Quantity, items[i].ProductID, items[i].Quantity,
			)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var available int64
				tx.Model(&domain.Product{}).
					Select("stock_quantity").
					Where("id = ?", items[i].ProductID).
					Scan(&available)
				return &repository.StockConflictError{
					ProductID:   items[i].ProductID,
					ProductName: items[i].ProductName,
					Available:   available,
				}
			}
		}

		if err := ownerScope(tx, owner).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (r *orderRepo) OrderNumberTaken(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FinalizePayment(ctx context.Context, orderID uint64, payment *domain.Payment) (bool, error) {
	finalized := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row-level compare-and-swap: only a still-pending order can be
		// flipped to paid. A replayed callback matches zero rows here.
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND payment_status = ?", orderID, domain.PaymentStatusPending).
			Updates(map[string]interface{}{
				"payment_status":    domain.PaymentStatusPaid,
				"status":            domain.OrderStatusProcessing,
				"payment_method":    payment.Gateway,
				"payment_reference": payment.TransactionReference,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		payment.OrderID = orderID
		if err := tx.Create(payment).Error; err != nil {
			// Unique index on transaction_reference; a duplicate here means
			// the same reference was concurrently recorded, roll back.
			log.Printf("payment insert error for order %d: %v", orderID, err)
			return err
		}

		finalized = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return finalized, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID uint64, from, to domain.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepo) CancelAndRestock(ctx context.Context, orderID uint64, from domain.OrderStatus) (bool, error) {
	cancelled := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Update("status", domain.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var items []domain.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			err := tx.Exec(
				"UPDATE products SET stock_quantity = stock_quantity + ?, sales_count = sales_count - ? WHERE id = ?",
				item.Quantity, item.Quantity, item.ProductID,
			).Error
			if err != nil {
				return err
			}
		}

		cancelled = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return cancelled, nil
}
