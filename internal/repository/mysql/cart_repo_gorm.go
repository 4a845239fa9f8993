package mysql

import (
	"context"
	"errors"

	"shopforge/internal/domain"
	"shopforge/internal/repository"

	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

// ownerScope narrows a query to one cart owner. Guest rows are matched on
// session_id with user_id IS NULL so a stale session id can never read a
// logged-in user's cart.
func ownerScope(db *gorm.DB, owner domain.CartOwner) *gorm.DB {
	if userID, ok := owner.UserID(); ok {
		return db.Where("user_id = ?", userID)
	}
	sessionID, _ := owner.SessionID()
	return db.Where("session_id = ? AND user_id IS NULL", sessionID)
}

func (r *cartRepo) FindByOwner(ctx context.Context, owner domain.CartOwner) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := ownerScope(r.db.WithContext(ctx).Model(&domain.CartItem{}), owner).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) FindItem(ctx context.Context, owner domain.CartOwner, productID uint64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := ownerScope(r.db.WithContext(ctx), owner).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) FindItemByID(ctx context.Context, owner domain.CartOwner, itemID uint64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := ownerScope(r.db.WithContext(ctx), owner).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) Save(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepo) Delete(ctx context.Context, owner domain.CartOwner, itemID uint64) error {
	return ownerScope(r.db.WithContext(ctx), owner).
		Where("id = ?", itemID).
		Delete(&domain.CartItem{}).Error
}

func (r *cartRepo) Clear(ctx context.Context, owner domain.CartOwner) error {
	return ownerScope(r.db.WithContext(ctx), owner).Delete(&domain.CartItem{}).Error
}

func (r *cartRepo) Count(ctx context.Context, owner domain.CartOwner) (int64, error) {
	var total int64
	err := ownerScope(r.db.WithContext(ctx).Model(&domain.CartItem{}), owner).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *cartRepo) MergeGuestCart(ctx context.Context, sessionID string, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guestItems []domain.CartItem
		err := tx.Where("session_id = ? AND user_id IS NULL", sessionID).
			Find(&guestItems).Error
		if err != nil {
			return err
		}

		for _, guest := range guestItems {
			var existing domain.CartItem
			err := tx.Where("user_id = ? AND product_id = ?", userID, guest.ProductID).
				First(&existing).Error
			switch {
			case err == nil:
				// Same product in both carts: sum quantities, drop the guest row.
				err = tx.Model(&domain.CartItem{}).
					Where("id = ?", existing.ID).
					Update("quantity", existing.Quantity+guest.Quantity).Error
				if err != nil {
					return err
				}
				if err := tx.Delete(&domain.CartItem{}, guest.ID).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				err = tx.Model(&domain.CartItem{}).
					Where("id = ?", guest.ID).
					Updates(map[string]interface{}{"user_id": userID, "session_id": nil}).Error
				if err != nil {
					return err
				}
			default:
				return err
			}
		}

		return nil
	})
}
