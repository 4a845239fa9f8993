package repository

import (
	"context"

	"shopforge/internal/domain"
)

type CartRepository interface {
	FindByOwner(ctx context.Context, owner domain.CartOwner) ([]domain.CartItem, error)
	FindItem(ctx context.Context, owner domain.CartOwner, productID uint64) (*domain.CartItem, error)
	FindItemByID(ctx context.Context, owner domain.CartOwner, itemID uint64) (*domain.CartItem, error)
	Save(ctx context.Context, item *domain.CartItem) error
	Delete(ctx context.Context, owner domain.CartOwner, itemID uint64) error
	Clear(ctx context.Context, owner domain.CartOwner) error
	Count(ctx context.Context, owner domain.CartOwner) (int64, error)

	// MergeGuestCart moves a guest cart onto a user after login. Lines for
	// products already in the user cart are merged by summing quantities.
	MergeGuestCart(ctx context.Context, sessionID string, userID uint64) error
}
