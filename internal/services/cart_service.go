package services

import (
	"context"

	"shopforge/internal/domain"
	"shopforge/internal/repository"
)

type CartService struct {
	cart     repository.CartRepository
	products *ProductCache
}

func NewCartService(cart repository.CartRepository, products *ProductCache) *CartService {
	return &CartService{cart: cart, products: products}
}

// AddItem puts a product in the owner's cart. Quantities are clamped to the
// current stock; adding a product already in the cart sums the quantities.
func (s *CartService) AddItem(ctx context.Context, owner domain.CartOwner, productID uint64, quantity int64) (*domain.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	prod, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, ErrProductNotFound
	}
	if prod.StockQuantity <= 0 {
		return nil, ErrOutOfStock
	}

	existing, err := s.cart.FindItem(ctx, owner, productID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		newQty := existing.Quantity + quantity
		if newQty > prod.StockQuantity {
			newQty = prod.StockQuantity
		}
		existing.Quantity = newQty
		if err := s.cart.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if quantity > prod.StockQuantity {
		quantity = prod.StockQuantity
	}
	item := &domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
	}
	if userID, ok := owner.UserID(); ok {
		item.UserID = &userID
	} else {
		sessionID, _ := owner.SessionID()
		item.SessionID = &sessionID
	}
	if err := s.cart.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, owner domain.CartOwner, itemID uint64, quantity int64) error {
	item, err := s.cart.FindItemByID(ctx, owner, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}

	if quantity <= 0 {
		return s.cart.Delete(ctx, owner, itemID)
	}

	stock, err := s.products.Stock(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if quantity > stock {
		quantity = stock
	}
	item.Quantity = quantity
	return s.cart.Save(ctx, item)
}

func (s *CartService) RemoveItem(ctx context.Context, owner domain.CartOwner, itemID uint64) error {
	return s.cart.Delete(ctx, owner, itemID)
}

func (s *CartService) Clear(ctx context.Context, owner domain.CartOwner) error {
	return s.cart.Clear(ctx, owner)
}

func (s *CartService) Count(ctx context.Context, owner domain.CartOwner) (int64, error) {
	return s.cart.Count(ctx, owner)
}

// GetCart returns the owner's lines enriched with product snapshots and a
// subtotal over effective prices. Lines whose product has gone inactive
// are left out, matching what checkout will later consider.
func (s *CartService) GetCart(ctx context.Context, owner domain.CartOwner) ([]domain.CartLine, float64, error) {
	items, err := s.cart.FindByOwner(ctx, owner)
	if err != nil {
		return nil, 0, err
	}

	lines := make([]domain.CartLine, 0, len(items))
	var subtotal float64
	for _, item := range items {
		prod, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if prod == nil {
			continue
		}
		price := prod.EffectivePrice()
		lines = append(lines, domain.CartLine{
			ItemID:      item.ID,
			ProductID:   prod.ID,
			ProductName: prod.Name,
			SKU:         prod.SKU,
			Image:       prod.FeaturedImage,
			UnitPrice:   price,
			Quantity:    item.Quantity,
			LineTotal:   price * float64(item.Quantity),
			InStock:     prod.StockQuantity,
		})
		subtotal += price * float64(item.Quantity)
	}
	return lines, subtotal, nil
}

// MergeGuestCart folds a guest session's cart into a user's cart after
// login, summing quantities for duplicate products.
func (s *CartService) MergeGuestCart(ctx context.Context, sessionID string, userID uint64) error {
	return s.cart.MergeGuestCart(ctx, sessionID, userID)
}
