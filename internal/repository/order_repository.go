package repository

import (
	"context"
	"fmt"

	"shopforge/internal/domain"
)

// StockConflictError is returned from the checkout transaction when the
// conditional stock debit matches no row, i.e. another order won the race.
type StockConflictError struct {
	ProductID   uint64
	ProductName string
	Available   int64
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available", e.ProductID, e.Available)
}

type OrderRepository interface {
	// CreateOrder persists the order, its item snapshots, the stock debit
	// for every line and the cart wipe in one transaction. Any failure
	// rolls back the lot; a losing stock race surfaces as *StockConflictError.
	CreateOrder(ctx context.Context, owner domain.CartOwner, order *domain.Order, items []domain.OrderItem) error

	OrderNumberTaken(ctx context.Context, number string) (bool, error)

	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	FindItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error)

	// FinalizePayment flips the order to paid/processing and records the
	// payment in one transaction, guarded by payment_status='pending'.
	// Returns false without error when the guard matched no row, meaning
	// the order was already reconciled.
	FinalizePayment(ctx context.Context, orderID uint64, payment *domain.Payment) (bool, error)

	// UpdateStatus moves the order from one status to another with an
	// optimistic WHERE on the current status. Returns false when the order
	// was not in the expected status anymore.
	UpdateStatus(ctx context.Context, orderID uint64, from, to domain.OrderStatus) (bool, error)

	// CancelAndRestock cancels an unpaid order and returns its reserved
	// stock to the catalog, both in one transaction.
	CancelAndRestock(ctx context.Context, orderID uint64, from domain.OrderStatus) (bool, error)
}
