package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrProductNotFound  = errors.New("product not found")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrCartItemNotFound = errors.New("cart item not found")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotPayable   = errors.New("order is not awaiting payment")
	ErrInvalidTransition = errors.New("illegal order status transition")

	ErrMissingReference        = errors.New("missing payment reference")
	ErrVerificationUnavailable = errors.New("unable to verify payment")
	ErrPaymentNotSuccessful    = errors.New("payment was not successful")
	ErrOrderUnresolvable       = errors.New("could not resolve order from reference")
)

// ValidationError carries per-field messages for bad checkout input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid shipping details (%d fields)", len(e.Fields))
}

// InsufficientStockError names the offending product and what is left.
type InsufficientStockError struct {
	ProductID   uint64
	ProductName string
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s has only %d in stock", e.ProductName, e.Available)
}
