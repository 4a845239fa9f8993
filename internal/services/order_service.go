package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shopforge/internal/config"
	"shopforge/internal/domain"
	rabbit "shopforge/internal/infra/rabbitmq"
	"shopforge/internal/repository"
)

const maxOrderNumberAttempts = 5

// ShippingDetails is the checkout form input. Everything except the postal
// code and notes is required.
type ShippingDetails struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	Notes      string
}

type OrderService struct {
	orders    repository.OrderRepository
	cart      repository.CartRepository
	products  *ProductCache
	publisher rabbit.PublisherInterface
	cfg       config.Config
}

func NewOrderService(orders repository.OrderRepository, cart repository.CartRepository, products *ProductCache, publisher rabbit.PublisherInterface, cfg config.Config) *OrderService {
	return &OrderService{
		orders:    orders,
		cart:      cart,
		products:  products,
		publisher: publisher,
		cfg:       cfg,
	}
}

// CreateOrder turns the user's cart into a persisted order. Stock is
// re-checked against live counters before the transaction and debited
// conditionally inside it, so a losing race still fails cleanly with no
// partial writes. On success the cart is empty and totals are fixed forever.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint64, shipping ShippingDetails) (*domain.Order, error) {
	owner := domain.UserOwner(userID)

	cartItems, err := s.cart.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	if verr := validateShipping(shipping); verr != nil {
		return nil, verr
	}

	var orderItems []domain.OrderItem
	var subtotal float64
	for _, line := range cartItems {
		prod, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if prod == nil {
			// Product deactivated since it was carted; skip like the
			// storefront listing does.
			continue
		}

		stock, err := s.products.Stock(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > stock {
			return nil, &InsufficientStockError{
				ProductID:   prod.ID,
				ProductName: prod.Name,
				Available:   stock,
			}
		}

		price := prod.EffectivePrice()
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:    prod.ID,
			ProductName:  prod.Name,
			ProductSKU:   prod.SKU,
			ProductImage: prod.FeaturedImage,
			Quantity:     line.Quantity,
			UnitPrice:    price,
			TotalPrice:   price * float64(line.Quantity),
		})
		subtotal += price * float64(line.Quantity)
	}
	if len(orderItems) == 0 {
		return nil, ErrEmptyCart
	}

	var shippingAmount float64
	if subtotal < s.cfg.FreeShippingThreshold {
		shippingAmount = s.cfg.ShippingCost
	}
	var taxAmount float64
	if s.cfg.TaxEnabled {
		taxAmount = subtotal * (s.cfg.TaxRate / 100)
	}
	discountAmount := 0.0
	total := subtotal + shippingAmount + taxAmount - discountAmount

	number, err := s.mintOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:        userID,
		OrderNumber:   number,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,

		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		ShippingAmount: shippingAmount,
		DiscountAmount: discountAmount,
		TotalAmount:    total,

		ShippingFirstName:  shipping.FirstName,
		ShippingLastName:   shipping.LastName,
		ShippingEmail:      shipping.Email,
		ShippingPhone:      shipping.Phone,
		ShippingAddress:    shipping.Address,
		ShippingCity:       shipping.City,
		ShippingState:      shipping.State,
		ShippingPostalCode: shipping.PostalCode,
		Notes:              shipping.Notes,
	}

	if err := s.orders.CreateOrder(ctx, owner, order, orderItems); err != nil {
		var conflict *repository.StockConflictError
		if errors.As(err, &conflict) {
			return nil, &InsufficientStockError{
				ProductID:   conflict.ProductID,
				ProductName: conflict.ProductName,
				Available:   conflict.Available,
			}
		}
		return nil, err
	}

	go s.publishOrderCreated(context.Background(), order, len(orderItems))

	return order, nil
}

// mintOrderNumber generates order numbers until one is free. The suffix is
// random, so collisions are rare but possible within a day.
func (s *OrderService) mintOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number := domain.NewOrderNumber(time.Now())
		taken, err := s.orders.OrderNumberTaken(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to mint a unique order number after %d attempts", maxOrderNumberAttempts)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order, itemCount int) {
	evt := domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   itemCount,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("Failed to publish order.created for %s: %v", order.OrderNumber, err)
	}
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	items, err := s.orders.FindItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// UpdateOrderStatus applies an admin status change with the closed
// transition set enforced. Cancelling an order that was never paid returns
// its stock to the catalog in the same transaction.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderNumber string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	var ok bool
	if next == domain.OrderStatusCancelled && order.PaymentStatus == domain.PaymentStatusPending {
		ok, err = s.orders.CancelAndRestock(ctx, order.ID, order.Status)
	} else {
		ok, err = s.orders.UpdateStatus(ctx, order.ID, order.Status, next)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		// The order moved under us; the transition no longer applies.
		return nil, ErrInvalidTransition
	}

	order.Status = next
	return order, nil
}

func validateShipping(in ShippingDetails) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(in.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["last_name"] = "Last name is required"
	}
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		fields["email"] = "Email is required"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "Phone number is required"
	}
	if strings.TrimSpace(in.Address) == "" {
		fields["address"] = "Address is required"
	}
	if strings.TrimSpace(in.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(in.State) == "" {
		fields["state"] = "State is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
