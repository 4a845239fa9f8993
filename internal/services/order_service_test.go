package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shopforge/internal/config"
	"shopforge/internal/domain"
	"shopforge/internal/mocks"
	"shopforge/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testConfig() config.Config {
	return config.Config{
		CurrencyCode:          "NGN",
		TaxEnabled:            false,
		TaxRate:               7.5,
		FreeShippingThreshold: 0,
		ShippingCost:          2000,
	}
}

func newOrderServiceUnderTest(cfg config.Config) (*OrderService, *mocks.MockOrderRepository, *mocks.MockCartRepository, *mocks.MockProductRepository, *mocks.MockPublisher) {
	mockOrders := new(mocks.MockOrderRepository)
	mockCart := new(mocks.MockCartRepository)
	mockProducts := new(mocks.MockProductRepository)
	mockPub := new(mocks.MockPublisher)
	svc := NewOrderService(mockOrders, mockCart, NewProductCache(mockProducts), mockPub, cfg)
	return svc, mockOrders, mockCart, mockProducts, mockPub
}

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.Config
		shipping      ShippingDetails
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockCartRepository, *mocks.MockProductRepository, *mocks.MockPublisher)
		check         func(*testing.T, *domain.Order)
		expectedError error
	}{
		{
			name:     "successful checkout with two lines",
			cfg:      testConfig(),
			shipping: validShipping(),
			setupMocks: func(mockOrders *mocks.MockOrderRepository, mockCart *mocks.MockCartRepository, mockProducts *mocks.MockProductRepository, mockPub *mocks.MockPublisher) {
				mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
					mockCartItem(1, TestUserID, 1, 2),
					mockCartItem(2, TestUserID, 2, 1),
				}, nil)
				mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, nil, 10), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(10), nil)
				mockProducts.On("FindByID", mock.Anything, uint64(2)).Return(mockProduct(2, "Gadget", 500, nil, 5), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(2)).Return(int64(5), nil)
				mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				mockOrders.On("CreateOrder", mock.Anything, domain.UserOwner(TestUserID), mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderItem")).
					Return(nil).Run(func(args mock.Arguments) {
					order := args.Get(2).(*domain.Order)
					order.ID = TestOrderID
				})
				mockPub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, float64(2500), order.Subtotal)
				assert.Equal(t, float64(0), order.TaxAmount)
				assert.Equal(t, float64(0), order.ShippingAmount)
				assert.Equal(t, float64(2500), order.TotalAmount)
				assert.Equal(t, domain.OrderStatusPending, order.Status)
				assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
				assert.True(t, strings.HasPrefix(order.OrderNumber, "SF"))
				assert.Equal(t, "Ada", order.ShippingFirstName)
			},
		},
		{
			name: "tax is applied to the subtotal",
			cfg: config.Config{
				TaxEnabled:            true,
				TaxRate:               7.5,
				FreeShippingThreshold: 0,
				ShippingCost:          2000,
			},
			shipping: validShipping(),
			setupMocks: func(mockOrders *mocks.MockOrderRepository, mockCart *mocks.MockCartRepository, mockProducts *mocks.MockProductRepository, mockPub *mocks.MockPublisher) {
				mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
					mockCartItem(1, TestUserID, 1, 2),
					mockCartItem(2, TestUserID, 2, 1),
				}, nil)
				mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, nil, 10), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(10), nil)
				mockProducts.On("FindByID", mock.Anything, uint64(2)).Return(mockProduct(2, "Gadget", 500, nil, 5), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(2)).Return(int64(5), nil)
				mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				mockOrders.On("CreateOrder", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Order"), mock.Anything).Return(nil)
				mockPub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, float64(2500), order.Subtotal)
				assert.Equal(t, 187.5, order.TaxAmount)
				assert.Equal(t, 2687.5, order.TotalAmount)
				assert.Equal(t, order.Subtotal+order.ShippingAmount+order.TaxAmount-order.DiscountAmount, order.TotalAmount)
			},
		},
		{
			name:     "sale price wins when below list price",
			cfg:      testConfig(),
			shipping: validShipping(),
			setupMocks: func(mockOrders *mocks.MockOrderRepository, mockCart *mocks.MockCartRepository, mockProducts *mocks.MockProductRepository, mockPub *mocks.MockPublisher) {
				sale := 800.0
				mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
					mockCartItem(1, TestUserID, 1, 2),
				}, nil)
				mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, &sale, 10), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(10), nil)
				mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				mockOrders.On("CreateOrder", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Order"), mock.Anything).Return(nil)
				mockPub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, float64(1600), order.Subtotal)
			},
		},
		{
			name:     "empty cart",
			cfg:      testConfig(),
			shipping: validShipping(),
			setupMocks: func(mockOrders *mocks.MockOrderRepository, mockCart *mocks.MockCartRepository, mockProducts *mocks.MockProductRepository, mockPub *mocks.MockPublisher) {
				mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{}, nil)
			},
			expectedError: ErrEmptyCart,
		},
		{
			name:     "insufficient stock fails before any write",
			cfg:      testConfig(),
			shipping: validShipping(),
			setupMocks: func(mockOrders *mocks.MockOrderRepository, mockCart *mocks.MockCartRepository, mockProducts *mocks.MockProductRepository, mockPub *mocks.MockPublisher) {
				mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
					mockCartItem(1, TestUserID, 1, 5),
				}, nil)
				mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, nil, 3), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(3), nil)
			},
		},
		{
			name:     "stock conflict inside the transaction maps to insufficient stock",
			cfg:      testConfig(),
			shipping: validShipping(),
			setupMocks: func(mockOrders *mocks.MockOrderRepository, mockCart *mocks.MockCartRepository, mockProducts *mocks.MockProductRepository, mockPub *mocks.MockPublisher) {
				mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
					mockCartItem(1, TestUserID, 1, 1),
				}, nil)
				mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, nil, 1), nil)
				mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(1), nil)
				mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				mockOrders.On("CreateOrder", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Order"), mock.Anything).
					Return(&repository.StockConflictError{ProductID: 1, ProductName: "Widget", Available: 0})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockOrders, mockCart, mockProducts, mockPub := newOrderServiceUnderTest(tt.cfg)
			tt.setupMocks(mockOrders, mockCart, mockProducts, mockPub)

			order, err := svc.CreateOrder(context.Background(), TestUserID, tt.shipping)

			switch tt.name {
			case "insufficient stock fails before any write", "stock conflict inside the transaction maps to insufficient stock":
				var stockErr *InsufficientStockError
				assert.Error(t, err)
				assert.True(t, errors.As(err, &stockErr))
				assert.Equal(t, uint64(1), stockErr.ProductID)
				assert.Nil(t, order)
			default:
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
					assert.Nil(t, order)
				} else {
					assert.NoError(t, err)
					assert.NotNil(t, order)
					tt.check(t, order)
				}
			}

			time.Sleep(100 * time.Millisecond)

			mockOrders.AssertExpectations(t)
			mockCart.AssertExpectations(t)
			mockProducts.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	svc, _, mockCart, _, _ := newOrderServiceUnderTest(testConfig())
	mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
		mockCartItem(1, TestUserID, 1, 1),
	}, nil)

	order, err := svc.CreateOrder(context.Background(), TestUserID, ShippingDetails{
		Email: "not-an-email",
	})

	assert.Nil(t, order)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "first_name")
	assert.Contains(t, verr.Fields, "last_name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "address")
	assert.Contains(t, verr.Fields, "city")
	assert.Contains(t, verr.Fields, "state")
	assert.NotContains(t, verr.Fields, "postal_code")
}

func TestOrderService_CreateOrder_RetriesOrderNumberCollision(t *testing.T) {
	svc, mockOrders, mockCart, mockProducts, mockPub := newOrderServiceUnderTest(testConfig())

	mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
		mockCartItem(1, TestUserID, 1, 1),
	}, nil)
	mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, nil, 10), nil)
	mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(10), nil)

	// First mint collides, second is free.
	mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
	mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	mockOrders.On("CreateOrder", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Order"), mock.Anything).Return(nil)
	mockPub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()

	order, err := svc.CreateOrder(context.Background(), TestUserID, validShipping())

	assert.NoError(t, err)
	assert.NotNil(t, order)

	time.Sleep(100 * time.Millisecond)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_CreateOrder_GivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, mockOrders, mockCart, mockProducts, _ := newOrderServiceUnderTest(testConfig())

	mockCart.On("FindByOwner", mock.Anything, domain.UserOwner(TestUserID)).Return([]domain.CartItem{
		mockCartItem(1, TestUserID, 1, 1),
	}, nil)
	mockProducts.On("FindByID", mock.Anything, uint64(1)).Return(mockProduct(1, "Widget", 1000, nil, 10), nil)
	mockProducts.On("StockQuantity", mock.Anything, uint64(1)).Return(int64(10), nil)
	mockOrders.On("OrderNumberTaken", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Times(maxOrderNumberAttempts)

	order, err := svc.CreateOrder(context.Background(), TestUserID, validShipping())

	assert.Error(t, err)
	assert.Nil(t, order)
	mockOrders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name          string
		order         *domain.Order
		next          domain.OrderStatus
		setupMocks    func(*mocks.MockOrderRepository, *domain.Order)
		expectedError error
	}{
		{
			name:  "processing to shipped",
			order: &domain.Order{ID: TestOrderID, OrderNumber: "SF20260828ABCDEF", Status: domain.OrderStatusProcessing, PaymentStatus: domain.PaymentStatusPaid},
			next:  domain.OrderStatusShipped,
			setupMocks: func(mockOrders *mocks.MockOrderRepository, order *domain.Order) {
				mockOrders.On("FindByNumber", mock.Anything, order.OrderNumber).Return(order, nil)
				mockOrders.On("UpdateStatus", mock.Anything, order.ID, domain.OrderStatusProcessing, domain.OrderStatusShipped).Return(true, nil)
			},
		},
		{
			name:  "cancelling an unpaid order restores stock",
			order: &domain.Order{ID: TestOrderID, OrderNumber: "SF20260828ABCDEF", Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
			next:  domain.OrderStatusCancelled,
			setupMocks: func(mockOrders *mocks.MockOrderRepository, order *domain.Order) {
				mockOrders.On("FindByNumber", mock.Anything, order.OrderNumber).Return(order, nil)
				mockOrders.On("CancelAndRestock", mock.Anything, order.ID, domain.OrderStatusPending).Return(true, nil)
			},
		},
		{
			name:  "cancelling a paid order does not restock",
			order: &domain.Order{ID: TestOrderID, OrderNumber: "SF20260828ABCDEF", Status: domain.OrderStatusProcessing, PaymentStatus: domain.PaymentStatusPaid},
			next:  domain.OrderStatusCancelled,
			setupMocks: func(mockOrders *mocks.MockOrderRepository, order *domain.Order) {
				mockOrders.On("FindByNumber", mock.Anything, order.OrderNumber).Return(order, nil)
				mockOrders.On("UpdateStatus", mock.Anything, order.ID, domain.OrderStatusProcessing, domain.OrderStatusCancelled).Return(true, nil)
			},
		},
		{
			name:  "illegal transition is rejected without touching storage",
			order: &domain.Order{ID: TestOrderID, OrderNumber: "SF20260828ABCDEF", Status: domain.OrderStatusDelivered, PaymentStatus: domain.PaymentStatusPaid},
			next:  domain.OrderStatusProcessing,
			setupMocks: func(mockOrders *mocks.MockOrderRepository, order *domain.Order) {
				mockOrders.On("FindByNumber", mock.Anything, order.OrderNumber).Return(order, nil)
			},
			expectedError: ErrInvalidTransition,
		},
		{
			name:  "lost update race surfaces as invalid transition",
			order: &domain.Order{ID: TestOrderID, OrderNumber: "SF20260828ABCDEF", Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPaid},
			next:  domain.OrderStatusProcessing,
			setupMocks: func(mockOrders *mocks.MockOrderRepository, order *domain.Order) {
				mockOrders.On("FindByNumber", mock.Anything, order.OrderNumber).Return(order, nil)
				mockOrders.On("UpdateStatus", mock.Anything, order.ID, domain.OrderStatusPending, domain.OrderStatusProcessing).Return(false, nil)
			},
			expectedError: ErrInvalidTransition,
		},
		{
			name:  "order not found",
			order: &domain.Order{OrderNumber: "SF00000000XXXXXX"},
			next:  domain.OrderStatusProcessing,
			setupMocks: func(mockOrders *mocks.MockOrderRepository, order *domain.Order) {
				mockOrders.On("FindByNumber", mock.Anything, order.OrderNumber).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockOrders, _, _, _ := newOrderServiceUnderTest(testConfig())
			tt.setupMocks(mockOrders, tt.order)

			updated, err := svc.UpdateOrderStatus(context.Background(), tt.order.OrderNumber, tt.next)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, updated)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.next, updated.Status)
			}

			mockOrders.AssertExpectations(t)
		})
	}
}
