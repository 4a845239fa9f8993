package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// orderTransitions is the closed set of allowed status moves.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

func (s PaymentStatus) String() string {
	return string(s)
}

type Order struct {
	ID            uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        uint64        `json:"userId" gorm:"not null;index"`
	OrderNumber   string        `json:"orderNumber" gorm:"size:32;uniqueIndex;not null"`
	Status        OrderStatus   `json:"status" gorm:"type:enum('pending','processing','shipped','delivered','cancelled');default:'pending'"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:enum('pending','paid','failed');default:'pending'"`

	Subtotal       float64 `json:"subtotal" gorm:"not null"`
	TaxAmount      float64 `json:"taxAmount" gorm:"not null"`
	ShippingAmount float64 `json:"shippingAmount" gorm:"not null"`
	DiscountAmount float64 `json:"discountAmount" gorm:"not null"`
	TotalAmount    float64 `json:"totalAmount" gorm:"not null"`

	// Shipping snapshot, captured verbatim at checkout and never updated.
	ShippingFirstName  string `json:"shippingFirstName" gorm:"size:100;not null"`
	ShippingLastName   string `json:"shippingLastName" gorm:"size:100;not null"`
	ShippingEmail      string `json:"shippingEmail" gorm:"size:255;not null"`
	ShippingPhone      string `json:"shippingPhone" gorm:"size:32;not null"`
	ShippingAddress    string `json:"shippingAddress" gorm:"size:255;not null"`
	ShippingCity       string `json:"shippingCity" gorm:"size:100;not null"`
	ShippingState      string `json:"shippingState" gorm:"size:100;not null"`
	ShippingPostalCode string `json:"shippingPostalCode" gorm:"size:32"`
	Notes              string `json:"notes" gorm:"size:1000"`

	PaymentMethod    string `json:"paymentMethod" gorm:"size:32"`
	PaymentReference string `json:"paymentReference" gorm:"size:64;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is an immutable snapshot of the product at purchase time.
// Later catalog edits or deletions must not affect historical orders.
type OrderItem struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID      uint64    `json:"orderId" gorm:"not null;index"`
	ProductID    uint64    `json:"productId" gorm:"not null;index"`
	ProductName  string    `json:"productName" gorm:"size:255;not null"`
	ProductSKU   string    `json:"productSku" gorm:"size:64"`
	ProductImage string    `json:"productImage" gorm:"size:255"`
	Quantity     int64     `json:"quantity" gorm:"not null"`
	UnitPrice    float64   `json:"unitPrice" gorm:"not null"`
	TotalPrice   float64   `json:"totalPrice" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
