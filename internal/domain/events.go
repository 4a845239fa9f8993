package domain

import "time"

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      uint64    `json:"userId"`
	TotalAmount float64   `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PaymentReceivedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Reference   string    `json:"reference"`
	Gateway     string    `json:"gateway"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	PaidAt      time.Time `json:"paidAt"`
}
