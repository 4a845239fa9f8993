package domain

import "time"

// Payment records a successful gateway transaction against an order.
// TransactionReference carries a unique index so two concurrent callback
// deliveries can never both insert a row for the same reference.
type Payment struct {
	ID                   uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID              uint64    `json:"orderId" gorm:"not null;index"`
	TransactionReference string    `json:"transactionReference" gorm:"size:64;uniqueIndex;not null"`
	Gateway              string    `json:"gateway" gorm:"size:32;not null"`
	Amount               float64   `json:"amount" gorm:"not null"`
	Currency             string    `json:"currency" gorm:"size:8;not null"`
	Status               string    `json:"status" gorm:"size:32;not null"`
	GatewayResponse      string    `json:"-" gorm:"type:text"`
	PaidAt               time.Time `json:"paidAt"`
	CreatedAt            time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
