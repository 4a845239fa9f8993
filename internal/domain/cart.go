package domain

import "time"

// CartOwner identifies who a cart line belongs to: a logged-in user or an
// anonymous session, never both.
type CartOwner struct {
	userID    uint64
	sessionID string
}

func UserOwner(userID uint64) CartOwner {
	return CartOwner{userID: userID}
}

func GuestOwner(sessionID string) CartOwner {
	return CartOwner{sessionID: sessionID}
}

func (o CartOwner) IsGuest() bool {
	return o.userID == 0
}

// UserID returns the owning user id; ok is false for guest carts.
func (o CartOwner) UserID() (uint64, bool) {
	return o.userID, o.userID != 0
}

// SessionID returns the owning session id; ok is false for user carts.
func (o CartOwner) SessionID() (string, bool) {
	return o.sessionID, o.userID == 0
}

type CartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    *uint64   `json:"userId" gorm:"index"`
	SessionID *string   `json:"-" gorm:"size:128;index"`
	ProductID uint64    `json:"productId" gorm:"not null;index"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// CartLine is a cart item enriched with its product for display and
// checkout: unit price already resolved to the effective price.
type CartLine struct {
	ItemID      uint64  `json:"itemId"`
	ProductID   uint64  `json:"productId"`
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	Image       string  `json:"image"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int64   `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
	InStock     int64   `json:"inStock"`
}
