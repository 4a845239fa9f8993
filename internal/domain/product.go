package domain

import "time"

type Product struct {
	ID            uint64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string   `json:"name" gorm:"size:255;not null"`
	SKU           string   `json:"sku" gorm:"size:64;index"`
	Price         float64  `json:"price" gorm:"not null"`
	SalePrice     *float64 `json:"salePrice"`
	FeaturedImage string   `json:"featuredImage" gorm:"size:255"`
	StockQuantity int64    `json:"stockQuantity" gorm:"not null"`
	SalesCount    int64    `json:"salesCount" gorm:"not null;default:0"`
	IsActive      bool     `json:"isActive" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// EffectivePrice is the sale price when one is set below the list price,
// otherwise the list price.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
