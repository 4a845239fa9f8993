package services

import (
	"shopforge/internal/domain"
)

func mockProduct(id uint64, name string, price float64, salePrice *float64, stock int64) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          name,
		SKU:           "SKU-" + name,
		Price:         price,
		SalePrice:     salePrice,
		StockQuantity: stock,
		IsActive:      true,
	}
}

func mockCartItem(id, userID, productID uint64, quantity int64) domain.CartItem {
	uid := userID
	return domain.CartItem{
		ID:        id,
		UserID:    &uid,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func validShipping() ShippingDetails {
	return ShippingDetails{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Phone:     "+2348012345678",
		Address:   "12 Marina Road",
		City:      "Lagos",
		State:     "Lagos",
	}
}

const (
	TestUserID    = uint64(7)
	TestOrderID   = uint64(42)
	TestProductID = uint64(1)
)
