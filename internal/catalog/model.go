package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Category enumerates the product categories accepted by the store layer.
type Category string

const (
	CategoryCosmetics Category = "Cosmetics"
	CategorySkincare  Category = "Skincare"
	CategoryHaircare  Category = "Haircare"
)

// Valid reports whether the category is part of the enumerated set.
func (c Category) Valid() bool {
	switch c {
	case CategoryCosmetics, CategorySkincare, CategoryHaircare:
		return true
	}
	return false
}

// Default alert thresholds applied when a product is created without them.
const (
	DefaultLowStockAlert   = 10
	DefaultHighStockAlert  = 100
	DefaultReorderQuantity = 20
)

// Product represents one catalog SKU.
type Product struct {
	ID                uuid.UUID  `json:"id"`
	SKU               string     `json:"sku"`
	Name              string     `json:"name"`
	Category          Category   `json:"category"`
	Stock             int        `json:"stock"`
	CostPrice         float64    `json:"costPrice"`
	SalePrice         float64    `json:"salePrice"`
	UnitsSold         int        `json:"unitsSold"`
	LowStockAlert     int        `json:"lowStockAlert"`
	HighStockAlert    int        `json:"highStockAlert"`
	ReorderQuantity   int        `json:"reorderQuantity"`
	ManufacturingDate *time.Time `json:"manufacturingDate,omitempty"`
	ExpiryDate        *time.Time `json:"expiryDate,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
