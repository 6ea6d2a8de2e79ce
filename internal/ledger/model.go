package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowstock/glowstock/internal/catalog"
)

// Sale is one completed transaction. Product fields are denormalized at sale
// time so the record stays self-sufficient for reporting even after the
// product is edited or deleted.
type Sale struct {
	ID          uuid.UUID        `json:"id"`
	ProductID   uuid.UUID        `json:"productId"`
	ProductName string           `json:"productName"`
	Category    catalog.Category `json:"category"`
	SKU         string           `json:"sku"`
	Date        time.Time        `json:"date"`
	UnitsSold   int              `json:"unitsSold"`
	CostPrice   float64          `json:"costPrice"`
	SalePrice   float64          `json:"salePrice"`

	// Derived fields, computed once at creation and stored.
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	Profit       float64 `json:"profit"`

	CreatedAt time.Time `json:"createdAt"`

	// Product is the live catalog reference resolved on listing; nil when
	// the product has since been deleted.
	Product *ProductRef `json:"product,omitempty"`
}

// ProductRef carries the minimal live product fields joined for display.
type ProductRef struct {
	ID   uuid.UUID `json:"id"`
	SKU  string    `json:"sku"`
	Name string    `json:"name"`
}

// InsufficientStockError reports a sale request exceeding available stock.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock to make sale: %d available, %d requested", e.Available, e.Requested)
}
