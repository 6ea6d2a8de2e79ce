package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/glowstock/glowstock/internal/platform/httpx"
)

// CreateProductRequest carries the payload for adding a product. Optional
// numeric fields are pointers so that an absent field and an explicit zero
// can be told apart.
type CreateProductRequest struct {
	SKU               string   `json:"sku" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	Category          string   `json:"category" validate:"required"`
	Stock             *int     `json:"stock" validate:"omitempty,gte=0"`
	CostPrice         *float64 `json:"costPrice" validate:"omitempty,gte=0"`
	SalePrice         *float64 `json:"salePrice" validate:"omitempty,gte=0"`
	LowStockAlert     *int     `json:"lowStockAlert"`
	HighStockAlert    *int     `json:"highStockAlert"`
	ReorderQuantity   *int     `json:"reorderQuantity"`
	ManufacturingDate string   `json:"manufacturingDate"`
	ExpiryDate        string   `json:"expiryDate"`
}

// UpdateProductRequest carries a partial update; nil fields keep the stored
// value. The merged record is re-validated by the service.
type UpdateProductRequest struct {
	SKU               *string  `json:"sku"`
	Name              *string  `json:"name"`
	Category          *string  `json:"category"`
	Stock             *int     `json:"stock"`
	CostPrice         *float64 `json:"costPrice"`
	SalePrice         *float64 `json:"salePrice"`
	UnitsSold         *int     `json:"unitsSold"`
	LowStockAlert     *int     `json:"lowStockAlert"`
	HighStockAlert    *int     `json:"highStockAlert"`
	ReorderQuantity   *int     `json:"reorderQuantity"`
	ManufacturingDate *string  `json:"manufacturingDate"`
	ExpiryDate        *string  `json:"expiryDate"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate accepts the wire formats the SPA emits: RFC3339 timestamps and
// bare calendar dates from date inputs.
func ParseDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid date %q", httpx.ErrValidation, value)
}

func (r CreateProductRequest) toProduct() (Product, error) {
	p := Product{
		SKU:             strings.TrimSpace(r.SKU),
		Name:            strings.TrimSpace(r.Name),
		Category:        Category(strings.TrimSpace(r.Category)),
		LowStockAlert:   DefaultLowStockAlert,
		HighStockAlert:  DefaultHighStockAlert,
		ReorderQuantity: DefaultReorderQuantity,
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.CostPrice != nil {
		p.CostPrice = *r.CostPrice
	}
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.LowStockAlert != nil {
		p.LowStockAlert = *r.LowStockAlert
	}
	if r.HighStockAlert != nil {
		p.HighStockAlert = *r.HighStockAlert
	}
	if r.ReorderQuantity != nil {
		p.ReorderQuantity = *r.ReorderQuantity
	}
	var err error
	if p.ManufacturingDate, err = ParseDate(r.ManufacturingDate); err != nil {
		return Product{}, err
	}
	if p.ExpiryDate, err = ParseDate(r.ExpiryDate); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r UpdateProductRequest) applyTo(p Product) (Product, error) {
	if r.SKU != nil {
		p.SKU = strings.TrimSpace(*r.SKU)
	}
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		p.Category = Category(strings.TrimSpace(*r.Category))
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.CostPrice != nil {
		p.CostPrice = *r.CostPrice
	}
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.UnitsSold != nil {
		p.UnitsSold = *r.UnitsSold
	}
	if r.LowStockAlert != nil {
		p.LowStockAlert = *r.LowStockAlert
	}
	if r.HighStockAlert != nil {
		p.HighStockAlert = *r.HighStockAlert
	}
	if r.ReorderQuantity != nil {
		p.ReorderQuantity = *r.ReorderQuantity
	}
	var err error
	if r.ManufacturingDate != nil {
		if p.ManufacturingDate, err = ParseDate(*r.ManufacturingDate); err != nil {
			return Product{}, err
		}
	}
	if r.ExpiryDate != nil {
		if p.ExpiryDate, err = ParseDate(*r.ExpiryDate); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}
