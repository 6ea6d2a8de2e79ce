package catalog

import (
	"fmt"
	"strings"

	"github.com/glowstock/glowstock/internal/platform/httpx"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: sku is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q is not a supported category, must be %s, %s or %s",
			httpx.ErrValidation, p.Category, CategoryCosmetics, CategorySkincare, CategoryHaircare)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", httpx.ErrValidation)
	}
	if p.CostPrice < 0 {
		return fmt.Errorf("%w: cost price cannot be negative", httpx.ErrValidation)
	}
	if p.SalePrice < 0 {
		return fmt.Errorf("%w: sale price cannot be negative", httpx.ErrValidation)
	}
	if p.UnitsSold < 0 {
		return fmt.Errorf("%w: units sold cannot be negative", httpx.ErrValidation)
	}
	return nil
}
