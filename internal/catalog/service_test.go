package catalog

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/glowstock/glowstock/internal/platform/httpx"
)

type memoryRepo struct {
	products map[uuid.UUID]Product
	clock    time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products: make(map[uuid.UUID]Product),
		clock:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *memoryRepo) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, p Product) (Product, error) {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return Product{}, fmt.Errorf("sku %q already exists: %w", p.SKU, httpx.ErrDuplicate)
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, p Product) (Product, error) {
	existing, ok := r.products[p.ID]
	if !ok {
		return Product{}, fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	for id, other := range r.products {
		if id != p.ID && other.SKU == p.SKU {
			return Product{}, fmt.Errorf("sku %q already exists: %w", p.SKU, httpx.ErrDuplicate)
		}
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.tick()
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) SellStock(ctx context.Context, id uuid.UUID, units int) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	if p.Stock < units {
		return Product{}, ErrInsufficientStock
	}
	p.Stock -= units
	p.UnitsSold += units
	p.UpdatedAt = r.tick()
	r.products[id] = p
	return p, nil
}

func (r *memoryRepo) RestockSold(ctx context.Context, id uuid.UUID, units int) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	p.Stock += units
	p.UnitsSold -= units
	if p.UnitsSold < 0 {
		p.UnitsSold = 0
	}
	p.UpdatedAt = r.tick()
	r.products[id] = p
	return p, nil
}

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string    { return &v }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	created, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:      "LS-001",
		Name:     "Velvet Matte Lipstick",
		Category: "Cosmetics",
	})
	require.NoError(t, err)
	require.Equal(t, DefaultLowStockAlert, created.LowStockAlert)
	require.Equal(t, DefaultHighStockAlert, created.HighStockAlert)
	require.Equal(t, DefaultReorderQuantity, created.ReorderQuantity)
	require.Equal(t, 0, created.Stock)
	require.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateCategoryEnum(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:      "PF-001",
		Name:     "Midnight Oud",
		Category: "Perfume",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "Perfume")

	_, err = svc.Create(context.Background(), CreateProductRequest{
		SKU:      "SR-001",
		Name:     "Night Serum",
		Category: "Skincare",
	})
	require.NoError(t, err)
}

func TestCreateRejectsNegativeNumbers(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU:      "LS-001",
		Name:     "Lipstick",
		Category: "Cosmetics",
		Stock:    intPtr(-1),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), CreateProductRequest{
		SKU:       "LS-001",
		Name:      "Lipstick",
		Category:  "Cosmetics",
		CostPrice: floatPtr(-10),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		SKU: "LS-001", Name: "Lipstick", Category: "Cosmetics",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateProductRequest{
		SKU: "LS-001", Name: "Another Lipstick", Category: "Cosmetics",
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestUpdateMergesAndRevalidates(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{
		SKU: "SH-520", Name: "Argan Shampoo", Category: "Haircare", Stock: intPtr(5),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateProductRequest{Name: strPtr("Argan Repair Shampoo")})
	require.NoError(t, err)
	require.Equal(t, "Argan Repair Shampoo", updated.Name)
	require.Equal(t, "SH-520", updated.SKU)
	require.Equal(t, 5, updated.Stock)

	_, err = svc.Update(ctx, created.ID, UpdateProductRequest{Category: strPtr("Perfume")})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Update(ctx, created.ID, UpdateProductRequest{Stock: intPtr(-2)})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductRequest{Name: strPtr("Ghost")})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	for _, sku := range []string{"A-1", "A-2", "A-3"} {
		_, err := svc.Create(ctx, CreateProductRequest{SKU: sku, Name: "Product " + sku, Category: "Cosmetics"})
		require.NoError(t, err)
	}

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	require.Equal(t, "A-3", products[0].SKU)
	require.Equal(t, "A-1", products[2].SKU)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-07-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), parsed.UTC())

	parsed, err = ParseDate("2025-07-01T10:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 10, parsed.UTC().Hour())

	parsed, err = ParseDate("")
	require.NoError(t, err)
	require.Nil(t, parsed)

	_, err = ParseDate("July 1st")
	require.ErrorIs(t, err, httpx.ErrValidation)
}
