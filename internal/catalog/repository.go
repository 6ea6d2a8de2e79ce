package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowstock/glowstock/internal/platform/httpx"
)

// ErrInsufficientStock is returned by SellStock when the conditional
// decrement matches no row because available stock is below the request.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository persists products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SellStock(ctx context.Context, id uuid.UUID, units int) (Product, error)
	RestockSold(ctx context.Context, id uuid.UUID, units int) (Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the Postgres-backed product repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, sku, name, category, stock, cost_price, sale_price, units_sold,
	low_stock_alert, high_stock_alert, reorder_quantity, manufacturing_date, expiry_date,
	created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Stock, &p.CostPrice, &p.SalePrice,
		&p.UnitsSold, &p.LowStockAlert, &p.HighStockAlert, &p.ReorderQuantity,
		&p.ManufacturingDate, &p.ExpiryDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	return p, err
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	query := `INSERT INTO products (id, sku, name, category, stock, cost_price, sale_price,
			units_sold, low_stock_alert, high_stock_alert, reorder_quantity,
			manufacturing_date, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		RETURNING ` + productColumns
	id := uuid.New()
	created, err := scanProduct(r.db.QueryRow(ctx, query, id, p.SKU, p.Name, p.Category,
		p.Stock, p.CostPrice, p.SalePrice, p.UnitsSold, p.LowStockAlert, p.HighStockAlert,
		p.ReorderQuantity, p.ManufacturingDate, p.ExpiryDate))
	if err != nil {
		return Product{}, mapUniqueViolation(err, p.SKU)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, p Product) (Product, error) {
	query := `UPDATE products SET sku = $2, name = $3, category = $4, stock = $5,
			cost_price = $6, sale_price = $7, units_sold = $8, low_stock_alert = $9,
			high_stock_alert = $10, reorder_quantity = $11, manufacturing_date = $12,
			expiry_date = $13, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	updated, err := scanProduct(r.db.QueryRow(ctx, query, p.ID, p.SKU, p.Name, p.Category,
		p.Stock, p.CostPrice, p.SalePrice, p.UnitsSold, p.LowStockAlert, p.HighStockAlert,
		p.ReorderQuantity, p.ManufacturingDate, p.ExpiryDate))
	if err != nil {
		return Product{}, mapUniqueViolation(err, p.SKU)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	return nil
}

// SellStock applies the sale-side inventory mutation as one conditional
// update so that concurrent sale requests cannot oversell: the decrement only
// happens when enough stock remains, and the loser sees no matched row.
func (r *repository) SellStock(ctx context.Context, id uuid.UUID, units int) (Product, error) {
	query := `UPDATE products
		SET stock = stock - $2, units_sold = units_sold + $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRow(ctx, query, id, units))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return Product{}, err
	}
	// No matched row: either the product is gone or stock ran out.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return Product{}, getErr
	}
	return Product{}, ErrInsufficientStock
}

// RestockSold undoes a sale's inventory effect. The sold counter is floored
// at zero so a reversal never drives it negative.
func (r *repository) RestockSold(ctx context.Context, id uuid.UUID, units int) (Product, error) {
	query := `UPDATE products
		SET stock = stock + $2, units_sold = GREATEST(0, units_sold - $2), updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, id, units))
}

func mapUniqueViolation(err error, sku string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("sku %q already exists: %w", sku, httpx.ErrDuplicate)
	}
	return err
}
