package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowstock/glowstock/internal/platform/httpx"
)

// Repository persists sale records. The ledger is append-mostly: rows are
// inserted by the sale workflow and removed only by reversal, never updated.
type Repository interface {
	List(ctx context.Context) ([]Sale, error)
	Get(ctx context.Context, id uuid.UUID) (Sale, error)
	Insert(ctx context.Context, sale Sale) (Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the Postgres-backed sale repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `s.id, s.product_id, s.product_name, s.category, s.sku, s.date,
	s.units_sold, s.cost_price, s.sale_price, s.total_revenue, s.total_cost, s.profit,
	s.created_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.Category, &s.SKU, &s.Date,
		&s.UnitsSold, &s.CostPrice, &s.SalePrice, &s.TotalRevenue, &s.TotalCost, &s.Profit,
		&s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, fmt.Errorf("sale: %w", httpx.ErrNotFound)
	}
	return s, err
}

// List returns all sales newest-first, joined with the minimal live product
// fields for display. The join is LEFT so rows survive product deletion.
func (r *repository) List(ctx context.Context) ([]Sale, error) {
	query := `SELECT ` + saleColumns + `, p.id, p.sku, p.name
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		ORDER BY s.date DESC, s.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		var refID *uuid.UUID
		var refSKU, refName *string
		err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.Category, &s.SKU, &s.Date,
			&s.UnitsSold, &s.CostPrice, &s.SalePrice, &s.TotalRevenue, &s.TotalCost, &s.Profit,
			&s.CreatedAt, &refID, &refSKU, &refName)
		if err != nil {
			return nil, err
		}
		if refID != nil {
			s.Product = &ProductRef{ID: *refID, SKU: *refSKU, Name: *refName}
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE s.id = $1`
	return scanSale(r.db.QueryRow(ctx, query, id))
}

// Insert stores a sale whose derived fields were pre-computed by the
// workflow; the ledger itself never computes them.
func (r *repository) Insert(ctx context.Context, sale Sale) (Sale, error) {
	if sale.UnitsSold < 1 {
		return Sale{}, fmt.Errorf("%w: must sell at least one unit", httpx.ErrValidation)
	}
	query := `INSERT INTO sales (id, product_id, product_name, category, sku, date,
			units_sold, cost_price, sale_price, total_revenue, total_cost, profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		RETURNING ` + saleColumns
	id := uuid.New()
	return scanSale(r.db.QueryRow(ctx, query, id, sale.ProductID, sale.ProductName,
		sale.Category, sale.SKU, sale.Date, sale.UnitsSold, sale.CostPrice, sale.SalePrice,
		sale.TotalRevenue, sale.TotalCost, sale.Profit))
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale: %w", httpx.ErrNotFound)
	}
	return nil
}
