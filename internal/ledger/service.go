package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowstock/glowstock/internal/catalog"
	"github.com/glowstock/glowstock/internal/platform/httpx"
)

// ProductStore is the catalog surface the sale workflow needs. Satisfied by
// catalog.Repository.
type ProductStore interface {
	Get(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	SellStock(ctx context.Context, id uuid.UUID, units int) (catalog.Product, error)
	RestockSold(ctx context.Context, id uuid.UUID, units int) (catalog.Product, error)
}

// Invalidator bumps the dashboard snapshot cache after a ledger mutation.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service runs the sale transaction workflow: the product mutation and the
// ledger write are sequential, with the stock decrement committed first.
type Service struct {
	repo     Repository
	products ProductStore
	logger   *slog.Logger
	cache    Invalidator
	now      func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, products ProductStore, logger *slog.Logger, cache Invalidator) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns the ledger newest-first.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

// RecordSale validates stock, applies the inventory mutation, computes the
// derived financials from the product's prices at the moment of sale, and
// appends the ledger record.
func (s *Service) RecordSale(ctx context.Context, req RecordSaleRequest) (Sale, error) {
	if req.UnitsSold < 1 {
		return Sale{}, fmt.Errorf("%w: must sell at least one unit", httpx.ErrValidation)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	date := s.now()
	if req.Date != "" {
		parsed, err := catalog.ParseDate(req.Date)
		if err != nil {
			return Sale{}, err
		}
		if parsed != nil {
			date = *parsed
		}
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return Sale{}, err
	}
	if product.Stock < req.UnitsSold {
		return Sale{}, &InsufficientStockError{Available: product.Stock, Requested: req.UnitsSold}
	}

	// Conditional decrement: a concurrent sale that drained the stock after
	// the check above makes this return ErrInsufficientStock instead of
	// overselling.
	sold, err := s.products.SellStock(ctx, productID, req.UnitsSold)
	if err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			available := product.Stock
			if current, getErr := s.products.Get(ctx, productID); getErr == nil {
				available = current.Stock
			}
			return Sale{}, &InsufficientStockError{Available: available, Requested: req.UnitsSold}
		}
		return Sale{}, err
	}

	totalRevenue := sold.SalePrice * float64(req.UnitsSold)
	totalCost := sold.CostPrice * float64(req.UnitsSold)
	sale := Sale{
		ProductID:    sold.ID,
		ProductName:  sold.Name,
		Category:     sold.Category,
		SKU:          sold.SKU,
		Date:         date,
		UnitsSold:    req.UnitsSold,
		CostPrice:    sold.CostPrice,
		SalePrice:    sold.SalePrice,
		TotalRevenue: totalRevenue,
		TotalCost:    totalCost,
		Profit:       totalRevenue - totalCost,
	}

	created, err := s.repo.Insert(ctx, sale)
	if err != nil {
		// The stock decrement already committed; undo it so the ledger and
		// the catalog do not drift apart.
		s.logger.Warn("sale insert failed after stock decrement, compensating",
			slog.String("product_id", productID.String()),
			slog.Int("units", req.UnitsSold),
			slog.Any("error", err))
		s.compensate(ctx, productID, req.UnitsSold)
		return Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	s.bump(ctx)
	return created, nil
}

// ReverseSale undoes a recorded sale: stock is replenished on the referenced
// product when it still exists, then the ledger row is removed.
func (s *Service) ReverseSale(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.repo.Get(ctx, saleID)
	if err != nil {
		return err
	}

	if _, err := s.products.RestockSold(ctx, sale.ProductID, sale.UnitsSold); err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("replenish stock: %w", err)
		}
		// Product deleted independently; the reversal still removes the
		// ledger row.
		s.logger.Warn("reversal skipped stock replenishment, product missing",
			slog.String("sale_id", saleID.String()),
			slog.String("product_id", sale.ProductID.String()))
	}

	if err := s.repo.Delete(ctx, saleID); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) compensate(ctx context.Context, productID uuid.UUID, units int) {
	if _, err := s.products.RestockSold(ctx, productID, units); err != nil {
		s.logger.Error("compensating restock failed, stock decremented without sale record",
			slog.String("product_id", productID.String()),
			slog.Int("units", units),
			slog.Any("error", err))
	}
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump dashboard cache", slog.Any("error", err))
	}
}
