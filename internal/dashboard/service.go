package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glowstock/glowstock/internal/catalog"
	"github.com/glowstock/glowstock/internal/ledger"
)

// ProductSource lists the full catalog.
type ProductSource interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

// SaleSource lists the full sale ledger.
type SaleSource interface {
	List(ctx context.Context) ([]ledger.Sale, error)
}

// Service serves dashboard snapshots. The two collection reads are
// independent and run concurrently; the dashboard tolerates data changing
// between them, so no snapshot isolation is attempted.
type Service struct {
	products ProductSource
	sales    SaleSource
	cache    *Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service. cache may be nil for uncached operation.
func NewService(products ProductSource, sales SaleSource, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		products: products,
		sales:    sales,
		cache:    cache,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot returns the dashboard payload, served from the versioned cache
// when possible. A cache failure degrades to a direct build rather than
// failing the request.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.build(ctx)
	}

	if s.cache == nil {
		return s.build(ctx)
	}

	key, err := s.cache.BuildKey(ctx, "dashboard", "snapshot")
	if err != nil {
		s.logger.Warn("dashboard cache key", slog.Any("error", err))
		return s.build(ctx)
	}
	var snap Snapshot
	if err := s.cache.FetchJSON(ctx, key, &snap, loader); err != nil {
		s.logger.Warn("dashboard cache fetch", slog.Any("error", err))
		return s.build(ctx)
	}
	return snap, nil
}

func (s *Service) build(ctx context.Context) (Snapshot, error) {
	var (
		products []catalog.Product
		sales    []ledger.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.sales.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return BuildSnapshot(products, sales, s.now()), nil
}
