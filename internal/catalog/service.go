package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/glowstock/glowstock/internal/platform/httpx"
)

// Invalidator bumps derived read models (the dashboard snapshot cache) after
// a catalog mutation.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service owns product lifecycle rules on top of the repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
	cache  Invalidator
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, logger *slog.Logger, cache Invalidator) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, cache: cache}
}

// List returns all products, newest-created first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	if id == uuid.Nil {
		return Product{}, fmt.Errorf("%w: product id is required", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	product, err := req.toProduct()
	if err != nil {
		return Product{}, err
	}
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	s.bump(ctx)
	return created, nil
}

// Update merges the partial request onto the stored record and re-validates
// the result before persisting.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	merged, err := req.applyTo(existing)
	if err != nil {
		return Product{}, err
	}
	if err := s.validate(merged); err != nil {
		return Product{}, err
	}
	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		return Product{}, err
	}
	s.bump(ctx)
	return updated, nil
}

// Delete removes the product unconditionally. Historical sales keep their own
// snapshot of the product and are left untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: product id is required", httpx.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump dashboard cache", slog.Any("error", err))
	}
}
