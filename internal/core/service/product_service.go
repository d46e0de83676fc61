package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// ProductService owns catalog CRUD. Validation is uniform across create and
// update, and every violation in a request is reported together.
type ProductService struct {
	repo   ports.ProductRepository
	images ports.ImageStore
	cache  ports.CategoryCache
	logger zerolog.Logger
}

// NewProductService builds a ProductService. cache may be nil; caching is
// then skipped entirely.
func NewProductService(repo ports.ProductRepository, images ports.ImageStore, cache ports.CategoryCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, images: images, cache: cache, logger: logger}
}

func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.invalidateCategories(ctx)
	s.logger.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	product.UpdatedAt = time.Now().UTC()

	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateCategories(ctx)
	return product, nil
}

// Delete removes the product and best-effort removes an internally owned
// image file. File cleanup failing is logged, never surfaced: it is not a
// correctness invariant.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if product.OwnsImage() && s.images != nil {
		if err := s.images.Remove(ctx, product.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("image", product.ImageURL).Msg("failed to remove product image")
		}
	}

	s.invalidateCategories(ctx)
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// Categories serves the distinct category list through the cache when one
// is configured. Cache failures degrade to a direct read.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *ProductService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
