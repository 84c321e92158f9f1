package service

import (
	"context"
	"errors"

	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// detailCache is the part of the redis client the catalog uses.
type detailCache interface {
	GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error)
	SetProductDetail(ctx context.Context, detail *models.ProductDetail) error
	InvalidateProductDetail(ctx context.Context, id int64) error
}

// CatalogService exposes read-only catalog operations with an optional
// redis cache in front of product detail lookups
type CatalogService struct {
	store  *store.Store
	cache  detailCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(store *store.Store, cache *redisclient.Client) *CatalogService {
	s := &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// ListProducts returns all products ordered by id
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetProducts(ctx)
}

// GetProductDetail returns a product joined with its details, consulting the
// cache first. A cache failure degrades to the database, never the request.
func (s *CatalogService) GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProductDetail")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetProductDetail(ctx, id)
		if err != nil {
			s.logger.Warn("Detail cache read failed, falling back to DB",
				zap.Int64("product_id", id),
				zap.Error(err))
		} else if cached != nil {
			util.CatalogCacheHitsTotal.Inc()
			return cached, nil
		} else {
			util.CatalogCacheMissesTotal.Inc()
		}
	}

	detail, err := s.store.GetProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProductDetail(ctx, detail); err != nil {
			s.logger.Warn("Detail cache write failed",
				zap.Int64("product_id", id),
				zap.Error(err))
		}
	}

	return detail, nil
}

// SearchProducts returns ids of products matching the term as a
// case-insensitive substring of name, description or category. An empty
// result is a valid outcome.
func (s *CatalogService) SearchProducts(ctx context.Context, term string) ([]models.ProductRef, error) {
	return s.store.SearchProducts(ctx, term)
}

// FilterProducts returns ids of products whose category matches exactly
func (s *CatalogService) FilterProducts(ctx context.Context, category string) ([]models.ProductRef, error) {
	return s.store.FilterProducts(ctx, category)
}

// InvalidateDetail drops the cached detail after a stock mutation
func (s *CatalogService) InvalidateDetail(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProductDetail(ctx, id); err != nil {
		s.logger.Warn("Detail cache invalidation failed",
			zap.Int64("product_id", id),
			zap.Error(err))
	}
}
