package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resellhub-api/internal/cache"
	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
)

// CatalogLookup is what the allocator needs from the catalog: existence
// checks and the cost/duration snapshots. A nil entity means "not found".
type CatalogLookup interface {
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	GetSalesAttribute(ctx context.Context, id int64) (*model.SalesAttribute, error)
}

// CatalogService serves catalog lookups through a cache. Products and sales
// attributes are treated as immutable once referenced by a sale, so cached
// copies can never leak a retroactive price change into an allocation.
// Clients are mutable and always read through.
type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCatalogService creates a catalog service. cache may be nil to disable
// caching entirely.
func NewCatalogService(repo repository.CatalogRepository, c cache.Cache, ttl time.Duration) *CatalogService {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{repo: repo, cache: c, ttl: ttl}
}

// GetClient always reads through to the store.
func (s *CatalogService) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	return s.repo.GetClient(ctx, id)
}

// GetProduct returns the product, served from cache when possible.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	if s.cache == nil {
		return s.repo.GetProduct(ctx, id)
	}

	key := fmt.Sprintf("product:%d", id)
	data, err := s.cache.GetOrSet(ctx, key, s.ttl, func() ([]byte, error) {
		p, err := s.repo.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			// Cache misses for absent rows are not stored; a freshly created
			// product must be visible immediately.
			return nil, errNotCached
		}
		return json.Marshal(p)
	})
	if err == errNotCached {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode cached product: %w", err)
	}
	return &p, nil
}

// GetSalesAttribute returns the plan, served from cache when possible.
func (s *CatalogService) GetSalesAttribute(ctx context.Context, id int64) (*model.SalesAttribute, error) {
	if s.cache == nil {
		return s.repo.GetSalesAttribute(ctx, id)
	}

	key := fmt.Sprintf("attr:%d", id)
	data, err := s.cache.GetOrSet(ctx, key, s.ttl, func() ([]byte, error) {
		a, err := s.repo.GetSalesAttribute(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, errNotCached
		}
		return json.Marshal(a)
	})
	if err == errNotCached {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var a model.SalesAttribute
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode cached sales attribute: %w", err)
	}
	return &a, nil
}

// errNotCached signals "row absent, do not cache" inside GetOrSet loaders.
var errNotCached = fmt.Errorf("not cached")

var _ CatalogLookup = (*CatalogService)(nil)
