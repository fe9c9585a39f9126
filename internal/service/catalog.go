package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-gin-storefront/internal/core/cache"
	"go-gin-storefront/internal/domain"
)

const catalogPrefix = "catalog:"

// CatalogService 店面公开的商品列表；配置了 Redis 时按页缓存
type CatalogService struct {
	products domain.ProductRepository
	cache    *cache.Cache
	ttl      time.Duration
	log      *zap.Logger
}

func NewCatalogService(products domain.ProductRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, cache: c, ttl: ttl, log: log}
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (Page[domain.Product], error) {
	key := fmt.Sprintf("%s%d:%d", catalogPrefix, offset, limit)
	page, err := cache.GetOrLoadJSON(ctx, s.cache, key, s.ttl, func(ctx context.Context) (Page[domain.Product], error) {
		items, total, err := s.products.List(ctx, offset, limit)
		if err != nil {
			return Page[domain.Product]{}, err
		}
		if items == nil {
			items = []domain.Product{}
		}
		return Page[domain.Product]{Total: total, Items: items}, nil
	})
	if err != nil {
		s.log.Error("catalog list", zap.Error(err))
		return Page[domain.Product]{}, fmt.Errorf("%w: list catalog", ErrStorage)
	}
	return page, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("catalog get", zap.Error(err))
		return nil, fmt.Errorf("%w: get product", ErrStorage)
	}
	return p, nil
}

// Invalidate 商品变动后清掉所有分页缓存
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, catalogPrefix); err != nil {
		s.log.Warn("catalog cache invalidate", zap.Error(err))
	}
}
