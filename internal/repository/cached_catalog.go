package repository

import (
	"context"
	"storefront/internal/domain"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const catalogCacheKey = "catalog"

type cachedCatalog struct {
	next     domain.ProductRepository
	ttl      time.Duration
	now      func() time.Time
	sf       singleflight.Group
	mu       sync.RWMutex
	products []domain.Product
	loadedAt time.Time
	log      *logrus.Logger
}

// NewCachedCatalog keeps the whole catalog in memory for ttl. Concurrent misses share one
// load. A failed reload keeps serving the previous copy when there is one.
func NewCachedCatalog(next domain.ProductRepository, ttl time.Duration, logger *logrus.Logger) domain.ProductRepository {
	return &cachedCatalog{
		next: next,
		ttl:  ttl,
		now:  time.Now,
		log:  logger,
	}
}

func (c *cachedCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	fresh := c.products != nil && c.now().Sub(c.loadedAt) < c.ttl
	products := c.products
	c.mu.RUnlock()
	if fresh {
		return products, nil
	}

	result, err, shared := c.sf.Do(catalogCacheKey, func() (interface{}, error) {
		loaded, err := c.next.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.products = loaded
		c.loadedAt = c.now()
		c.mu.Unlock()
		c.log.Infof("Repository: Catalog cache refreshed with %d products", len(loaded))
		return loaded, nil
	})
	if err != nil {
		if products != nil {
			c.log.Warnf("Repository: Catalog reload failed, serving stale copy: %v", err)
			return products, nil
		}
		return nil, err
	}
	if shared {
		c.log.Debug("Repository: Shared catalog load")
	}
	return result.([]domain.Product), nil
}

func (c *cachedCatalog) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(products, slug)
}
