package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type fileCatalogRepository struct {
	path string
	log  *logrus.Logger
}

// NewFileCatalogRepository reads the catalog from a JSON array of products on every call.
// Wrap it in NewCachedCatalog to avoid re-reading the file per request.
func NewFileCatalogRepository(path string, logger *logrus.Logger) domain.ProductRepository {
	return &fileCatalogRepository{path: path, log: logger}
}

func (r *fileCatalogRepository) ListProducts(_ context.Context) ([]domain.Product, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		r.log.Errorf("Repository: Failed to read catalog file %s: %v", r.path, err)
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}

	products := []domain.Product{}
	if err := json.Unmarshal(content, &products); err != nil {
		r.log.Errorf("Repository: Failed to parse catalog file %s: %v", r.path, err)
		return nil, fmt.Errorf("could not parse catalog: %w", err)
	}
	r.log.Debugf("Repository: Loaded %d products from %s", len(products), r.path)
	return products, nil
}

func (r *fileCatalogRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return findBySlug(products, slug)
}

func findBySlug(products []domain.Product, slug string) (*domain.Product, error) {
	for i := range products {
		if products[i].Slug == slug {
			p := products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with slug %q: %w", slug, domain.ErrProductNotFound)
}
